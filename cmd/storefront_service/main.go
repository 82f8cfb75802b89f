package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	catalogApi "github.com/ridloal/mushaf-storefront/internal/catalog/api"
	catalogRepository "github.com/ridloal/mushaf-storefront/internal/catalog/repository"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	orderRepository "github.com/ridloal/mushaf-storefront/internal/order/repository"
	orderService "github.com/ridloal/mushaf-storefront/internal/order/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/config"
	"github.com/ridloal/mushaf-storefront/internal/platform/database"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	storefrontApi "github.com/ridloal/mushaf-storefront/internal/storefront/api"
	"github.com/ridloal/mushaf-storefront/internal/storefront/session"
)

func main() {
	config.LoadDotEnv()
	dbCfg := config.LoadStorefrontDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	sessionCfg := config.LoadSessionConfig()
	corsCfg := config.LoadCORSConfig()

	logger.Info("Starting Storefront Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, dbCfg)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to database for Storefront Service", err)
		return
	}
	defer db.Close()

	productRepo := catalogRepository.NewPostgresProductRepository(db)
	loader := catalogService.NewCatalogLoader(productRepo)
	ordService := orderService.NewOrderService(orderRepository.NewPostgresOrderRepository(db), 0)
	sessions := session.NewManager(loader, ordService)

	stopSweeper, err := sessions.StartSweeper(sessionCfg.SweepSpec, sessionCfg.MaxIdle)
	if err != nil {
		logger.Error("Failed to schedule session sweeper", err)
		return
	}
	defer stopSweeper()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  corsCfg.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	apiV1 := router.Group("/api/v1")
	catalogApi.NewProductHandler(loader, nil).RegisterRoutes(apiV1)
	storefrontApi.NewSessionHandler(sessions).RegisterRoutes(apiV1)

	logger.Info("Storefront Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Storefront Service server", errSrv)
	}
}
