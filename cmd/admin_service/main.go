package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	accessApi "github.com/ridloal/mushaf-storefront/internal/access/api"
	accessRepository "github.com/ridloal/mushaf-storefront/internal/access/repository"
	accessService "github.com/ridloal/mushaf-storefront/internal/access/service"
	catalogApi "github.com/ridloal/mushaf-storefront/internal/catalog/api"
	catalogRepository "github.com/ridloal/mushaf-storefront/internal/catalog/repository"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	orderApi "github.com/ridloal/mushaf-storefront/internal/order/api"
	orderRepository "github.com/ridloal/mushaf-storefront/internal/order/repository"
	orderService "github.com/ridloal/mushaf-storefront/internal/order/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/config"
	"github.com/ridloal/mushaf-storefront/internal/platform/database"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

func main() {
	config.LoadDotEnv()
	dbCfg := config.LoadStorefrontDBConfig()
	serverCfg := config.LoadServerConfig("8081")
	authCfg := config.LoadAuthConfig()
	auditCfg := config.LoadAuditConfig()
	corsCfg := config.LoadCORSConfig()

	logger.Info("Starting Admin Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, dbCfg)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to database for Admin Service", err)
		return
	}
	defer db.Close()

	accessHandler := accessApi.NewAccessHandler(
		accessService.NewAccessService(accessRepository.NewPostgresUserRepository(db), authCfg),
	)
	productRepo := catalogRepository.NewPostgresProductRepository(db)
	productHandler := catalogApi.NewProductHandler(
		catalogService.NewCatalogLoader(productRepo),
		catalogService.NewProductService(productRepo),
	)
	ordService := orderService.NewOrderService(orderRepository.NewPostgresOrderRepository(db), auditCfg.MinAge)
	orderHandler := orderApi.NewOrderHandler(ordService)

	if auditCfg.Enabled {
		stopAudit, err := ordService.StartOrphanAudit(auditCfg.Spec)
		if err != nil {
			logger.Error("Failed to schedule orphaned order audit", err)
			return
		}
		defer stopAudit()
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  corsCfg.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	admin := router.Group("/api/v1/admin")
	accessHandler.RegisterRoutes(admin)

	protected := admin.Group("", accessHandler.RequireAdmin())
	orderHandler.RegisterRoutes(protected)
	productHandler.RegisterAdminRoutes(protected)

	logger.Info("Admin Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Admin Service server", errSrv)
	}
}
