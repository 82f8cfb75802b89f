package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ridloal/mushaf-storefront/internal/access/domain"
	"github.com/ridloal/mushaf-storefront/internal/platform/database"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// ResolveRole returns the role stored for the user, or "" when the user
	// has no row.
	ResolveRole(ctx context.Context, userID string) (string, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, COALESCE(role, ''), password_hash, created_at, updated_at FROM users WHERE email = $1`
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserByEmail: query failed", err)
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) ResolveRole(ctx context.Context, userID string) (string, error) {
	var role sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return "", nil
		}
		logger.Error("ResolveRole: query failed", err, logger.Fields{"user_id": userID})
		return "", err
	}
	return role.String, nil
}
