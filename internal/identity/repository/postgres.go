package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, u); err != nil {
		if apperror.IsUniqueViolation(err, "users_email_key") {
			return apperror.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := r.DB.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
