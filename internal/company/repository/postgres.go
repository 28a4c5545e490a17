package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/orderflow-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const companyColumns = `id, user_id, name, email, phone, address, business_type,
    inventory_management, inventory_type, currency, timezone, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, c *model.Company) error {
	query := `
        INSERT INTO companies (
            id, user_id, name, email, phone, address, business_type,
            inventory_management, inventory_type, currency, timezone, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :name, :email, :phone, :address, :business_type,
            :inventory_management, :inventory_type, :currency, :timezone, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Company, error) {
	var c model.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1 AND user_id = $2`
	if err := r.DB.GetContext(ctx, &c, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

func (r *PGRepository) FindByUserID(ctx context.Context, userID string) (*model.Company, error) {
	var c model.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1`
	if err := r.DB.GetContext(ctx, &c, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by user: %w", err)
	}
	return &c, nil
}

func (r *PGRepository) CompanyIDForUser(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.DB.GetContext(ctx, &id, `SELECT id FROM companies WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve company: %w", err)
	}
	return id, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Company) error {
	query := `
        UPDATE companies
        SET name = :name,
            email = :email,
            phone = :phone,
            address = :address,
            business_type = :business_type,
            inventory_management = :inventory_management,
            inventory_type = :inventory_type,
            currency = :currency,
            timezone = :timezone,
            updated_at = :updated_at
        WHERE id = :id AND user_id = :user_id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return nil
}
