package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const productColumns = `id, company_id, name, description, price, sku, unit, category, attributes,
    track_inventory, stock_quantity, min_stock_level, is_active, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, company_id, name, description, price, sku, unit, category, attributes,
            track_inventory, stock_quantity, min_stock_level, is_active, created_at, updated_at
        )
        VALUES (
            :id, :company_id, :name, :description, :price, :sku, :unit, :category, :attributes,
            :track_inventory, :stock_quantity, :min_stock_level, :is_active, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, companyID, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND company_id = $2`
	if err := r.DB.GetContext(ctx, &p, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE company_id = ? AND id IN (?)`, companyID, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{"company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.TrackInventory != nil {
		conditions = append(conditions, "track_inventory = :track_inventory")
		args["track_inventory"] = *f.TrackInventory
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT " + productColumns + " FROM products" + whereClause + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (f.Page-1)*f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            price = :price,
            sku = :sku,
            unit = :unit,
            category = :category,
            attributes = :attributes,
            track_inventory = :track_inventory,
            stock_quantity = :stock_quantity,
            min_stock_level = :min_stock_level,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND company_id = :company_id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
