package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const customerColumns = `id, company_id, name, email, phone, address, city, postal_code,
    country, notes, is_active, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (
            id, company_id, name, email, phone, address, city, postal_code,
            country, notes, is_active, created_at, updated_at
        )
        VALUES (
            :id, :company_id, :name, :email, :phone, :address, :city, :postal_code,
            :country, :notes, :is_active, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, companyID, id string) (*model.Customer, error) {
	var c model.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND company_id = $2`
	if err := r.DB.GetContext(ctx, &c, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var customers []model.Customer
	var count int

	conditions := []string{"company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR email ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM customers"+whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT " + customerColumns + " FROM customers" + whereClause + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (f.Page-1)*f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &customers, args); err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, count, nil
}

func (r *PGRepository) FindOrders(ctx context.Context, companyID, customerID string) ([]model.CustomerOrder, error) {
	orders := []model.CustomerOrder{}
	query := `
        SELECT id, order_number, status, order_date, total, created_at
        FROM orders
        WHERE customer_id = $1 AND company_id = $2
        ORDER BY created_at DESC
    `
	if err := r.DB.SelectContext(ctx, &orders, query, customerID, companyID); err != nil {
		return nil, fmt.Errorf("failed to get customer orders: %w", err)
	}
	return orders, nil
}

func (r *PGRepository) CountOrders(ctx context.Context, companyID, customerID string) (int, error) {
	var n int
	query := `SELECT count(*) FROM orders WHERE customer_id = $1 AND company_id = $2`
	if err := r.DB.GetContext(ctx, &n, query, customerID, companyID); err != nil {
		return 0, fmt.Errorf("failed to count customer orders: %w", err)
	}
	return n, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET name = :name,
            email = :email,
            phone = :phone,
            address = :address,
            city = :city,
            postal_code = :postal_code,
            country = :country,
            notes = :notes,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND company_id = :company_id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// Delete removes the customer. An order inserted after the usecase pre-check still
// trips the foreign key, which is reported the same way.
func (r *PGRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if apperror.IsForeignKeyViolation(err) {
			return false, apperror.ErrCustomerHasOrders
		}
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
