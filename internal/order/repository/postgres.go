package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const orderColumns = `o.id, o.company_id, o.customer_id, o.order_number, o.status, o.order_date,
    o.due_date, o.delivery_date, o.delivery_address, o.delivery_method, o.subtotal, o.discount,
    o.tax_rate, o.tax_amount, o.total, o.notes, o.special_instructions, o.created_at, o.updated_at,
    c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone`

type orderRow struct {
	model.Order
	CustomerName  sql.NullString `db:"customer_name"`
	CustomerEmail *string        `db:"customer_email"`
	CustomerPhone *string        `db:"customer_phone"`
}

func (row orderRow) toModel() model.Order {
	o := row.Order
	if row.CustomerName.Valid {
		o.Customer = &model.CustomerRef{
			ID:    o.CustomerID,
			Name:  row.CustomerName.String,
			Email: row.CustomerEmail,
			Phone: row.CustomerPhone,
		}
	}
	return o
}

type itemRow struct {
	model.OrderItem
	ProductName  sql.NullString      `db:"product_name"`
	ProductPrice decimal.NullDecimal `db:"product_price"`
	ProductUnit  sql.NullString      `db:"product_unit"`
}

func (r *PGRepository) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO orders (
            id, company_id, customer_id, order_number, status, order_date, due_date,
            delivery_date, delivery_address, delivery_method, discount, tax_rate,
            notes, special_instructions, created_at, updated_at
        )
        VALUES (
            :id, :company_id, :customer_id, :order_number, :status, :order_date, :due_date,
            :delivery_date, :delivery_address, :delivery_method, :discount, :tax_rate,
            :notes, :special_instructions, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (
            id, order_id, product_id, quantity, unit_price, discount, line_total,
            customizations, notes, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :quantity, :unit_price, :discount, :line_total,
            :customizations, :notes, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, itemQuery, items); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, companyID, id string) (*model.Order, error) {
	var row orderRow
	query := `
        SELECT ` + orderColumns + `
        FROM orders o
        LEFT JOIN customers c ON c.id = o.customer_id
        WHERE o.id = $1 AND o.company_id = $2
    `
	if err := r.DB.GetContext(ctx, &row, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	o := row.toModel()
	items, err := r.findItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PGRepository) findItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var rows []itemRow
	query := `
        SELECT i.id, i.order_id, i.product_id, i.quantity, i.unit_price, i.discount, i.line_total,
            i.customizations, i.notes, i.created_at,
            p.name AS product_name, p.price AS product_price, p.unit AS product_unit
        FROM order_items i
        LEFT JOIN products p ON p.id = i.product_id
        WHERE i.order_id = $1
        ORDER BY i.created_at, i.id
    `
	if err := r.DB.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	items := make([]model.OrderItem, 0, len(rows))
	for _, row := range rows {
		it := row.OrderItem
		if row.ProductName.Valid {
			it.Product = &model.ProductRef{
				ID:    it.ProductID,
				Name:  row.ProductName.String,
				Price: row.ProductPrice.Decimal,
				Unit:  row.ProductUnit.String,
			}
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var rows []orderRow
	var count int

	conditions := []string{"o.company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = f.Status
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "o.customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.DateFrom != nil {
		conditions = append(conditions, "o.order_date >= :date_from")
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		conditions = append(conditions, "o.order_date <= :date_to")
		args["date_to"] = *f.DateTo
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countRows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM orders o"+whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if countRows.Next() {
		if err := countRows.Scan(&count); err != nil {
			countRows.Close()
			return nil, 0, err
		}
	}
	countRows.Close()

	query := "SELECT " + orderColumns + " FROM orders o LEFT JOIN customers c ON c.id = o.customer_id" +
		whereClause + " ORDER BY o.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (f.Page-1)*f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, count, nil
}

// Update writes the mutable header fields. Money totals are left to the database triggers.
func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_id = :customer_id,
            status = :status,
            order_date = :order_date,
            due_date = :due_date,
            delivery_date = :delivery_date,
            delivery_address = :delivery_address,
            delivery_method = :delivery_method,
            discount = :discount,
            tax_rate = :tax_rate,
            notes = :notes,
            special_instructions = :special_instructions,
            updated_at = :updated_at
        WHERE id = :id AND company_id = :company_id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
