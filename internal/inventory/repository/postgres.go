package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const inventoryColumns = `i.id, i.company_id, i.product_id, i.name, i.type, i.unit, i.current_stock,
    i.min_stock_level, i.max_stock_level, i.cost_per_unit, i.supplier, i.location, i.is_active,
    i.created_at, i.updated_at`

const movementColumns = `m.id, m.company_id, m.inventory_id, m.order_id, m.type, m.quantity,
    m.quantity_before, m.quantity_after, m.unit_cost, m.reference, m.reason, m.notes, m.created_at,
    o.order_number AS order_number`

type inventoryRow struct {
	model.Inventory
	ProductName  sql.NullString      `db:"product_name"`
	ProductPrice decimal.NullDecimal `db:"product_price"`
}

func (row inventoryRow) toModel() model.Inventory {
	inv := row.Inventory
	if row.ProductName.Valid && inv.ProductID != nil {
		inv.Product = &model.ProductRef{ID: *inv.ProductID, Name: row.ProductName.String, Price: row.ProductPrice.Decimal}
	}
	return inv
}

type movementRow struct {
	model.StockMovement
	OrderNumber sql.NullString `db:"order_number"`
}

func (row movementRow) toModel() model.StockMovement {
	m := row.StockMovement
	if row.OrderNumber.Valid && m.OrderID != nil {
		m.Order = &model.OrderRef{ID: *m.OrderID, OrderNumber: row.OrderNumber.String}
	}
	return m
}

func (r *PGRepository) Create(ctx context.Context, inv *model.Inventory) error {
	query := `
        INSERT INTO inventory (
            id, company_id, product_id, name, type, unit, current_stock, min_stock_level,
            max_stock_level, cost_per_unit, supplier, location, is_active, created_at, updated_at
        )
        VALUES (
            :id, :company_id, :product_id, :name, :type, :unit, :current_stock, :min_stock_level,
            :max_stock_level, :cost_per_unit, :supplier, :location, :is_active, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, companyID, id string) (*model.Inventory, error) {
	var row inventoryRow
	query := `
        SELECT ` + inventoryColumns + `, p.name AS product_name, p.price AS product_price
        FROM inventory i
        LEFT JOIN products p ON p.id = i.product_id
        WHERE i.id = $1 AND i.company_id = $2
    `
	if err := r.DB.GetContext(ctx, &row, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	inv := row.toModel()
	return &inv, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var rows []inventoryRow
	var count int

	conditions := []string{"i.company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	if f.Type != "" {
		conditions = append(conditions, "i.type = :type")
		args["type"] = f.Type
	}
	if f.LowStock {
		conditions = append(conditions, "i.current_stock < i.min_stock_level")
	}
	if f.IsActive != nil {
		conditions = append(conditions, "i.is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countRows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM inventory i"+whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}
	if countRows.Next() {
		if err := countRows.Scan(&count); err != nil {
			countRows.Close()
			return nil, 0, err
		}
	}
	countRows.Close()

	query := "SELECT " + inventoryColumns + ", p.name AS product_name, p.price AS product_price" +
		" FROM inventory i LEFT JOIN products p ON p.id = i.product_id" +
		whereClause + " ORDER BY i.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (f.Page-1)*f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}

	items := make([]model.Inventory, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, count, nil
}

func (r *PGRepository) FindActiveByProducts(ctx context.Context, companyID string, productIDs []string) ([]model.Inventory, error) {
	if len(productIDs) == 0 {
		return []model.Inventory{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT `+inventoryColumns+`
        FROM inventory i
        WHERE i.company_id = ? AND i.is_active AND i.product_id IN (?)
        ORDER BY i.created_at
    `, companyID, productIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.Inventory
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get inventory by products: %w", err)
	}
	return items, nil
}

func (r *PGRepository) Update(ctx context.Context, inv *model.Inventory) error {
	query := `
        UPDATE inventory
        SET product_id = :product_id,
            name = :name,
            type = :type,
            unit = :unit,
            min_stock_level = :min_stock_level,
            max_stock_level = :max_stock_level,
            cost_per_unit = :cost_per_unit,
            supplier = :supplier,
            location = :location,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND company_id = :company_id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}
	return nil
}

func (r *PGRepository) ApplyMovement(ctx context.Context, m *model.StockMovement) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current decimal.Decimal
	err = tx.GetContext(ctx, &current,
		`SELECT current_stock FROM inventory WHERE id = $1 AND company_id = $2 FOR UPDATE`,
		m.InventoryID, m.CompanyID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock inventory: %w", err)
	}

	next, err := model.NextStock(m.Type, current, m.Quantity)
	if err != nil {
		return true, err
	}
	m.QuantityBefore = current
	m.QuantityAfter = next

	insertQuery := `
        INSERT INTO stock_movements (
            id, company_id, inventory_id, order_id, type, quantity, quantity_before,
            quantity_after, unit_cost, reference, reason, notes, created_at
        )
        VALUES (
            :id, :company_id, :inventory_id, :order_id, :type, :quantity, :quantity_before,
            :quantity_after, :unit_cost, :reference, :reason, :notes, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, m); err != nil {
		return true, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE inventory SET current_stock = $1 WHERE id = $2 AND company_id = $3`,
		next, m.InventoryID, m.CompanyID,
	); err != nil {
		return true, fmt.Errorf("failed to update stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return true, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return true, nil
}

func (r *PGRepository) FindMovementByID(ctx context.Context, companyID, id string) (*model.StockMovement, error) {
	var row movementRow
	query := `
        SELECT ` + movementColumns + `
        FROM stock_movements m
        LEFT JOIN orders o ON o.id = m.order_id
        WHERE m.id = $1 AND m.company_id = $2
    `
	if err := r.DB.GetContext(ctx, &row, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stock movement: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var rows []movementRow
	var count int

	args := map[string]interface{}{"company_id": f.CompanyID, "inventory_id": f.InventoryID}
	whereClause := " WHERE m.company_id = :company_id AND m.inventory_id = :inventory_id"

	countRows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM stock_movements m"+whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}
	if countRows.Next() {
		if err := countRows.Scan(&count); err != nil {
			countRows.Close()
			return nil, 0, err
		}
	}
	countRows.Close()

	query := "SELECT " + movementColumns + " FROM stock_movements m LEFT JOIN orders o ON o.id = m.order_id" +
		whereClause + " ORDER BY m.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (f.Page-1)*f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, 0, fmt.Errorf("failed to list stock movements: %w", err)
	}

	movements := make([]model.StockMovement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, row.toModel())
	}
	return movements, count, nil
}

func (r *PGRepository) HasOrderMovement(ctx context.Context, companyID, inventoryID, orderID string, movementType model.MovementType) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
            SELECT 1 FROM stock_movements
            WHERE company_id = $1 AND inventory_id = $2 AND order_id = $3 AND type = $4
        )
    `
	if err := r.DB.GetContext(ctx, &exists, query, companyID, inventoryID, orderID, string(movementType)); err != nil {
		return false, fmt.Errorf("failed to check order movement: %w", err)
	}
	return exists, nil
}
