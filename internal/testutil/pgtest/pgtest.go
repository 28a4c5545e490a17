// Package pgtest opens the integration database used by repository tests.
// Tests are skipped unless TEST_DATABASE_URL points at a disposable PostgreSQL.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/migrations"
	"github.com/fekuna/orderflow-service/pkg/database/postgres"
)

const EnvURL = "TEST_DATABASE_URL"

// Open connects, applies the embedded migrations and closes the pool when t ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv(EnvURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvURL)
	}

	db, err := postgres.NewPostgres(&postgres.Config{
		DSN:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = migrations.Apply(ctx, db)
	require.NoError(t, err)
	return db
}

// SeedCompany creates an owner and a company and removes both, with everything
// the company owns, when t ends.
func SeedCompany(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	ctx := context.Background()
	userID, companyID := uuid.NewString(), uuid.NewString()

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, 'x')`,
		userID, userID+"@test.local")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO companies (id, user_id, name) VALUES ($1, $2, 'Test bakery')`,
		companyID, userID)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM orders WHERE company_id = $1`, companyID)
		db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	})
	return companyID
}

func SeedCustomer(t *testing.T, db *sqlx.DB, companyID, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO customers (id, company_id, name) VALUES ($1, $2, $3)`,
		id, companyID, name)
	require.NoError(t, err)
	return id
}

func SeedProduct(t *testing.T, db *sqlx.DB, companyID, name, price string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO products (id, company_id, name, price) VALUES ($1, $2, $3, $4::numeric)`,
		id, companyID, name, price)
	require.NoError(t, err)
	return id
}

// SeedInventory creates an active inventory row holding stock units.
func SeedInventory(t *testing.T, db *sqlx.DB, companyID string, productID *string, name, stock string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO inventory (id, company_id, product_id, name, type, current_stock)
         VALUES ($1, $2, $3, $4, 'finished_product', $5::numeric)`,
		id, companyID, productID, name, stock)
	require.NoError(t, err)
	return id
}
