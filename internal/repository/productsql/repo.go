// Package productsql stores the catalog in SQLite through sqlx.
package productsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/kailas-cloud/ongsearch/internal/db"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	domproduct "github.com/kailas-cloud/ongsearch/internal/domain/product"
)

const columns = `seq, id, name, description, price, category, category_id, image_url,
	stock_qty, weight_grams, organization_id, created_at, updated_at`

// Repo is a SQLite-backed product store. Snapshot order is insertion order.
type Repo struct {
	conn *sqlx.DB
}

// Open connects to the database at path and applies the schema.
// Use ":memory:" for an ephemeral catalog.
func Open(ctx context.Context, path string) (*Repo, error) {
	conn, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	r := &Repo{conn: conn}
	if err := r.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (r *Repo) Close() error {
	return r.conn.Close()
}

// HealthCheck pings the database.
func (r *Repo) HealthCheck(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

// Snapshot returns every product in insertion order.
func (r *Repo) Snapshot(ctx context.Context) ([]domproduct.Product, error) {
	var rows []row
	if err := r.conn.SelectContext(ctx, &rows, `SELECT `+columns+` FROM products ORDER BY seq`); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("select products: %w", err)}
	}
	out := make([]domproduct.Product, 0, len(rows))
	for _, rw := range rows {
		p, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domproduct.Product, error) {
	var rw row
	err := r.conn.GetContext(ctx, &rw, `SELECT `+columns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domproduct.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domproduct.Product{}, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("select product %s: %w", id, err)}
	}
	return rw.toDomain()
}

// Upsert creates or replaces a product. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, p domproduct.Product) (bool, error) {
	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM products WHERE id = ?`, p.ID()); err != nil {
		return false, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("check exists %s: %w", p.ID(), err)}
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO products (id, name, description, price, category, category_id, image_url,
			stock_qty, weight_grams, organization_id, created_at, updated_at)
		VALUES (:id, :name, :description, :price, :category, :category_id, :image_url,
			:stock_qty, :weight_grams, :organization_id, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			price = excluded.price,
			category = excluded.category,
			category_id = excluded.category_id,
			image_url = excluded.image_url,
			stock_qty = excluded.stock_qty,
			weight_grams = excluded.weight_grams,
			organization_id = excluded.organization_id,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, toRow(p))
	if err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("upsert product %s: %w", p.ID(), err)}
	}

	if err := tx.Commit(); err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("commit: %w", err)}
	}
	return n == 0, nil
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("delete product %s: %w", id, err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("rows affected: %w", err)}
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
