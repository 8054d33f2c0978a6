// Package postgres provides the PostgreSQL product catalog adapter.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// ProductRepo reads the product catalog from a products table.
type ProductRepo struct{ Pool PgxPool }

// PgxPool is the minimal subset of pgxpool used by the repo for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NewProductRepo constructs a ProductRepo with the given pool.
func NewProductRepo(p PgxPool) *ProductRepo { return &ProductRepo{Pool: p} }

// List returns all products in catalog order (position, then id). An
// invalid category in the table is reported as an error immediately: a
// broken catalog row must never be silently scored as zero.
func (r *ProductRepo) List(ctx domain.Context) ([]domain.Product, error) {
	tracer := otel.Tracer("repo.products")
	ctx, span := tracer.Start(ctx, "products.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "products"),
	)
	q := `SELECT id, name, description, price, category, image FROM products ORDER BY position, id`
	rows, err := r.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("op=products.list: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image); err != nil {
			return nil, fmt.Errorf("op=products.list: scan: %w", err)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("%w: product %q has unknown category %q", domain.ErrInvalidArgument, p.ID, p.Category)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=products.list: %w", err)
	}
	return out, nil
}

// Get loads a single product by id.
func (r *ProductRepo) Get(ctx domain.Context, id string) (domain.Product, error) {
	tracer := otel.Tracer("repo.products")
	ctx, span := tracer.Start(ctx, "products.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "products"),
	)
	q := `SELECT id, name, description, price, category, image FROM products WHERE id=$1`
	var p domain.Product
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: product %q", domain.ErrNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("op=products.get: %w", err)
	}
	return p, nil
}
