package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"quote_portal_backend/platform/apperr"
)

const (
	offeringNotFoundMessage = "service offering not found"
	offeringColumns         = `id, category, name, description, base_price_cents, unit, default_duration_minutes, is_active, created_at, updated_at`
	uniqueViolation         = "23505"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new offerings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves an offering by its slug ID.
func (r *Repo) GetByID(ctx context.Context, id string) (Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM service_offerings WHERE id = $1`

	o, err := scanOffering(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(offeringNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("get service offering: %w", err)
	}
	return o, nil
}

// ListActive retrieves active offerings ordered by name.
func (r *Repo) ListActive(ctx context.Context) ([]Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM service_offerings WHERE is_active = true ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active service offerings: %w", err)
	}
	defer rows.Close()

	return scanOfferings(rows)
}

// List retrieves offerings with search, category and active filters.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Offering, int, error) {
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}
	var categoryParam interface{}
	if params.Category != "" {
		categoryParam = params.Category
	}
	var isActiveParam interface{}
	if params.IsActive != nil {
		isActiveParam = *params.IsActive
	}

	where := `
		WHERE ($1::text IS NULL OR name ILIKE $1 OR id ILIKE $1)
			AND ($2::text IS NULL OR category = $2)
			AND ($3::boolean IS NULL OR is_active = $3)`
	args := []interface{}{searchParam, categoryParam, isActiveParam}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_offerings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count service offerings: %w", err)
	}

	query := `SELECT ` + offeringColumns + ` FROM service_offerings` + where + `
		ORDER BY category ASC, name ASC
		LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list service offerings: %w", err)
	}
	defer rows.Close()

	items, err := scanOfferings(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create inserts a new active offering.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Offering, error) {
	query := `
		INSERT INTO service_offerings (id, category, name, description, base_price_cents, unit, default_duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + offeringColumns

	o, err := scanOffering(r.pool.QueryRow(ctx, query,
		params.ID, params.Category, params.Name, params.Description, params.BasePriceCents, params.Unit, params.DefaultDurationMinutes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Offering{}, apperr.Conflict("service offering id already exists")
		}
		return Offering{}, fmt.Errorf("create service offering: %w", err)
	}
	return o, nil
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Offering, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Category != nil, "category", params.Category},
		{params.Name != nil, "name", params.Name},
		{params.Description != nil, "description", params.Description},
		{params.BasePriceCents != nil, "base_price_cents", params.BasePriceCents},
		{params.Unit != nil, "unit", params.Unit},
		{params.DefaultDurationMinutes != nil, "default_duration_minutes", params.DefaultDurationMinutes},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, params.ID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, params.ID)

	query := fmt.Sprintf(`UPDATE service_offerings SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, offeringColumns)

	o, err := scanOffering(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(offeringNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("update service offering: %w", err)
	}
	return o, nil
}

// SetActive toggles visibility. Offerings are never deleted because interests reference them.
func (r *Repo) SetActive(ctx context.Context, id string, isActive bool) (Offering, error) {
	query := `UPDATE service_offerings SET is_active = $2, updated_at = now() WHERE id = $1 RETURNING ` + offeringColumns

	o, err := scanOffering(r.pool.QueryRow(ctx, query, id, isActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(offeringNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("set service offering active: %w", err)
	}
	return o, nil
}

func scanOffering(row pgx.Row) (Offering, error) {
	var o Offering
	err := row.Scan(
		&o.ID, &o.Category, &o.Name, &o.Description, &o.BasePriceCents, &o.Unit,
		&o.DefaultDurationMinutes, &o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func scanOfferings(rows pgx.Rows) ([]Offering, error) {
	var results []Offering
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service offering: %w", err)
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service offerings: %w", err)
	}
	return results, nil
}
