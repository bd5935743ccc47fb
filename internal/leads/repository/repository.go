package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quote_portal_backend/internal/leads/domain"
)

const leadColumns = `
	id, full_name, email, phone, address_line1, address_line2, city, state, postal_code, country,
	lat, lng, service_notes, notes, source, status,
	utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	submission_count, is_returning, last_submission_at, contact_count, last_contacted_at,
	converted_at, converted_client_id, converted_job_id, created_at, updated_at`

// Repo is the Postgres lead repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func (r *Repo) BeginSubmission(ctx context.Context) (SubmissionTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &submissionTx{tx: tx}, nil
}

type submissionTx struct {
	tx pgx.Tx
}

func (s *submissionTx) FindByEmail(ctx context.Context, email string) (domain.Lead, bool, error) {
	lead, err := scanLead(s.tx.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lower(email) = lower($1)
		FOR UPDATE
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, false, nil
	}
	if err != nil {
		return domain.Lead{}, false, err
	}
	return lead, true, nil
}

func (s *submissionTx) Insert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	a := lead.Attribution
	stored, err := scanLead(s.tx.QueryRow(ctx, `
		INSERT INTO leads (
			full_name, email, phone, address_line1, address_line2, city, state, postal_code, country,
			lat, lng, service_notes, source, status,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			submission_count, is_returning, last_submission_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::lead_status,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $23)
		ON CONFLICT ((lower(email))) WHERE email IS NOT NULL DO NOTHING
		RETURNING `+leadColumns,
		lead.FullName, lead.Email, lead.Phone, lead.AddressLine1, lead.AddressLine2, lead.City, lead.State,
		lead.PostalCode, lead.Country, lead.Latitude, lead.Longitude, lead.ServiceNotes, lead.Source,
		string(lead.Status), a.Source, a.Medium, a.Campaign, a.Term, a.Content,
		lead.SubmissionCount, lead.IsReturning, lead.LastSubmissionAt, lead.CreatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, false, nil
	}
	if err != nil {
		return domain.Lead{}, false, err
	}
	return stored, true, nil
}

func (s *submissionTx) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	a := lead.Attribution
	stored, err := scanLead(s.tx.QueryRow(ctx, `
		UPDATE leads SET
			full_name = $2, email = $3, phone = $4, address_line1 = $5, address_line2 = $6,
			city = $7, state = $8, postal_code = $9, country = $10, lat = $11, lng = $12,
			service_notes = $13, utm_source = $14, utm_medium = $15, utm_campaign = $16,
			utm_term = $17, utm_content = $18, submission_count = $19, is_returning = $20,
			last_submission_at = $21, updated_at = $22
		WHERE id = $1
		RETURNING `+leadColumns,
		lead.ID, lead.FullName, lead.Email, lead.Phone, lead.AddressLine1, lead.AddressLine2,
		lead.City, lead.State, lead.PostalCode, lead.Country, lead.Latitude, lead.Longitude,
		lead.ServiceNotes, a.Source, a.Medium, a.Campaign, a.Term, a.Content,
		lead.SubmissionCount, lead.IsReturning, lead.LastSubmissionAt, lead.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return stored, err
}

// ReplaceInterests runs inside a savepoint so a failure leaves the lead write intact.
func (s *submissionTx) ReplaceInterests(ctx context.Context, leadID uuid.UUID, services map[string]int) (int, error) {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("open interest savepoint: %w", err)
	}

	count, err := replaceInterests(ctx, sp, leadID, services)
	if err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return 0, errors.Join(err, fmt.Errorf("rollback interest savepoint: %w", rbErr))
		}
		return 0, err
	}
	if err := sp.Commit(ctx); err != nil {
		return 0, fmt.Errorf("release interest savepoint: %w", err)
	}
	return count, nil
}

func replaceInterests(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, services map[string]int) (int, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM lead_service_interests WHERE lead_id = $1`, leadID); err != nil {
		return 0, fmt.Errorf("delete interests: %w", err)
	}
	if len(services) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(services))
	quantities := make([]int32, 0, len(services))
	for id, qty := range services {
		ids = append(ids, id)
		quantities = append(quantities, int32(qty))
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO lead_service_interests (lead_id, service_offering_id, quantity)
		SELECT $1, sel.id, sel.quantity
		FROM unnest($2::text[], $3::int[]) AS sel(id, quantity)
		JOIN service_offerings so ON so.id = sel.id
	`, leadID, ids, quantities)
	if err != nil {
		return 0, fmt.Errorf("insert interests: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *submissionTx) Commit(ctx context.Context) error {
	return s.tx.Commit(ctx)
}

func (s *submissionTx) Rollback(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repo) ListInterests(ctx context.Context, leadID uuid.UUID) ([]domain.Interest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.service_offering_id, so.name, so.base_price_cents, i.quantity
		FROM lead_service_interests i
		JOIN service_offerings so ON so.id = i.service_offering_id
		WHERE i.lead_id = $1
		ORDER BY so.name ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Interest, 0)
	for rows.Next() {
		var item domain.Interest
		if err := rows.Scan(&item.ServiceOfferingID, &item.ServiceName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("status = $%d::lead_status", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR city ILIKE $%d)", n, n, n, n))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads %s
		ORDER BY last_submission_at DESC, id
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// UpdateStatus applies a status change with its lifecycle side effects. Converted leads
// only accept a repeat of the converted status.
func (r *Repo) UpdateStatus(ctx context.Context, params StatusUpdate) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			status = $2::lead_status,
			contact_count = contact_count + CASE WHEN $2 = 'contacted' THEN 1 ELSE 0 END,
			last_contacted_at = CASE WHEN $2 = 'contacted' THEN $4::timestamptz ELSE last_contacted_at END,
			converted_at = CASE WHEN $2 = 'converted' THEN COALESCE(converted_at, $4::timestamptz) ELSE converted_at END,
			notes = CASE WHEN $3 = '' THEN notes ELSE concat_ws(E'\n', NULLIF(notes, ''), $3::text) END,
			updated_at = $4
		WHERE id = $1 AND (status <> 'converted' OR $2 = 'converted')
		RETURNING `+leadColumns,
		params.ID, string(params.Status), params.Note, params.At,
	))
	if !errors.Is(err, pgx.ErrNoRows) {
		return lead, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, params.ID).Scan(&exists); err != nil {
		return domain.Lead{}, err
	}
	if !exists {
		return domain.Lead{}, ErrNotFound
	}
	return domain.Lead{}, ErrStatusLocked
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead   domain.Lead
		status string
	)
	a := &lead.Attribution
	err := row.Scan(
		&lead.ID, &lead.FullName, &lead.Email, &lead.Phone, &lead.AddressLine1, &lead.AddressLine2,
		&lead.City, &lead.State, &lead.PostalCode, &lead.Country,
		&lead.Latitude, &lead.Longitude, &lead.ServiceNotes, &lead.Notes, &lead.Source, &status,
		&a.Source, &a.Medium, &a.Campaign, &a.Term, &a.Content,
		&lead.SubmissionCount, &lead.IsReturning, &lead.LastSubmissionAt, &lead.ContactCount, &lead.LastContactedAt,
		&lead.ConvertedAt, &lead.ConvertedClientID, &lead.ConvertedJobID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Status = domain.Status(status)
	return lead, nil
}
