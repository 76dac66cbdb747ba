package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, first_name, last_name, email, phone, restaurant,
			request_type, message, status, source, affiliate_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		nullString(lead.Phone),
		lead.Restaurant,
		lead.RequestType,
		nullString(lead.Message),
		lead.Status,
		nullString(lead.Source),
		nullString(lead.AffiliateID),
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)

	return classify(err)
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	query := `
		SELECT id, first_name, last_name, email, COALESCE(phone, ''), restaurant,
			request_type, COALESCE(message, ''), status, COALESCE(source, ''),
			COALESCE(affiliate_id, ''), created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
	`
	return r.queryLeads(ctx, query)
}

func (r *LeadRepository) ListByAffiliate(ctx context.Context, affiliateID string) ([]entity.Lead, error) {
	query := `
		SELECT id, first_name, last_name, email, COALESCE(phone, ''), restaurant,
			request_type, COALESCE(message, ''), status, COALESCE(source, ''),
			COALESCE(affiliate_id, ''), created_at, updated_at
		FROM leads
		WHERE affiliate_id = $1
		ORDER BY created_at DESC
	`
	return r.queryLeads(ctx, query, affiliateID)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return classify(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...any) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Restaurant,
			&l.RequestType, &l.Message, &l.Status, &l.Source, &l.AffiliateID,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}

	return leads, rows.Err()
}

// classify keeps the submission outcome taxonomy honest: a *pq.Error means
// postgres answered and rejected the write, anything else (dial failure,
// timeout, bad conn) means the backend was not reachable at all.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, rejected := err.(*pq.Error); rejected {
		return err
	}
	return fmt.Errorf("%w: %v", usecase.ErrBackendUnavailable, err)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
