package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/restoflow/leads-api/internal/entity"
)

// Insert writes one lead row. Implements entity.LeadRepositoryInterface for
// the hosted deployment.
func (c *Client) Insert(ctx context.Context, lead *entity.Lead) error {
	payload := map[string]any{
		"id":           lead.ID,
		"first_name":   lead.FirstName,
		"last_name":    lead.LastName,
		"email":        lead.Email,
		"phone":        nullable(lead.Phone),
		"restaurant":   lead.Restaurant,
		"request_type": lead.RequestType,
		"message":      nullable(lead.Message),
		"status":       lead.Status,
		"source":       nullable(lead.Source),
		"affiliate_id": nullable(lead.AffiliateID),
	}

	body, err := c.doRest(ctx, http.MethodPost, "leads", payload)
	if err != nil {
		return err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("decode leads insert response: %w", err)
	}
	if len(rows) > 0 {
		applyRow(lead, rows[0])
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]entity.Lead, error) {
	return c.listLeads(ctx, "leads?select=*&order=created_at.desc")
}

func (c *Client) ListByAffiliate(ctx context.Context, affiliateID string) ([]entity.Lead, error) {
	path := fmt.Sprintf("leads?select=*&affiliate_id=eq.%s&order=created_at.desc",
		url.QueryEscape(affiliateID))
	return c.listLeads(ctx, path)
}

// UpdateStatus patches one lead row. PostgREST answers an unknown id with an
// empty representation rather than an error, so that case is mapped to
// sql.ErrNoRows for parity with the postgres repository.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	path := fmt.Sprintf("leads?id=eq.%s", url.QueryEscape(id))
	body, err := c.doRest(ctx, http.MethodPatch, path, map[string]any{
		"status":     status,
		"updated_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("decode leads update response: %w", err)
	}
	if len(rows) == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (c *Client) listLeads(ctx context.Context, path string) ([]entity.Lead, error) {
	body, err := c.doRest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]entity.Lead, 0, len(rows))
	for _, row := range rows {
		var l entity.Lead
		applyRow(&l, row)
		leads = append(leads, l)
	}
	return leads, nil
}

func applyRow(lead *entity.Lead, row leadRow) {
	lead.ID = row.ID
	lead.FirstName = row.FirstName
	lead.LastName = row.LastName
	lead.Email = row.Email
	lead.Phone = deref(row.Phone)
	lead.Restaurant = row.Restaurant
	lead.RequestType = row.RequestType
	lead.Message = deref(row.Message)
	lead.Status = row.Status
	lead.Source = deref(row.Source)
	lead.AffiliateID = deref(row.AffiliateID)
	lead.CreatedAt = parseTimestamp(row.CreatedAt)
	lead.UpdatedAt = parseTimestamp(row.UpdatedAt)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, _ = time.Parse("2006-01-02T15:04:05.999999", s)
	}
	return t
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
