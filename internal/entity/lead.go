package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead lifecycle statuses, mutated only by back-office operators.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Request types accepted on the landing-page form.
const (
	RequestTypeDemo        = "demo"
	RequestTypeInfo        = "info"
	RequestTypeAffiliation = "affiliation"
	RequestTypeAutre       = "autre"
)

// SourceLandingPage tags every lead captured through the public form.
const SourceLandingPage = "landing_page"

type Lead struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Restaurant  string    `json:"restaurant"`
	RequestType string    `json:"request_type"`
	Message     string    `json:"message,omitempty"`
	Status      string    `json:"status"`
	Source      string    `json:"source,omitempty"`
	AffiliateID string    `json:"affiliate_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLead builds a lead in its initial state. Callers are expected to have
// validated and normalized the fields already.
func NewLead(firstName, lastName, email, phone, restaurant, requestType, message, source string) *Lead {
	if requestType == "" {
		requestType = RequestTypeDemo
	}
	if source == "" {
		source = SourceLandingPage
	}
	now := time.Now()
	return &Lead{
		ID:          uuid.New().String(),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		Restaurant:  restaurant,
		RequestType: requestType,
		Message:     message,
		Status:      LeadStatusNew,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

func ValidRequestType(t string) bool {
	switch t {
	case RequestTypeDemo, RequestTypeInfo, RequestTypeAffiliation, RequestTypeAutre:
		return true
	}
	return false
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error
	List(ctx context.Context) ([]Lead, error)
	ListByAffiliate(ctx context.Context, affiliateID string) ([]Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// LeadStats is the summary block shown on the admin leads page.
type LeadStats struct {
	Total          int `json:"total"`
	New            int `json:"new"`
	RecentWeek     int `json:"recent_week"`
	ConversionRate int `json:"conversion_rate"` // percentage, rounded
}

func ComputeLeadStats(leads []Lead) LeadStats {
	stats := LeadStats{Total: len(leads)}
	converted := 0
	weekAgo := time.Now().AddDate(0, 0, -7)

	for _, l := range leads {
		if l.Status == LeadStatusNew {
			stats.New++
		}
		if l.Status == LeadStatusConverted {
			converted++
		}
		if l.CreatedAt.After(weekAgo) {
			stats.RecentWeek++
		}
	}

	if stats.Total > 0 {
		stats.ConversionRate = int(float64(converted)/float64(stats.Total)*100 + 0.5)
	}
	return stats
}
