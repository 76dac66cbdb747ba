package usecase

import (
	"context"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/infra/queue"
)

// IdentityProvider exchanges an opaque session token for an identity.
// Session issuance, password hashing and OTP delivery all live on the
// provider side; this boundary only reads "who is this token".
type IdentityProvider interface {
	GetIdentity(ctx context.Context, accessToken string) (*Identity, error)
	SignOut(ctx context.Context, accessToken string) error
}

type Identity struct {
	ID    string
	Email string
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

type SubmitLeadInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Restaurant  string `json:"restaurant"`
	RequestType string `json:"request_type"`
	Message     string `json:"message"`
	Source      string `json:"source"`
	AffiliateID string `json:"affiliate_id"`
}

// Outcome of a single insert attempt. Fallback is not an error: it means the
// backend was unreachable or unconfigured and the write was dropped.
type SubmitOutcome string

const (
	OutcomeSuccess  SubmitOutcome = "success"
	OutcomeFallback SubmitOutcome = "fallback"
	OutcomeFailure  SubmitOutcome = "failure"
)

type SubmitLeadOutput struct {
	Outcome SubmitOutcome `json:"outcome"`
	Lead    *entity.Lead  `json:"lead,omitempty"`
}

// UserVisibleSuccess tells the caller whether the visitor should see the
// submission as accepted under the given fallback policy.
func (o *SubmitLeadOutput) UserVisibleSuccess(policy FallbackPolicy) bool {
	switch o.Outcome {
	case OutcomeSuccess:
		return true
	case OutcomeFallback:
		return policy == MaskAsSuccess
	}
	return false
}

// FallbackPolicy decides what an unreachable backend looks like to the
// end user. The landing page masks it; the back-office surfaces it.
type FallbackPolicy string

const (
	MaskAsSuccess FallbackPolicy = "mask_as_success"
	SurfaceError  FallbackPolicy = "surface_error"
)

func ParseFallbackPolicy(s string) FallbackPolicy {
	if s == string(SurfaceError) {
		return SurfaceError
	}
	return MaskAsSuccess
}
