package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/infra/queue"
)

// SubmitLead is the single pipeline behind both lead endpoints: validate,
// normalize, one insert attempt against the configured store, classify the
// result. The real outcome is always logged, whatever the caller decides to
// show the visitor.
type SubmitLead struct {
	Repo    entity.LeadRepositoryInterface
	Queue   QueueProducerInterface
	Logger  *zap.Logger
	Timeout time.Duration
}

func NewSubmitLead(repo entity.LeadRepositoryInterface, producer QueueProducerInterface, logger *zap.Logger) *SubmitLead {
	return &SubmitLead{
		Repo:    repo,
		Queue:   producer,
		Logger:  logger,
		Timeout: 5 * time.Second,
	}
}

func (uc *SubmitLead) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	validationErrors := ValidateLeadInput(input)
	if len(validationErrors) > 0 {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, e.Message)
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: strings.Join(msgs, "; "),
		}
	}

	lead := entity.NewLead(
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		strings.ToLower(strings.TrimSpace(input.Email)),
		stripWhitespace(input.Phone),
		strings.TrimSpace(input.Restaurant),
		strings.TrimSpace(input.RequestType),
		strings.TrimSpace(input.Message),
		strings.TrimSpace(input.Source),
	)
	lead.AffiliateID = strings.TrimSpace(input.AffiliateID)

	// Repo == nil is the unconfigured deployment: same fallback as a dead
	// backend, the visitor's draft is simply dropped.
	if uc.Repo == nil {
		uc.Logger.Warn("lead store not configured, submission dropped",
			zap.String("email", lead.Email),
			zap.String("restaurant", lead.Restaurant),
		)
		return &SubmitLeadOutput{Outcome: OutcomeFallback, Lead: lead}, nil
	}

	insertCtx, cancel := context.WithTimeout(ctx, uc.Timeout)
	defer cancel()

	// Exactly one attempt. No retry: a hung or refused insert becomes a
	// fallback/failure, never a blocked form.
	if err := uc.Repo.Insert(insertCtx, lead); err != nil {
		if IsBackendUnavailable(err) {
			uc.Logger.Warn("lead store unreachable, submission dropped",
				zap.String("email", lead.Email),
				zap.Error(err),
			)
			return &SubmitLeadOutput{Outcome: OutcomeFallback, Lead: lead}, nil
		}
		uc.Logger.Error("lead store rejected submission",
			zap.String("email", lead.Email),
			zap.Error(err),
		)
		return &SubmitLeadOutput{Outcome: OutcomeFailure, Lead: lead}, nil
	}

	uc.Logger.Info("lead captured",
		zap.String("lead_id", lead.ID),
		zap.String("request_type", lead.RequestType),
		zap.String("source", lead.Source),
	)

	// Operator notification rides the queue; it must never fail the submit.
	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:      lead.ID,
			FirstName:   lead.FirstName,
			LastName:    lead.LastName,
			Email:       lead.Email,
			Phone:       lead.Phone,
			Restaurant:  lead.Restaurant,
			RequestType: lead.RequestType,
			Message:     lead.Message,
			Source:      lead.Source,
			CapturedAt:  lead.CreatedAt,
		}
		if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
			uc.Logger.Warn("failed to publish lead.captured event",
				zap.String("lead_id", lead.ID),
				zap.Error(err),
			)
		}
	}

	return &SubmitLeadOutput{Outcome: OutcomeSuccess, Lead: lead}, nil
}
