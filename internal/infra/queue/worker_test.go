package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) SendLeadNotification(payload LeadCapturedPayload) error {
	args := m.Called(payload)
	return args.Error(0)
}

func TestProcessMessageDeliversNotification(t *testing.T) {
	notifier := new(MockLeadNotifier)
	worker := NewWorker(nil, notifier, zap.NewNop())

	payload := LeadCapturedPayload{
		LeadID:     "l1",
		FirstName:  "Marie",
		Restaurant: "Le Petit Bistrot",
		Email:      "marie@bistrot.fr",
	}
	notifier.On("SendLeadNotification", payload).Return(nil)

	err := worker.processMessage(context.Background(), payload)

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestProcessMessagePropagatesMailerError(t *testing.T) {
	notifier := new(MockLeadNotifier)
	worker := NewWorker(nil, notifier, zap.NewNop())

	notifier.On("SendLeadNotification", mock.Anything).Return(errors.New("smtp: connection refused"))

	err := worker.processMessage(context.Background(), LeadCapturedPayload{LeadID: "l1"})

	assert.Error(t, err)
}

func TestProcessMessageWithoutNotifierIsNoop(t *testing.T) {
	worker := NewWorker(nil, nil, zap.NewNop())

	err := worker.processMessage(context.Background(), LeadCapturedPayload{LeadID: "l1"})

	assert.NoError(t, err)
}
