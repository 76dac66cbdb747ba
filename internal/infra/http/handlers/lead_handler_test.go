package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/usecase"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByAffiliate(ctx context.Context, affiliateID string) ([]entity.Lead, error) {
	args := m.Called(ctx, affiliateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func validLeadBody() []byte {
	body, _ := json.Marshal(usecase.SubmitLeadInput{
		FirstName:  "Marie",
		LastName:   "Dupont",
		Email:      "marie@bistrot.fr",
		Phone:      "0612345678",
		Restaurant: "Le Petit Bistrot",
		Message:    "Une demo svp",
	})
	return body
}

func TestCaptureLeadSuccess(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewSubmitLead(repo, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(validLeadBody()))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CaptureLeadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	assert.True(t, resp.Success)
}

func TestCaptureLeadValidationErrorsListed(t *testing.T) {
	uc := usecase.NewSubmitLead(nil, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	body, _ := json.Marshal(usecase.SubmitLeadInput{Email: "a@b"})
	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp CaptureLeadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "Le prenom est requis")
	assert.Contains(t, resp.Errors, "Le nom est requis")
	assert.Contains(t, resp.Errors, "L'email n'est pas valide")
	assert.Contains(t, resp.Errors, "Le nom du restaurant est requis")
}

func TestCaptureLeadFallbackMaskedAsSuccess(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Insert", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: connection refused", usecase.ErrBackendUnavailable))

	uc := usecase.NewSubmitLead(repo, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(validLeadBody()))
	req.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	// The visitor sees a success, the logs keep the truth.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp CaptureLeadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	assert.True(t, resp.Success)
}

func TestCaptureLeadFallbackSurfacedWhenStrict(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Insert", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: connection refused", usecase.ErrBackendUnavailable))

	uc := usecase.NewSubmitLead(repo, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.SurfaceError, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(validLeadBody()))
	req.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCaptureLeadRejectionIsAlwaysAnError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Insert", mock.Anything, mock.Anything).
		Return(fmt.Errorf("constraint violation"))

	uc := usecase.NewSubmitLead(repo, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(validLeadBody()))
	req.RemoteAddr = "10.0.0.5:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCaptureLeadInvalidJSON(t *testing.T) {
	uc := usecase.NewSubmitLead(nil, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader([]byte("not json")))
	req.RemoteAddr = "10.0.0.6:1234"
	w := httptest.NewRecorder()

	handler.Capture(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptureLeadRateLimited(t *testing.T) {
	uc := usecase.NewSubmitLead(nil, nil, zap.NewNop())
	handler := NewLeadHandler(uc, usecase.MaskAsSuccess, zap.NewNop())

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(validLeadBody()))
		req.RemoteAddr = "10.9.9.9:1234"
		last = httptest.NewRecorder()
		handler.Capture(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}
