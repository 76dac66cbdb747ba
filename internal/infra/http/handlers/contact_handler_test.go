package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
)

// MockContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Insert(ctx context.Context, contact *entity.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func postContact(handler *ContactHandler, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Create(w, req)
	return w
}

func TestCreateContactSuccess(t *testing.T) {
	repo := new(MockContactRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	handler := NewContactHandler(repo, zap.NewNop())

	w := postContact(handler, map[string]string{
		"nom":           "Dupont",
		"email":         "dupont@resto.fr",
		"telephone":     "0612345678",
		"etablissement": "Chez Dupont",
		"type":          "restaurateur",
		"message":       "Rappelez-moi",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	json.NewDecoder(w.Body).Decode(&resp)
	assert.True(t, resp["success"])

	repo.AssertCalled(t, "Insert", mock.Anything, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.Nom == "Dupont" && c.Type == entity.ContactTypeRestaurateur
	}))
}

func TestCreateContactMissingRequiredFields(t *testing.T) {
	handler := NewContactHandler(new(MockContactRepository), zap.NewNop())

	// telephone missing
	w := postContact(handler, map[string]string{
		"nom":   "Dupont",
		"email": "dupont@resto.fr",
		"type":  "restaurateur",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, "Champs obligatoires manquants", resp["error"])
}

func TestCreateContactInvalidType(t *testing.T) {
	handler := NewContactHandler(new(MockContactRepository), zap.NewNop())

	w := postContact(handler, map[string]string{
		"nom":       "Dupont",
		"email":     "dupont@resto.fr",
		"telephone": "0612345678",
		"type":      "fournisseur",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, "Type invalide", resp["error"])
}

func TestCreateContactPersistenceFailureSurfaced(t *testing.T) {
	repo := new(MockContactRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("phone_format check"))
	handler := NewContactHandler(repo, zap.NewNop())

	w := postContact(handler, map[string]string{
		"nom":       "Dupont",
		"email":     "dupont@resto.fr",
		"telephone": "0612345678",
		"type":      "apporteur",
	})

	// Strict variant: the real failure becomes the contract's 500.
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, "Erreur serveur", resp["error"])
}

func TestCreateContactNoDatabaseConfigured(t *testing.T) {
	handler := NewContactHandler(nil, zap.NewNop())

	w := postContact(handler, map[string]string{
		"nom":       "Dupont",
		"email":     "dupont@resto.fr",
		"telephone": "0612345678",
		"type":      "apporteur",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
