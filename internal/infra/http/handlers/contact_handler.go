package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
)

// ContactHandler keeps the legacy self-hosted contract alive:
// POST /api/contacts with French field names, strict error surfacing.
// Unlike the landing form there is no masking here: a failed insert is a
// 500 the caller sees.
type ContactHandler struct {
	repo   entity.ContactRepositoryInterface
	logger *zap.Logger
}

func NewContactHandler(repo entity.ContactRepositoryInterface, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, logger: logger}
}

type createContactRequest struct {
	Nom           string `json:"nom"`
	Email         string `json:"email"`
	Telephone     string `json:"telephone"`
	Etablissement string `json:"etablissement"`
	Type          string `json:"type"`
	Message       string `json:"message"`
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON invalide"})
		return
	}

	if req.Nom == "" || req.Email == "" || req.Telephone == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Champs obligatoires manquants"})
		return
	}

	if !entity.ValidContactType(req.Type) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Type invalide"})
		return
	}

	// Strict path: no repository means no silent fallback, the caller gets
	// the 500 the contract promises.
	if h.repo == nil {
		h.logger.Error("contact insert attempted with no database configured")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	contact := &entity.Contact{
		Nom:           req.Nom,
		Email:         req.Email,
		Telephone:     req.Telephone,
		Etablissement: req.Etablissement,
		Type:          req.Type,
		Message:       req.Message,
	}

	if err := h.repo.Insert(r.Context(), contact); err != nil {
		h.logger.Error("contact insert failed",
			zap.String("type", req.Type),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
