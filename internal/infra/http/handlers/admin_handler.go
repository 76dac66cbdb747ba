package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/infra/http/middleware"
	"github.com/restoflow/leads-api/internal/usecase"
)

// AdminHandler backs the admin leads page: the full list with its stats
// block, status transitions, and the strict direct-insert path where real
// persistence errors are surfaced instead of masked.
type AdminHandler struct {
	repo   entity.LeadRepositoryInterface
	submit *usecase.SubmitLead
	logger *zap.Logger
}

func NewAdminHandler(repo entity.LeadRepositoryInterface, submit *usecase.SubmitLead, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, submit: submit, logger: logger}
}

type leadsPageResponse struct {
	Leads []entity.Lead    `json:"leads"`
	Stats entity.LeadStats `json:"stats"`
}

func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	leads, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	if leads == nil {
		leads = []entity.Lead{}
	}

	writeJSON(w, http.StatusOK, leadsPageResponse{
		Leads: leads,
		Stats: entity.ComputeLeadStats(leads),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON invalide"})
		return
	}

	if !entity.ValidLeadStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Statut invalide"})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Lead introuvable"})
			return
		}
		h.logger.Error("failed to update lead status",
			zap.String("lead_id", id),
			zap.String("status", req.Status),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CreateLead is the back-office direct insert. Strict by contract: fallback
// and failure are both errors here, whatever the landing-page policy says.
func (h *AdminHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON invalide"})
		return
	}

	output, err := h.submit.Execute(r.Context(), input)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	middleware.RecordLeadCaptured(string(output.Outcome))

	if output.Outcome != usecase.OutcomeSuccess {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	writeJSON(w, http.StatusCreated, output.Lead)
}
