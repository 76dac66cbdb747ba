package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/infra/http/middleware"
	"github.com/restoflow/leads-api/internal/usecase"
)

// DashboardHandler serves the role-dependent landing payload plus the
// affiliate view and sign-out.
type DashboardHandler struct {
	repo     entity.LeadRepositoryInterface
	identity usecase.IdentityProvider
	logger   *zap.Logger
}

func NewDashboardHandler(repo entity.LeadRepositoryInterface, identity usecase.IdentityProvider, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{repo: repo, identity: identity, logger: logger}
}

type dashboardResponse struct {
	User  *entity.User `json:"user"`
	Admin bool         `json:"admin"`
}

// Home answers GET /dashboard for any authenticated user; the guard has
// already resolved and injected the user.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, dashboardResponse{
		User:  user,
		Admin: user.IsAdmin(),
	})
}

// AffiliateLeads lists only the leads attributed to the calling affiliate.
func (h *DashboardHandler) AffiliateLeads(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if h.repo == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erreur serveur"})
		return
	}

	leads, err := h.repo.ListByAffiliate(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list affiliate leads",
			zap.String("affiliate_id", user.ID),
			zap.Error(err),
		)
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

// Logout revokes the provider session, clears the cookie and sends the
// browser back to the login page.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token != "" && h.identity != nil {
		if err := h.identity.SignOut(r.Context(), token); err != nil {
			// Local sign-out still happens; the provider session will expire.
			h.logger.Warn("provider sign-out failed", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, middleware.LoginRoute, http.StatusSeeOther)
}
