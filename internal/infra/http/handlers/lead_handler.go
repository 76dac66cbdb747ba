package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/infra/http/middleware"
	"github.com/restoflow/leads-api/internal/usecase"
)

// LeadHandler serves the public landing-page form. It is the lenient path:
// depending on the configured policy, a dead backend still answers the
// visitor with a success so the form never looks broken mid-deployment.
// The honest outcome goes to the logs and metrics.
type LeadHandler struct {
	submit      *usecase.SubmitLead
	policy      usecase.FallbackPolicy
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

func NewLeadHandler(submit *usecase.SubmitLead, policy usecase.FallbackPolicy, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		submit:      submit,
		policy:      policy,
		logger:      logger,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type CaptureLeadResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Trop de demandes. Veuillez reessayer plus tard.",
		})
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "JSON invalide",
		})
		return
	}

	// Validation errors short-circuit before the output exists; everything
	// else produces an outcome to record and map.
	if errs := usecase.ValidateLeadInput(input); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Veuillez corriger les erreurs suivantes",
			Errors:  msgs,
		})
		return
	}

	output, err := h.submit.Execute(ctx, input)
	if err != nil {
		// Only validation reaches here and it was checked above; treat as a
		// bad request all the same.
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	middleware.RecordLeadCaptured(string(output.Outcome))

	if output.UserVisibleSuccess(h.policy) {
		writeJSON(w, http.StatusOK, CaptureLeadResponse{Success: true})
		return
	}

	writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
		Success: false,
		Message: "Une erreur est survenue lors de l'envoi. Veuillez reessayer.",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
