package handlers

import (
	"encoding/json"
	"net/http"

	"arenasvc/internal/middleware"
	"arenasvc/internal/models"
	"arenasvc/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// RequestHandler exposes the admin side of the deposit/withdrawal workflow.
type RequestHandler struct {
	paymentService *services.PaymentService
	logger         zerolog.Logger
}

func NewRequestHandler(paymentService *services.PaymentService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.paymentService.ListPendingDeposits()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list pending deposits")
		h.respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch pending requests")
		return
	}

	withdrawals, err := h.paymentService.ListPendingWithdrawals()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list pending withdrawals")
		h.respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch pending requests")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"deposits":    deposits,
		"withdrawals": withdrawals,
	})
}

func (h *RequestHandler) ResolveDeposit(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]
	resolverID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	decision, ok := h.parseDecision(w, r)
	if !ok {
		return
	}

	req, err := h.paymentService.ResolveDeposit(requestID, decision, resolverID)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]
	resolverID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	decision, ok := h.parseDecision(w, r)
	if !ok {
		return
	}

	req, err := h.paymentService.ResolveWithdrawal(requestID, decision, resolverID)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) parseDecision(w http.ResponseWriter, r *http.Request) (models.Decision, bool) {
	var body models.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return "", false
	}
	switch body.Decision {
	case models.DecisionApprove, models.DecisionReject:
		return body.Decision, true
	}
	h.respondWithError(w, http.StatusBadRequest, "invalid_decision", "decision must be 'approve' or 'reject'")
	return "", false
}

func (h *RequestHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *RequestHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
