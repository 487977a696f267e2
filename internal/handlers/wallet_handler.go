package handlers

import (
	"encoding/json"
	"net/http"

	"arenasvc/internal/middleware"
	"arenasvc/internal/models"
	"arenasvc/internal/services"

	"github.com/rs/zerolog"
)

type WalletHandler struct {
	walletService  *services.WalletService
	paymentService *services.PaymentService
	logger         zerolog.Logger
}

func NewWalletHandler(walletService *services.WalletService, paymentService *services.PaymentService, logger zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	wallet, err := h.walletService.GetWallet(userID)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) SetUpiID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req struct {
		UpiID string `json:"upi_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.UpiID == "" {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "upi_id is required")
		return
	}

	if err := h.walletService.SetUpiID(userID, req.UpiID); err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "upi id updated"})
}

func (h *WalletHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.SubmitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	deposit, err := h.paymentService.SubmitDeposit(userID, req.Amount, req.Evidence)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, deposit)
}

func (h *WalletHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.SubmitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	withdrawal, err := h.paymentService.SubmitWithdrawal(userID, req.Amount)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, withdrawal)
}

func (h *WalletHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *WalletHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
