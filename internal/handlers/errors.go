package handlers

import (
	"errors"
	"net/http"

	"arenasvc/internal/services"
)

// statusForError maps the service error taxonomy onto HTTP statuses so every
// handler reports the same code for the same failure.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, services.ErrInvalidScore):
		return http.StatusBadRequest, "invalid_score"
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient_funds"
	case errors.Is(err, services.ErrWalletNotFound):
		return http.StatusNotFound, "wallet_not_found"
	case errors.Is(err, services.ErrRequestNotFound):
		return http.StatusNotFound, "request_not_found"
	case errors.Is(err, services.ErrTournamentNotFound):
		return http.StatusNotFound, "tournament_not_found"
	case errors.Is(err, services.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found"
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, services.ErrAlreadyResolved):
		return http.StatusConflict, "already_resolved"
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return http.StatusConflict, "already_enrolled"
	case errors.Is(err, services.ErrAlreadyPaid):
		return http.StatusConflict, "already_paid"
	case errors.Is(err, services.ErrTournamentFull):
		return http.StatusForbidden, "tournament_full"
	case errors.Is(err, services.ErrTournamentClosed):
		return http.StatusForbidden, "tournament_closed"
	case errors.Is(err, services.ErrNoWinner):
		return http.StatusConflict, "no_winner"
	}
	return http.StatusInternalServerError, "internal_error"
}
