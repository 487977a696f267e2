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

type TournamentHandler struct {
	tournamentService *services.TournamentService
	prizeService      *services.PrizeService
	logger            zerolog.Logger
}

func NewTournamentHandler(tournamentService *services.TournamentService, prizeService *services.PrizeService, logger zerolog.Logger) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		prizeService:      prizeService,
		logger:            logger,
	}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	t, err := h.tournamentService.CreateTournament(&req)
	if err != nil {
		code, errorCode := statusForError(err)
		if code == http.StatusInternalServerError {
			code, errorCode = http.StatusBadRequest, "invalid_request"
		}
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, t)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list tournaments")
		h.respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch tournaments")
		return
	}

	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)
	for i := range tournaments {
		hideRoomCredentials(&tournaments[i], userID, role)
	}

	h.respondWithJSON(w, http.StatusOK, tournaments)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	t, err := h.tournamentService.GetTournament(id)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)
	hideRoomCredentials(t, userID, role)

	h.respondWithJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	participant, err := h.tournamentService.Enroll(id, req.TeamID, req.TeamName, userID)
	if err != nil {
		code, errorCode := statusForError(err)
		if code == http.StatusInternalServerError && err.Error() == "team_id is required" {
			code, errorCode = http.StatusBadRequest, "invalid_request"
		}
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, participant)
}

func (h *TournamentHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ranked, err := h.prizeService.Rank(id)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, ranked)
}

func (h *TournamentHandler) UpdateMatchpoints(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	teamID := vars["teamId"]

	var req models.UpdateMatchpointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.prizeService.UpdateMatchpoints(id, teamID, req.Matchpoints); err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "matchpoints updated"})
}

func (h *TournamentHandler) SendPrize(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	resolverID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	txn, err := h.prizeService.SendPrize(id, resolverID)
	if err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "prize sent",
		"transaction": txn,
	})
}

func (h *TournamentHandler) SetRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.SetRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.tournamentService.SetRoom(id, req.RoomID, req.RoomPass); err != nil {
		code, errorCode := statusForError(err)
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "room credentials updated"})
}

func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.tournamentService.UpdateStatus(id, req.Status); err != nil {
		code, errorCode := statusForError(err)
		if code == http.StatusInternalServerError && err.Error() == "invalid tournament status" {
			code, errorCode = http.StatusBadRequest, "invalid_status"
		}
		h.respondWithError(w, code, errorCode, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

// hideRoomCredentials blanks the room fields for callers who are neither
// admins nor owners of an enrolled team.
func hideRoomCredentials(t *models.Tournament, userID int, role string) {
	if role == string(models.RoleAdmin) {
		return
	}
	for _, p := range t.Participants {
		if p.OwnerUserID == userID {
			return
		}
	}
	t.RoomID = ""
	t.RoomPass = ""
}

func (h *TournamentHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *TournamentHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
