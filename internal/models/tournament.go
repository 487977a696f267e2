package models

import "time"

type TournamentStatus string

const (
	TournamentStatusRegistering TournamentStatus = "registering"
	TournamentStatusFull        TournamentStatus = "full"
	TournamentStatusCompleted   TournamentStatus = "completed"
)

type Tournament struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	EntryFee     int64            `json:"entry_fee"`
	PrizePool    int64            `json:"prize_pool"`
	MaxTeams     int              `json:"max_teams"`
	Status       TournamentStatus `json:"status"`
	PrizeSent    bool             `json:"prize_sent"`
	RoomID       string           `json:"room_id,omitempty"`
	RoomPass     string           `json:"room_pass,omitempty"`
	Participants []Participant    `json:"participants"`
	StartTime    time.Time        `json:"start_time"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Participants are kept in join order; ranking relies on that order for
// deterministic tie-breaks.
type Participant struct {
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	OwnerUserID int       `json:"owner_user_id"`
	OwnerEmail  string    `json:"owner_email"`
	Matchpoints int       `json:"matchpoints"`
	JoinedAt    time.Time `json:"joined_at"`
}

// HasTeam reports whether teamID is already on the roster.
func (t *Tournament) HasTeam(teamID string) bool {
	for _, p := range t.Participants {
		if p.TeamID == teamID {
			return true
		}
	}
	return false
}

type CreateTournamentRequest struct {
	Name      string `json:"name"`
	EntryFee  int64  `json:"entry_fee"`
	PrizePool int64  `json:"prize_pool"`
	MaxTeams  int    `json:"max_teams"`
	StartTime string `json:"start_time"`
}

type EnrollRequest struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

type UpdateMatchpointsRequest struct {
	Matchpoints int `json:"matchpoints"`
}

type SetRoomRequest struct {
	RoomID   string `json:"room_id"`
	RoomPass string `json:"room_pass"`
}

type UpdateStatusRequest struct {
	Status TournamentStatus `json:"status"`
}
