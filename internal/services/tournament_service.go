package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TournamentService owns the tournament lifecycle and the enrollment
// coordinator. Enrollment runs under a per-tournament mutex so the capacity
// check, the entry-fee debit and the roster append are evaluated against a
// single consistent snapshot.
type TournamentService struct {
	store   storage.TournamentStore
	wallets *WalletService
	users   *UserService
	logger  zerolog.Logger
	mu      sync.Map
}

func NewTournamentService(store storage.TournamentStore, wallets *WalletService, users *UserService, logger zerolog.Logger) *TournamentService {
	return &TournamentService{
		store:   store,
		wallets: wallets,
		users:   users,
		logger:  logger,
	}
}

func (s *TournamentService) getMutex(tournamentID string) *sync.Mutex {
	mu, _ := s.mu.LoadOrStore(tournamentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *TournamentService) CreateTournament(req *models.CreateTournamentRequest) (*models.Tournament, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("tournament name is required")
	}
	if req.EntryFee < 0 || req.PrizePool < 0 {
		return nil, ErrInvalidAmount
	}
	if req.MaxTeams <= 0 {
		return nil, errors.New("max_teams must be greater than zero")
	}

	startTime := time.Now()
	if req.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return nil, errors.New("invalid start_time (use RFC3339)")
		}
		startTime = parsed
	}

	t := &models.Tournament{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		EntryFee:  req.EntryFee,
		PrizePool: req.PrizePool,
		MaxTeams:  req.MaxTeams,
		Status:    models.TournamentStatusRegistering,
		StartTime: startTime,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateTournament(t); err != nil {
		s.logger.Error().Err(err).Msg("Error creating tournament")
		return nil, err
	}

	s.logger.Info().
		Str("tournament_id", t.ID).
		Str("name", t.Name).
		Int64("entry_fee", t.EntryFee).
		Int("max_teams", t.MaxTeams).
		Msg("Tournament created")

	return t, nil
}

func (s *TournamentService) GetTournament(id string) (*models.Tournament, error) {
	t, err := s.store.GetTournament(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", id).Msg("Error fetching tournament")
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) ListTournaments() ([]models.Tournament, error) {
	return s.store.ListTournaments()
}

// Enroll checks capacity and funds, debits the entry fee and appends the
// team to the roster. The debit and the append either both take effect or
// neither: a roster failure after the debit is compensated with a credit.
func (s *TournamentService) Enroll(tournamentID, teamID, teamName string, ownerUserID int) (*models.Participant, error) {
	if teamID == "" {
		return nil, errors.New("team_id is required")
	}

	mu := s.getMutex(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.GetTournament(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TournamentStatusRegistering {
		return nil, ErrTournamentClosed
	}
	if t.HasTeam(teamID) {
		return nil, ErrAlreadyEnrolled
	}
	if len(t.Participants) >= t.MaxTeams {
		return nil, ErrTournamentFull
	}

	owner, err := s.users.GetUserByID(ownerUserID)
	if err != nil {
		return nil, err
	}

	if t.EntryFee > 0 {
		if _, err := s.wallets.Debit(ownerUserID, t.EntryFee, models.TransactionTypeTournament, "tournament entry: "+t.Name, t.ID); err != nil {
			return nil, err
		}
	}

	p := models.Participant{
		TeamID:      teamID,
		TeamName:    teamName,
		OwnerUserID: ownerUserID,
		OwnerEmail:  owner.Email,
		Matchpoints: 0,
		JoinedAt:    time.Now(),
	}

	status := t.Status
	if len(t.Participants)+1 >= t.MaxTeams {
		status = models.TournamentStatusFull
	}

	if err := s.store.AddParticipant(tournamentID, p, status); err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Str("team_id", teamID).Msg("Error adding participant")
		if t.EntryFee > 0 {
			if _, cerr := s.wallets.Credit(ownerUserID, t.EntryFee, models.TransactionTypeAdd, "entry fee refund: "+t.Name, t.ID); cerr != nil {
				s.logger.Error().Err(cerr).Str("tournament_id", tournamentID).Int("user_id", ownerUserID).Msg("Failed to refund entry fee")
			}
		}
		return nil, fmt.Errorf("failed to enroll team: %w", err)
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Str("team_id", teamID).
		Int("owner_user_id", ownerUserID).
		Int64("entry_fee", t.EntryFee).
		Str("status", string(status)).
		Msg("Team enrolled")

	return &p, nil
}

// SetRoom stores the room credentials handed out to enrolled teams. Opaque
// to the ledger.
func (s *TournamentService) SetRoom(tournamentID, roomID, roomPass string) error {
	err := s.store.SetRoom(tournamentID, roomID, roomPass)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTournamentNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Msg("Error setting room credentials")
		return err
	}
	return nil
}

// UpdateStatus is the admin override for the tournament lifecycle, e.g.
// reopening a full tournament or marking it completed.
func (s *TournamentService) UpdateStatus(tournamentID string, status models.TournamentStatus) error {
	switch status {
	case models.TournamentStatusRegistering, models.TournamentStatusFull, models.TournamentStatusCompleted:
	default:
		return errors.New("invalid tournament status")
	}

	mu := s.getMutex(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.GetTournament(tournamentID); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(tournamentID, status); err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Msg("Error updating tournament status")
		return err
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Str("status", string(status)).
		Msg("Tournament status updated")

	return nil
}
