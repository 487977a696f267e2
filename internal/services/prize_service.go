package services

import (
	"sort"

	"arenasvc/internal/models"

	"github.com/rs/zerolog"
)

// PrizeService computes rankings and executes the one-time prize payout.
// It shares the tournament mutexes with TournamentService so the payout
// guard and roster mutations never interleave.
type PrizeService struct {
	tournaments *TournamentService
	wallets     *WalletService
	logger      zerolog.Logger
}

func NewPrizeService(tournaments *TournamentService, wallets *WalletService, logger zerolog.Logger) *PrizeService {
	return &PrizeService{
		tournaments: tournaments,
		wallets:     wallets,
		logger:      logger,
	}
}

// Rank returns the participants in descending matchpoints order. Ties keep
// join order, so the sort must be stable.
func (s *PrizeService) Rank(tournamentID string) ([]models.Participant, error) {
	t, err := s.tournaments.GetTournament(tournamentID)
	if err != nil {
		return nil, err
	}

	ranked := append([]models.Participant(nil), t.Participants...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Matchpoints > ranked[j].Matchpoints
	})
	return ranked, nil
}

// Winner returns the top-ranked participant, or ErrNoWinner for an empty
// roster.
func (s *PrizeService) Winner(tournamentID string) (*models.Participant, error) {
	ranked, err := s.Rank(tournamentID)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrNoWinner
	}
	return &ranked[0], nil
}

// SendPrize credits the prize pool to the winner's wallet exactly once. The
// prizeSent flag is checked and set under the tournament mutex, so a second
// call always fails with ErrAlreadyPaid.
func (s *PrizeService) SendPrize(tournamentID string, resolverID int) (*models.Transaction, error) {
	mu := s.tournaments.getMutex(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.tournaments.GetTournament(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.PrizeSent {
		return nil, ErrAlreadyPaid
	}

	ranked := append([]models.Participant(nil), t.Participants...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Matchpoints > ranked[j].Matchpoints
	})
	if len(ranked) == 0 {
		return nil, ErrNoWinner
	}
	winner := ranked[0]

	var txn *models.Transaction
	if t.PrizePool > 0 {
		txn, err = s.wallets.Credit(winner.OwnerUserID, t.PrizePool, models.TransactionTypeAdd, "tournament prize: "+t.Name, t.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("tournament_id", tournamentID).Msg("Error crediting prize")
			return nil, err
		}
	}

	if err := s.tournaments.store.MarkPrizeSent(tournamentID); err != nil {
		// Reverse the credit so a retry cannot pay twice.
		if txn != nil {
			if _, cerr := s.wallets.Debit(winner.OwnerUserID, t.PrizePool, models.TransactionTypeWithdraw, "prize payout reversal: "+t.Name, t.ID); cerr != nil {
				s.logger.Error().Err(cerr).Str("tournament_id", tournamentID).Msg("Failed to reverse prize credit")
			}
		}
		return nil, err
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Str("team_id", winner.TeamID).
		Int("owner_user_id", winner.OwnerUserID).
		Int64("prize_pool", t.PrizePool).
		Int("resolved_by", resolverID).
		Msg("Prize sent")

	return txn, nil
}

// UpdateMatchpoints overwrites a participant's score. Admin only; no audit
// trail is kept, but negative scores are rejected.
func (s *PrizeService) UpdateMatchpoints(tournamentID, teamID string, points int) error {
	if points < 0 {
		return ErrInvalidScore
	}

	mu := s.tournaments.getMutex(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.tournaments.GetTournament(tournamentID)
	if err != nil {
		return err
	}
	if !t.HasTeam(teamID) {
		return ErrTeamNotFound
	}

	if err := s.tournaments.store.UpdateMatchpoints(tournamentID, teamID, points); err != nil {
		s.logger.Error().Err(err).Str("tournament_id", tournamentID).Str("team_id", teamID).Msg("Error updating matchpoints")
		return err
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Str("team_id", teamID).
		Int("matchpoints", points).
		Msg("Matchpoints updated")

	return nil
}
