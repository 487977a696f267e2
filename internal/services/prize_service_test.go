package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrizeFixture(t *testing.T) (*PrizeService, *tournamentFixture) {
	t.Helper()
	f := newTournamentFixture(t)
	prizes := NewPrizeService(f.tournaments, f.wallets, zerolog.Nop())
	return prizes, f
}

func TestRankingIsStableOnTies(t *testing.T) {
	prizes, f := newPrizeFixture(t)
	tour := f.addTournament(t, 0, 0, 4)

	a := f.addUser(t, "a@example.com", 0)
	b := f.addUser(t, "b@example.com", 0)
	c := f.addUser(t, "c@example.com", 0)
	_, err := f.tournaments.Enroll(tour.ID, "team-a", "Alpha", a)
	require.NoError(t, err)
	_, err = f.tournaments.Enroll(tour.ID, "team-b", "Bravo", b)
	require.NoError(t, err)
	_, err = f.tournaments.Enroll(tour.ID, "team-c", "Charlie", c)
	require.NoError(t, err)

	require.NoError(t, prizes.UpdateMatchpoints(tour.ID, "team-a", 10))
	require.NoError(t, prizes.UpdateMatchpoints(tour.ID, "team-b", 20))
	require.NoError(t, prizes.UpdateMatchpoints(tour.ID, "team-c", 20))

	ranked, err := prizes.Rank(tour.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	// team-b and team-c tie on 20; team-b joined first and stays ahead.
	assert.Equal(t, "team-b", ranked[0].TeamID)
	assert.Equal(t, "team-c", ranked[1].TeamID)
	assert.Equal(t, "team-a", ranked[2].TeamID)

	winner, err := prizes.Winner(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, "team-b", winner.TeamID)
}

func TestWinnerEmptyRoster(t *testing.T) {
	prizes, f := newPrizeFixture(t)
	tour := f.addTournament(t, 0, 500, 4)

	_, err := prizes.Winner(tour.ID)
	assert.ErrorIs(t, err, ErrNoWinner)
	_, err = prizes.SendPrize(tour.ID, 99)
	assert.ErrorIs(t, err, ErrNoWinner)
}

func TestSendPrizeCreditsWinnerExactlyOnce(t *testing.T) {
	prizes, f := newPrizeFixture(t)
	tour := f.addTournament(t, 0, 1000, 4)

	a := f.addUser(t, "a@example.com", 0)
	b := f.addUser(t, "b@example.com", 0)
	_, err := f.tournaments.Enroll(tour.ID, "team-a", "Alpha", a)
	require.NoError(t, err)
	_, err = f.tournaments.Enroll(tour.ID, "team-b", "Bravo", b)
	require.NoError(t, err)
	require.NoError(t, prizes.UpdateMatchpoints(tour.ID, "team-b", 30))

	txn, err := prizes.SendPrize(tour.ID, 99)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, int64(1000), txn.Amount)
	assert.Equal(t, tour.ID, txn.ReferenceID)

	_, err = prizes.SendPrize(tour.ID, 99)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	wallet, err := f.wallets.GetWallet(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet.Balance)
	assert.Len(t, wallet.Transactions, 1)

	loser, err := f.wallets.GetWallet(a)
	require.NoError(t, err)
	assert.Equal(t, int64(0), loser.Balance)
}

func TestSendPrizeZeroPoolStillMarksPaid(t *testing.T) {
	prizes, f := newPrizeFixture(t)
	tour := f.addTournament(t, 0, 0, 4)

	a := f.addUser(t, "a@example.com", 0)
	_, err := f.tournaments.Enroll(tour.ID, "team-a", "Alpha", a)
	require.NoError(t, err)

	txn, err := prizes.SendPrize(tour.ID, 99)
	require.NoError(t, err)
	assert.Nil(t, txn)

	_, err = prizes.SendPrize(tour.ID, 99)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	wallet, err := f.wallets.GetWallet(a)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
	assert.Empty(t, wallet.Transactions)
}

func TestUpdateMatchpointsValidation(t *testing.T) {
	prizes, f := newPrizeFixture(t)
	tour := f.addTournament(t, 0, 0, 4)
	a := f.addUser(t, "a@example.com", 0)
	_, err := f.tournaments.Enroll(tour.ID, "team-a", "Alpha", a)
	require.NoError(t, err)

	assert.ErrorIs(t, prizes.UpdateMatchpoints(tour.ID, "team-a", -5), ErrInvalidScore)
	assert.ErrorIs(t, prizes.UpdateMatchpoints(tour.ID, "no-such-team", 10), ErrTeamNotFound)
	assert.ErrorIs(t, prizes.UpdateMatchpoints("no-such-id", "team-a", 10), ErrTournamentNotFound)

	require.NoError(t, prizes.UpdateMatchpoints(tour.ID, "team-a", 15))
	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Participants[0].Matchpoints)
}
