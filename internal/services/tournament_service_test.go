package services

import (
	"sync"
	"testing"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tournamentFixture struct {
	store       *storage.MemoryStore
	wallets     *WalletService
	users       *UserService
	tournaments *TournamentService
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	store := storage.NewMemoryStore()
	wallets := NewWalletService(store, zerolog.Nop())
	users := NewUserService(store, wallets, zerolog.Nop())
	tournaments := NewTournamentService(store, wallets, users, zerolog.Nop())
	return &tournamentFixture{store: store, wallets: wallets, users: users, tournaments: tournaments}
}

// addUser seeds a user with a funded wallet, bypassing password hashing.
func (f *tournamentFixture) addUser(t *testing.T, email string, balance int64) int {
	t.Helper()
	id, err := f.store.CreateUser(&models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		Role:         string(models.RoleUser),
	})
	require.NoError(t, err)
	require.NoError(t, f.wallets.CreateWallet(id))
	if balance > 0 {
		_, err = f.wallets.Credit(id, balance, models.TransactionTypeAdd, "wallet deposit", "")
		require.NoError(t, err)
	}
	return id
}

func (f *tournamentFixture) addTournament(t *testing.T, entryFee, prizePool int64, maxTeams int) *models.Tournament {
	t.Helper()
	tour, err := f.tournaments.CreateTournament(&models.CreateTournamentRequest{
		Name:      "Friday Night Cup",
		EntryFee:  entryFee,
		PrizePool: prizePool,
		MaxTeams:  maxTeams,
	})
	require.NoError(t, err)
	return tour
}

func TestEnrollDebitsFeeAndAppendsTeam(t *testing.T) {
	f := newTournamentFixture(t)
	userID := f.addUser(t, "owner@example.com", 500)
	tour := f.addTournament(t, 150, 1000, 4)

	p, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	require.NoError(t, err)
	assert.Equal(t, "team-1", p.TeamID)
	assert.Equal(t, "owner@example.com", p.OwnerEmail)

	wallet, err := f.wallets.GetWallet(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), wallet.Balance)
	require.Len(t, wallet.Transactions, 2)
	assert.Equal(t, models.TransactionTypeTournament, wallet.Transactions[1].Type)
	assert.Equal(t, tour.ID, wallet.Transactions[1].ReferenceID)

	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
}

func TestEnrollSameTeamTwiceChargesOnce(t *testing.T) {
	f := newTournamentFixture(t)
	userID := f.addUser(t, "owner@example.com", 500)
	tour := f.addTournament(t, 150, 0, 4)

	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	require.NoError(t, err)
	_, err = f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	wallet, err := f.wallets.GetWallet(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), wallet.Balance)
}

func TestEnrollFullTournamentNoDebit(t *testing.T) {
	f := newTournamentFixture(t)
	first := f.addUser(t, "first@example.com", 500)
	second := f.addUser(t, "second@example.com", 500)
	tour := f.addTournament(t, 100, 0, 1)

	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", first)
	require.NoError(t, err)

	_, err = f.tournaments.Enroll(tour.ID, "team-2", "Wolves", second)
	assert.ErrorIs(t, err, ErrTournamentClosed)

	wallet, err := f.wallets.GetWallet(second)
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Balance)
	assert.Len(t, wallet.Transactions, 1)
}

func TestEnrollAtCapacityFlipsStatusToFull(t *testing.T) {
	f := newTournamentFixture(t)
	first := f.addUser(t, "first@example.com", 500)
	second := f.addUser(t, "second@example.com", 500)
	tour := f.addTournament(t, 0, 0, 2)

	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", first)
	require.NoError(t, err)
	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusRegistering, got.Status)

	_, err = f.tournaments.Enroll(tour.ID, "team-2", "Wolves", second)
	require.NoError(t, err)
	got, err = f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusFull, got.Status)
}

func TestEnrollInsufficientFundsNoRosterChange(t *testing.T) {
	f := newTournamentFixture(t)
	userID := f.addUser(t, "owner@example.com", 50)
	tour := f.addTournament(t, 150, 0, 4)

	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Participants)

	wallet, err := f.wallets.GetWallet(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Balance)
}

func TestEnrollUnknownTournament(t *testing.T) {
	f := newTournamentFixture(t)
	userID := f.addUser(t, "owner@example.com", 500)

	_, err := f.tournaments.Enroll("no-such-id", "team-1", "Raiders", userID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestEnrollClosedTournament(t *testing.T) {
	f := newTournamentFixture(t)
	userID := f.addUser(t, "owner@example.com", 500)
	tour := f.addTournament(t, 0, 0, 4)

	require.NoError(t, f.tournaments.UpdateStatus(tour.ID, models.TournamentStatusCompleted))
	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	assert.ErrorIs(t, err, ErrTournamentClosed)
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t)

	_, err := f.tournaments.CreateTournament(&models.CreateTournamentRequest{Name: "  ", MaxTeams: 4})
	assert.Error(t, err)
	_, err = f.tournaments.CreateTournament(&models.CreateTournamentRequest{Name: "Cup", EntryFee: -1, MaxTeams: 4})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.tournaments.CreateTournament(&models.CreateTournamentRequest{Name: "Cup", MaxTeams: 0})
	assert.Error(t, err)
	_, err = f.tournaments.CreateTournament(&models.CreateTournamentRequest{Name: "Cup", MaxTeams: 4, StartTime: "tomorrow"})
	assert.Error(t, err)
}

func TestConcurrentEnrollmentRespectsCapacity(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.addTournament(t, 100, 0, 3)

	const contenders = 10
	userIDs := make([]int, contenders)
	teamIDs := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"}
	for i := 0; i < contenders; i++ {
		userIDs[i] = f.addUser(t, teamIDs[i]+"@example.com", 100)
	}

	var wg sync.WaitGroup
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func(i int) {
			defer wg.Done()
			f.tournaments.Enroll(tour.ID, teamIDs[i], "Team "+teamIDs[i], userIDs[i])
		}(i)
	}
	wg.Wait()

	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 3)
	assert.Equal(t, models.TournamentStatusFull, got.Status)

	// Exactly the enrolled owners paid; everyone else keeps their funds.
	var charged int
	for i := 0; i < contenders; i++ {
		wallet, err := f.wallets.GetWallet(userIDs[i])
		require.NoError(t, err)
		switch wallet.Balance {
		case 0:
			charged++
		case 100:
		default:
			t.Fatalf("unexpected balance %d for user %d", wallet.Balance, userIDs[i])
		}
	}
	assert.Equal(t, 3, charged)
}

func TestSetRoomAndStatusOverride(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.addTournament(t, 0, 0, 1)
	userID := f.addUser(t, "owner@example.com", 0)

	_, err := f.tournaments.Enroll(tour.ID, "team-1", "Raiders", userID)
	require.NoError(t, err)

	got, err := f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusFull, got.Status)

	// Admin reopens registration and posts room credentials.
	require.NoError(t, f.tournaments.UpdateStatus(tour.ID, models.TournamentStatusRegistering))
	require.NoError(t, f.tournaments.SetRoom(tour.ID, "12345", "hunter2"))

	got, err = f.tournaments.GetTournament(tour.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusRegistering, got.Status)
	assert.Equal(t, "12345", got.RoomID)
	assert.Equal(t, "hunter2", got.RoomPass)

	// Reopened but the roster is already at capacity.
	latecomer := f.addUser(t, "late@example.com", 100)
	_, err = f.tournaments.Enroll(tour.ID, "team-2", "Wolves", latecomer)
	assert.ErrorIs(t, err, ErrTournamentFull)

	assert.Error(t, f.tournaments.UpdateStatus(tour.ID, "paused"))
	assert.ErrorIs(t, f.tournaments.SetRoom("no-such-id", "1", "2"), ErrTournamentNotFound)
}
