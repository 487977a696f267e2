package storage

import (
	"errors"
	"time"

	"arenasvc/internal/models"
)

// ErrNotFound is returned by all stores when the requested record does not
// exist. Services translate it into their own error taxonomy.
var ErrNotFound = errors.New("record not found")

// WalletStore persists wallets and their append-only transaction logs.
// ApplyTransaction must write the new balance and the log entry as one unit;
// callers serialize mutations per wallet, so the store never sees concurrent
// writes to the same wallet.
type WalletStore interface {
	CreateWallet(userID int) error
	GetWallet(userID int) (*models.Wallet, error)
	SetUpiID(userID int, upiID string) error
	ApplyTransaction(userID int, newBalance int64, txn models.Transaction) error
}

// RequestStore persists deposit and withdrawal requests.
type RequestStore interface {
	CreateDeposit(req *models.DepositRequest) error
	GetDeposit(id string) (*models.DepositRequest, error)
	ResolveDeposit(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error
	ListPendingDeposits() ([]models.DepositRequest, error)

	CreateWithdrawal(req *models.WithdrawalRequest) error
	GetWithdrawal(id string) (*models.WithdrawalRequest, error)
	ResolveWithdrawal(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error
	ListPendingWithdrawals() ([]models.WithdrawalRequest, error)
}

// TournamentStore persists tournaments and their rosters. Participants are
// returned in join order.
type TournamentStore interface {
	CreateTournament(t *models.Tournament) error
	GetTournament(id string) (*models.Tournament, error)
	ListTournaments() ([]models.Tournament, error)
	AddParticipant(tournamentID string, p models.Participant, status models.TournamentStatus) error
	UpdateMatchpoints(tournamentID, teamID string, points int) error
	MarkPrizeSent(tournamentID string) error
	SetRoom(tournamentID, roomID, roomPass string) error
	UpdateStatus(tournamentID string, status models.TournamentStatus) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(u *models.User) (int, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	EmailOrUsernameTaken(email, username string) (bool, error)
}

// Store bundles every aggregate store behind one backend.
type Store interface {
	WalletStore
	RequestStore
	TournamentStore
	UserStore
}
