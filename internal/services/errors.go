package services

import "errors"

// The error taxonomy of the ledger core. Every failing operation returns one
// of these sentinels (possibly wrapped) and leaves all state untouched.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrRequestNotFound    = errors.New("request not found")
	ErrAlreadyResolved    = errors.New("request already resolved")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentClosed   = errors.New("tournament is not open for registration")
	ErrTournamentFull     = errors.New("tournament is full")
	ErrAlreadyEnrolled    = errors.New("team already enrolled")
	ErrTeamNotFound       = errors.New("team not found in tournament")
	ErrAlreadyPaid        = errors.New("prize already sent")
	ErrNoWinner           = errors.New("tournament has no participants")
	ErrInvalidScore       = errors.New("matchpoints must not be negative")

	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
