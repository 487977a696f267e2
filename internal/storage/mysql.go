package storage

import (
	"database/sql"
	"fmt"
	"time"

	"arenasvc/internal/models"
)

// MySQLStore is the durable Store backed by database/sql. Multi-row writes
// (balance + log entry, roster append + status flip) run inside a single SQL
// transaction so partial application is impossible.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) CreateWallet(userID int) error {
	_, err := s.db.Exec(
		"INSERT IGNORE INTO wallets (user_id, balance) VALUES (?, 0)",
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetWallet(userID int) (*models.Wallet, error) {
	var wallet models.Wallet
	var upiID sql.NullString

	err := s.db.QueryRow(
		"SELECT user_id, balance, upi_id, last_updated_at FROM wallets WHERE user_id = ?",
		userID,
	).Scan(&wallet.UserID, &wallet.Balance, &upiID, &wallet.LastUpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if upiID.Valid {
		wallet.UpiID = upiID.String
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, type, amount, status, description, reference_id, created_at
		 FROM wallet_transactions
		 WHERE user_id = ?
		 ORDER BY seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.Transaction
		var description, referenceID sql.NullString
		err := rows.Scan(
			&txn.ID, &txn.UserID, &txn.Type, &txn.Amount, &txn.Status,
			&description, &referenceID, &txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		txn.Description = description.String
		txn.ReferenceID = referenceID.String
		wallet.Transactions = append(wallet.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &wallet, nil
}

func (s *MySQLStore) SetUpiID(userID int, upiID string) error {
	result, err := s.db.Exec(
		"UPDATE wallets SET upi_id = ?, last_updated_at = NOW() WHERE user_id = ?",
		upiID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update upi id: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) ApplyTransaction(userID int, newBalance int64, txn models.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE wallets SET balance = ?, last_updated_at = NOW() WHERE user_id = ?",
		newBalance, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(
		`INSERT INTO wallet_transactions (id, user_id, type, amount, status, description, reference_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, string(txn.Type), txn.Amount, string(txn.Status),
		txn.Description, txn.ReferenceID, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wallet update: %w", err)
	}
	return nil
}

func (s *MySQLStore) CreateDeposit(req *models.DepositRequest) error {
	_, err := s.db.Exec(
		`INSERT INTO deposit_requests (id, user_id, amount, evidence, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.Amount, req.Evidence, string(req.Status), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deposit request: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetDeposit(id string) (*models.DepositRequest, error) {
	var req models.DepositRequest
	var evidence sql.NullString
	var resolvedAt sql.NullTime
	var resolvedBy sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, user_id, amount, evidence, status, created_at, resolved_at, resolved_by
		 FROM deposit_requests WHERE id = ?`,
		id,
	).Scan(&req.ID, &req.UserID, &req.Amount, &evidence, &req.Status, &req.CreatedAt, &resolvedAt, &resolvedBy)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	req.Evidence = evidence.String
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	if resolvedBy.Valid {
		val := int(resolvedBy.Int64)
		req.ResolvedBy = &val
	}
	return &req, nil
}

func (s *MySQLStore) ResolveDeposit(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error {
	result, err := s.db.Exec(
		"UPDATE deposit_requests SET status = ?, resolved_by = ?, resolved_at = ? WHERE id = ?",
		string(status), resolvedBy, resolvedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve deposit request: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) ListPendingDeposits() ([]models.DepositRequest, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, evidence, status, created_at
		 FROM deposit_requests WHERE status = ? ORDER BY created_at ASC`,
		string(models.RequestStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var out []models.DepositRequest
	for rows.Next() {
		var req models.DepositRequest
		var evidence sql.NullString
		if err := rows.Scan(&req.ID, &req.UserID, &req.Amount, &evidence, &req.Status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning deposit request: %w", err)
		}
		req.Evidence = evidence.String
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *MySQLStore) CreateWithdrawal(req *models.WithdrawalRequest) error {
	_, err := s.db.Exec(
		`INSERT INTO withdrawal_requests (id, user_id, amount, upi_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.Amount, req.UpiID, string(req.Status), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetWithdrawal(id string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	var upiID sql.NullString
	var resolvedAt sql.NullTime
	var resolvedBy sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, user_id, amount, upi_id, status, created_at, resolved_at, resolved_by
		 FROM withdrawal_requests WHERE id = ?`,
		id,
	).Scan(&req.ID, &req.UserID, &req.Amount, &upiID, &req.Status, &req.CreatedAt, &resolvedAt, &resolvedBy)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	req.UpiID = upiID.String
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	if resolvedBy.Valid {
		val := int(resolvedBy.Int64)
		req.ResolvedBy = &val
	}
	return &req, nil
}

func (s *MySQLStore) ResolveWithdrawal(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error {
	result, err := s.db.Exec(
		"UPDATE withdrawal_requests SET status = ?, resolved_by = ?, resolved_at = ? WHERE id = ?",
		string(status), resolvedBy, resolvedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve withdrawal request: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) ListPendingWithdrawals() ([]models.WithdrawalRequest, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, upi_id, status, created_at
		 FROM withdrawal_requests WHERE status = ? ORDER BY created_at ASC`,
		string(models.RequestStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var out []models.WithdrawalRequest
	for rows.Next() {
		var req models.WithdrawalRequest
		var upiID sql.NullString
		if err := rows.Scan(&req.ID, &req.UserID, &req.Amount, &upiID, &req.Status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning withdrawal request: %w", err)
		}
		req.UpiID = upiID.String
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *MySQLStore) CreateTournament(t *models.Tournament) error {
	_, err := s.db.Exec(
		`INSERT INTO tournaments (id, name, entry_fee, prize_pool, max_teams, status, prize_sent, start_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.EntryFee, t.PrizePool, t.MaxTeams, string(t.Status), t.PrizeSent, t.StartTime, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetTournament(id string) (*models.Tournament, error) {
	var t models.Tournament
	var roomID, roomPass sql.NullString

	err := s.db.QueryRow(
		`SELECT id, name, entry_fee, prize_pool, max_teams, status, prize_sent, room_id, room_pass, start_time, created_at
		 FROM tournaments WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.EntryFee, &t.PrizePool, &t.MaxTeams, &t.Status, &t.PrizeSent, &roomID, &roomPass, &t.StartTime, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	t.RoomID = roomID.String
	t.RoomPass = roomPass.String

	participants, err := s.loadParticipants(id)
	if err != nil {
		return nil, err
	}
	t.Participants = participants
	return &t, nil
}

func (s *MySQLStore) loadParticipants(tournamentID string) ([]models.Participant, error) {
	rows, err := s.db.Query(
		`SELECT team_id, team_name, owner_user_id, owner_email, matchpoints, joined_at
		 FROM tournament_participants
		 WHERE tournament_id = ?
		 ORDER BY seq ASC`,
		tournamentID,
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.TeamID, &p.TeamName, &p.OwnerUserID, &p.OwnerEmail, &p.Matchpoints, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *MySQLStore) ListTournaments() ([]models.Tournament, error) {
	rows, err := s.db.Query(
		`SELECT id, name, entry_fee, prize_pool, max_teams, status, prize_sent, start_time, created_at
		 FROM tournaments ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var out []models.Tournament
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.EntryFee, &t.PrizePool, &t.MaxTeams, &t.Status, &t.PrizeSent, &t.StartTime, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning tournament: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		participants, err := s.loadParticipants(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Participants = participants
	}
	return out, nil
}

func (s *MySQLStore) AddParticipant(tournamentID string, p models.Participant, status models.TournamentStatus) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO tournament_participants (tournament_id, team_id, team_name, owner_user_id, owner_email, matchpoints, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tournamentID, p.TeamID, p.TeamName, p.OwnerUserID, p.OwnerEmail, p.Matchpoints, p.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE tournaments SET status = ? WHERE id = ?",
		string(status), tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster update: %w", err)
	}
	return nil
}

func (s *MySQLStore) UpdateMatchpoints(tournamentID, teamID string, points int) error {
	result, err := s.db.Exec(
		"UPDATE tournament_participants SET matchpoints = ? WHERE tournament_id = ? AND team_id = ?",
		points, tournamentID, teamID,
	)
	if err != nil {
		return fmt.Errorf("failed to update matchpoints: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		// Distinguish "no change" from "no such row".
		var exists int
		err := s.db.QueryRow(
			"SELECT 1 FROM tournament_participants WHERE tournament_id = ? AND team_id = ?",
			tournamentID, teamID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
	}
	return nil
}

func (s *MySQLStore) MarkPrizeSent(tournamentID string) error {
	result, err := s.db.Exec(
		"UPDATE tournaments SET prize_sent = 1 WHERE id = ?",
		tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark prize sent: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) SetRoom(tournamentID, roomID, roomPass string) error {
	result, err := s.db.Exec(
		"UPDATE tournaments SET room_id = ?, room_pass = ? WHERE id = ?",
		roomID, roomPass, tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to set room credentials: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) UpdateStatus(tournamentID string, status models.TournamentStatus) error {
	result, err := s.db.Exec(
		"UPDATE tournaments SET status = ? WHERE id = ?",
		string(status), tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) CreateUser(u *models.User) (int, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, u.Role,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user ID: %w", err)
	}
	return int(id), nil
}

func (s *MySQLStore) GetUserByID(id int) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *MySQLStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *MySQLStore) EmailOrUsernameTaken(email, username string) (bool, error) {
	var existingID int
	err := s.db.QueryRow(
		"SELECT id FROM users WHERE email = ? OR username = ?",
		email, username,
	).Scan(&existingID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}
