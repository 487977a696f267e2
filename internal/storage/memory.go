package storage

import (
	"sync"
	"time"

	"arenasvc/internal/models"
)

// MemoryStore is an in-process Store used by tests and local development.
// It holds everything behind a single RWMutex and hands out copies so
// callers never alias internal state.
type MemoryStore struct {
	mu          sync.RWMutex
	nextUserID  int
	users       map[int]*models.User
	wallets     map[int]*models.Wallet
	deposits    map[string]*models.DepositRequest
	withdrawals map[string]*models.WithdrawalRequest
	tournaments map[string]*models.Tournament
	tournOrder  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:  1,
		users:       make(map[int]*models.User),
		wallets:     make(map[int]*models.Wallet),
		deposits:    make(map[string]*models.DepositRequest),
		withdrawals: make(map[string]*models.WithdrawalRequest),
		tournaments: make(map[string]*models.Tournament),
	}
}

func (m *MemoryStore) CreateWallet(userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[userID]; ok {
		return nil
	}
	m.wallets[userID] = &models.Wallet{
		UserID:        userID,
		LastUpdatedAt: time.Now(),
	}
	return nil
}

func (m *MemoryStore) GetWallet(userID int) (*models.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyWallet(w), nil
}

func (m *MemoryStore) SetUpiID(userID int, upiID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return ErrNotFound
	}
	w.UpiID = upiID
	w.LastUpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) ApplyTransaction(userID int, newBalance int64, txn models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return ErrNotFound
	}
	w.Balance = newBalance
	w.Transactions = append(w.Transactions, txn)
	w.LastUpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) CreateDeposit(req *models.DepositRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.deposits[req.ID] = &cp
	return nil
}

func (m *MemoryStore) GetDeposit(id string) (*models.DepositRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.deposits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) ResolveDeposit(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.deposits[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.ResolvedBy = &resolvedBy
	r.ResolvedAt = &resolvedAt
	return nil
}

func (m *MemoryStore) ListPendingDeposits() ([]models.DepositRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.DepositRequest
	for _, r := range m.deposits {
		if r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateWithdrawal(req *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.withdrawals[req.ID] = &cp
	return nil
}

func (m *MemoryStore) GetWithdrawal(id string) (*models.WithdrawalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) ResolveWithdrawal(id string, status models.RequestStatus, resolvedBy int, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.withdrawals[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.ResolvedBy = &resolvedBy
	r.ResolvedAt = &resolvedAt
	return nil
}

func (m *MemoryStore) ListPendingWithdrawals() ([]models.WithdrawalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.WithdrawalRequest
	for _, r := range m.withdrawals {
		if r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateTournament(t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournaments[t.ID] = copyTournament(t)
	m.tournOrder = append(m.tournOrder, t.ID)
	return nil
}

func (m *MemoryStore) GetTournament(id string) (*models.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTournament(t), nil
}

func (m *MemoryStore) ListTournaments() ([]models.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Tournament, 0, len(m.tournOrder))
	for _, id := range m.tournOrder {
		out = append(out, *copyTournament(m.tournaments[id]))
	}
	return out, nil
}

func (m *MemoryStore) AddParticipant(tournamentID string, p models.Participant, status models.TournamentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return ErrNotFound
	}
	t.Participants = append(t.Participants, p)
	t.Status = status
	return nil
}

func (m *MemoryStore) UpdateMatchpoints(tournamentID, teamID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return ErrNotFound
	}
	for i := range t.Participants {
		if t.Participants[i].TeamID == teamID {
			t.Participants[i].Matchpoints = points
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) MarkPrizeSent(tournamentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return ErrNotFound
	}
	t.PrizeSent = true
	return nil
}

func (m *MemoryStore) SetRoom(tournamentID, roomID, roomPass string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return ErrNotFound
	}
	t.RoomID = roomID
	t.RoomPass = roomPass
	return nil
}

func (m *MemoryStore) UpdateStatus(tournamentID string, status models.TournamentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	return nil
}

func (m *MemoryStore) CreateUser(u *models.User) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextUserID
	m.nextUserID++
	cp := *u
	cp.ID = id
	m.users[id] = &cp
	return id, nil
}

func (m *MemoryStore) GetUserByID(id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) EmailOrUsernameTaken(email, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func copyWallet(w *models.Wallet) *models.Wallet {
	cp := *w
	cp.Transactions = append([]models.Transaction(nil), w.Transactions...)
	return &cp
}

func copyTournament(t *models.Tournament) *models.Tournament {
	cp := *t
	cp.Participants = append([]models.Participant(nil), t.Participants...)
	return &cp
}
