package services

import (
	"errors"
	"fmt"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store   storage.UserStore
	wallets *WalletService
	logger  zerolog.Logger
}

func NewUserService(store storage.UserStore, wallets *WalletService, logger zerolog.Logger) *UserService {
	return &UserService{
		store:   store,
		wallets: wallets,
		logger:  logger,
	}
}

// Register creates the user account and its wallet. The wallet exists from
// registration on and is only ever mutated by the wallet service.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("username, email, and password are required")
	}

	taken, err := s.store.EmailOrUsernameTaken(req.Email, req.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("database error: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         string(models.RoleUser),
	}
	userID, err := s.store.CreateUser(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.wallets.CreateWallet(userID); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	created, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", created.ID).Str("email", created.Email).Msg("User registered")
	return created, nil
}

func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.store.GetUserByEmail(req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User authenticated")
	return user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	user, err := s.store.GetUserByID(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}
