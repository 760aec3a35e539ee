package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/cryptox"
	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/auth"
	"puzzlearchive/internal/server/config"
	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account and issues the first token pair. A duplicate
// username surfaces as common.ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, username, password string) (*TokenPair, error) {

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	hash, err := cryptox.HashPassword(pw)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return s.generateTokenPair(ctx, s.db, user.ID)
}

func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	ok, err := cryptox.VerifyPassword(pw, user.PasswordHash)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, s.db, user.ID)
}

// RefreshToken rotates the pair: the presented refresh token is revoked and a
// fresh one is issued in the same transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.RefreshTokens(tx)

		err = txRepo.Delete(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}

		tokenPair, err = s.generateTokenPair(ctx, tx, token.UserID)
		if err != nil {
			return fmt.Errorf("error generating token pair: %v", err)
		}

		return err
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// GetUser returns the account for an authenticated user ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByID(ctx, userID)
}

// SetPremium moves the subscription expiry for username. Admin-only.
func (s *UserService) SetPremium(ctx context.Context, username string, until time.Time) error {
	repo := s.repomanager.Users(s.db)
	return repo.SetPremiumUntil(ctx, username, until)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserService) generateRefreshToken() (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshtoken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshTokenRepo := s.repomanager.RefreshTokens(db)
	err = refreshTokenRepo.Create(ctx, userID, refreshtoken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshtoken}, nil
}
