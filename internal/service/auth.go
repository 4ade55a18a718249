package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blogapi/backend/internal/db"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/password"
	"github.com/google/uuid"
)

// TokenTTL is fixed; tokens are never refreshed or revoked.
const TokenTTL = 7 * 24 * time.Hour

const maxUsernameLength = 64

// CredentialStore is the persistence AuthService needs.
type CredentialStore interface {
	CreateUser(ctx context.Context, u model.NewUser, token model.Token) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateCredentials(ctx context.Context, userID int64, username, passwordHash string, token model.Token) error
	InsertToken(ctx context.Context, token model.Token) error
	GetUserByToken(ctx context.Context, value string, now time.Time) (*model.User, error)
}

type Registration struct {
	Username       string
	Password       string
	ShortBiography string
	BirthDate      *time.Time
	Country        string
	City           string
}

type AuthService struct {
	repo     CredentialStore
	hasher   *password.Hasher
	log      logging.Logger
	now      func() time.Time
	newValue func() (string, error)

	// compared against when the username is unknown so both paths pay for a derivation
	dummyDigest string
}

func NewAuthService(repo CredentialStore, hasher *password.Hasher, log logging.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		log:         log,
		now:         time.Now,
		newValue:    newTokenValue,
		dummyDigest: password.Hash("", strings.Repeat("0", 64), hasher.Iterations()),
	}
}

// WithClock replaces the time source used for issuing and resolving tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) HashPassword(ctx context.Context, pw string) (string, error) {
	return s.hasher.Hash(ctx, pw)
}

func (s *AuthService) VerifyPassword(ctx context.Context, pw, digest string) (bool, error) {
	ok, err := s.hasher.Verify(ctx, pw, digest)
	if errors.Is(err, password.ErrIntegrity) {
		return false, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return ok, err
}

func IsPasswordStrong(pw string) bool {
	return password.IsStrong(pw)
}

// IssueToken mints and stores a new token for userID.
func (s *AuthService) IssueToken(ctx context.Context, userID int64) (*model.Token, error) {
	token, err := s.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertToken(ctx, *token); err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return token, nil
}

// ResolveToken returns the owner of a live token, or ErrUnauthorized. The
// owner's active flag is not checked here.
func (s *AuthService) ResolveToken(ctx context.Context, value string) (*model.User, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.repo.GetUserByToken(ctx, value, s.now())
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return user, nil
}

// Login checks credentials and mints a token. Unknown users and wrong
// passwords both yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, pw string) (*model.Token, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if !db.IsNoRows(err) {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if _, err := s.hasher.Verify(ctx, pw, s.dummyDigest); err != nil {
			return nil, err
		}
		return nil, ErrUnauthorized
	}

	ok, err := s.VerifyPassword(ctx, pw, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored digest rejected", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	return s.IssueToken(ctx, user.ID)
}

// Register creates the user and its first token atomically.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*model.User, *model.Token, error) {
	username := strings.TrimSpace(reg.Username)
	if err := validateUsername(username); err != nil {
		return nil, nil, err
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, nil, ErrUsernameTaken
	} else if !db.IsNoRows(err) {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	if !password.IsStrong(reg.Password) {
		return nil, nil, ErrWeakPassword
	}

	digest, err := s.hasher.Hash(ctx, reg.Password)
	if err != nil {
		return nil, nil, err
	}
	token, err := s.newToken(0)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.repo.CreateUser(ctx, model.NewUser{
		Username:       username,
		PasswordHash:   digest,
		ShortBiography: reg.ShortBiography,
		BirthDate:      reg.BirthDate,
		Country:        reg.Country,
		City:           reg.City,
	}, *token)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, nil, ErrUsernameTaken
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}
	token.UserID = user.ID

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// UpdateCredentials replaces username and password of current and mints a
// new token in the same unit of work. Existing tokens stay valid.
func (s *AuthService) UpdateCredentials(ctx context.Context, current *model.User, username, pw string) (*model.Token, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if username != current.Username {
		if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
			return nil, ErrUsernameTaken
		} else if !db.IsNoRows(err) {
			return nil, fmt.Errorf("load user: %w", err)
		}
	}

	if !password.IsStrong(pw) {
		return nil, ErrWeakPassword
	}

	digest, err := s.hasher.Hash(ctx, pw)
	if err != nil {
		return nil, err
	}
	token, err := s.newToken(current.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCredentials(ctx, current.ID, username, digest, *token); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return nil, ErrUsernameTaken
		case db.IsNoRows(err):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update credentials: %w", err)
	}

	s.log.Info(ctx, "credentials updated", "user_id", current.ID)
	return token, nil
}

func (s *AuthService) newToken(userID int64) (*model.Token, error) {
	value, err := s.newValue()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &model.Token{
		Value:   value,
		UserID:  userID,
		Expires: s.now().Add(TokenTTL),
	}, nil
}

// newTokenValue renders a random UUID as 32 hex characters.
func newTokenValue() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}

func validateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, maxUsernameLength)
	}
	return nil
}
