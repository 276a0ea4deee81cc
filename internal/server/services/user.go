// Package services contains server-side business logic. This file implements
// UserService: registration, login, token verification and revocation,
// profile updates, avatars, and account deletion with its task cascade.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/dbx"
	"github.com/tenkil247/taskmanager/internal/server/auth"
	"github.com/tenkil247/taskmanager/internal/server/avatars"
	"github.com/tenkil247/taskmanager/internal/server/config"
	"github.com/tenkil247/taskmanager/internal/server/models"
	"github.com/tenkil247/taskmanager/internal/server/patch"
	"github.com/tenkil247/taskmanager/internal/server/repositories/repomanager"
)

// Matches the account constraints enforced at signup and profile update.
const (
	minPasswordLength = 6
	maxNameLength     = 24
	bcryptCost        = 8
)

// UserService provides account and session operations. A session token is a
// signed JWT that must additionally still be present in the tokens table:
// logout removes the row, which revokes the token ahead of its expiry.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	avatarStore           avatars.Store
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store avatars.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		avatarStore:           store,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account and immediately issues its first session
// token. The password is bcrypt-hashed before anything is persisted.
func (s *UserService) Register(ctx context.Context, email, password, name string, age *int) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	hash, err := hashPassword(strings.TrimSpace(password))
	if err != nil {
		return nil, "", err
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, "", err
	}

	user := &models.User{Email: email, Password: hash, Name: name, Age: 1}
	if age != nil {
		if *age < 0 {
			return nil, "", common.NewValidationError("age must be a positive number")
		}
		user.Age = *age
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return user, token, nil
}

// Login verifies credentials and issues a new session token. The same error
// is returned for an unknown email and a wrong password so the endpoint
// cannot be used to enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return user, token, nil
}

// VerifyToken resolves a bearer token to its user. The signature must check
// out and the token must still be in the user's stored set; a revoked token
// fails even though it would still verify cryptographically.
func (s *UserService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	exists, err := s.repomanager.Tokens(s.db).Exists(ctx, userID, token)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !exists {
		return nil, common.ErrUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// Logout revokes one session token.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, userID, token); err != nil {
		return common.ErrInternal
	}
	return nil
}

// LogoutAll revokes every session token of the user.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repomanager.Tokens(s.db).DeleteAllForUser(ctx, userID); err != nil {
		return common.ErrInternal
	}
	return nil
}

// UpdateProfile applies a whitelisted patch to the user. A new password is
// re-hashed; name and age go through the same checks as registration.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p *patch.User) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Password != nil {
		hash, err := hashPassword(strings.TrimSpace(*p.Password))
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if p.Age != nil {
		if *p.Age < 0 {
			return nil, common.NewValidationError("age must be a positive number")
		}
		user.Age = *p.Age
	}

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything it owns. The cascade is a
// sequence of explicit steps in one transaction: tasks, then tokens, then
// the account record.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tasks(tx).DeleteAllForOwner(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Tokens(tx).DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
}

// UploadAvatar validates and processes the uploaded file, then stores the
// normalized PNG. Nothing is written when processing rejects the upload.
func (s *UserService) UploadAvatar(ctx context.Context, userID, filename string, data []byte) error {
	processed, err := avatars.Process(filename, data)
	if err != nil {
		return err
	}
	return s.avatarStore.Put(ctx, userID, processed)
}

// GetAvatar returns the stored PNG bytes or ErrNotFound.
func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	return s.avatarStore.Get(ctx, userID)
}

// DeleteAvatar clears the stored avatar.
func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	return s.avatarStore.Delete(ctx, userID)
}

// --- helpers below ---

func (s *UserService) issueToken(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", err
	}
	if err := s.repomanager.Tokens(s.db).Create(ctx, userID, token, s.tokenValidityDuration); err != nil {
		return "", err
	}
	return token, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", common.NewValidationError("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return common.NewValidationError("email is invalid")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return common.NewValidationError("name is required")
	}
	if len(name) > maxNameLength {
		return common.NewValidationError("name must be at most %d characters", maxNameLength)
	}
	return nil
}
