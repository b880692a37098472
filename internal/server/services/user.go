// Package services contains server-side business logic: the credential token
// authority, browser sessions and their anti-forgery guard, and the catalogue
// of users, categories and acronyms.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserService registers and looks up users.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// Register creates a user with a freshly hashed password. A taken username
// yields common.ErrConstraintViolation.
func (s *UserService) Register(ctx context.Context, name, userName, password string, twitterURL *string) (*models.User, error) {
	name, userName = strings.TrimSpace(name), strings.TrimSpace(userName)
	if name == "" || userName == "" || password == "" {
		return nil, fmt.Errorf("%w: name, username and password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		UserName:     userName,
		PasswordHash: hash,
		TwitterURL:   twitterURL,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// EnsureUser registers userName unless it already exists. created reports
// whether a new user was written.
func (s *UserService) EnsureUser(ctx context.Context, name, userName, password string) (created bool, err error) {
	_, err = s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}
	if _, err := s.Register(ctx, name, userName, password, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Acronyms lists the acronyms owned by the user, or common.ErrorNotFound if
// the user does not exist.
func (s *UserService) Acronyms(ctx context.Context, id string) ([]*models.Acronym, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repomanager.Acronyms(s.db).ListByUser(ctx, id)
}

// checkID reports ids that cannot name a stored user or acronym as
// common.ErrorNotFound, so they never reach a uuid column.
func checkID(id string) error {
	if len(id) != 36 {
		return common.ErrorNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}
