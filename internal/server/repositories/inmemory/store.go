// Package inmemory provides mutex-guarded, map-backed implementations of the
// server repositories. They enforce the same uniqueness, foreign-key and
// restrict-delete rules as the PostgreSQL schema. Service, transport and
// CLI tests run against them; the server itself always uses PostgreSQL.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type linkKey struct {
	acronymID  string
	categoryID int64
}

// Store holds every table. Repositories vended by it share one lock.
type Store struct {
	mu sync.Mutex

	users       map[string]models.User
	userByName  map[string]string
	tokens      map[string]models.Token
	sessions    map[string]models.Session
	acronyms    map[string]models.Acronym
	acronymSeq  []string
	categories  map[int64]models.Category
	categoryIDs map[string]int64
	nextCatID   int64
	links       map[linkKey]models.AcronymCategory

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       map[string]models.User{},
		userByName:  map[string]string{},
		tokens:      map[string]models.Token{},
		sessions:    map[string]models.Session{},
		acronyms:    map[string]models.Acronym{},
		categories:  map[int64]models.Category{},
		categoryIDs: map[string]int64{},
		links:       map[linkKey]models.AcronymCategory{},
		now:         time.Now,
	}
}

func violation(what string) error {
	return fmt.Errorf("%w: %s", common.ErrConstraintViolation, what)
}

func (s *Store) Users() *UserRepository                        { return &UserRepository{s: s} }
func (s *Store) Tokens() *TokenRepository                      { return &TokenRepository{s: s} }
func (s *Store) Sessions() *SessionRepository                  { return &SessionRepository{s: s} }
func (s *Store) Acronyms() *AcronymRepository                  { return &AcronymRepository{s: s} }
func (s *Store) Categories() *CategoryRepository               { return &CategoryRepository{s: s} }
func (s *Store) AcronymCategories() *AcronymCategoryRepository { return &AcronymCategoryRepository{s: s} }

// UserRepository implements users.Repository.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return nil, violation("users_pkey")
	}
	if _, ok := r.s.userByName[user.UserName]; ok {
		return nil, violation("users_username_key")
	}
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	r.s.userByName[user.UserName] = user.ID
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.userByName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		result = append(result, &u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserName < result[j].UserName })
	return result, nil
}

// TokenRepository implements tokens.Repository.
type TokenRepository struct{ s *Store }

func (r *TokenRepository) Create(_ context.Context, token *models.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[token.Value]; ok {
		return violation("tokens_value_key")
	}
	if _, ok := r.s.users[token.UserID]; !ok {
		return violation("tokens_user_id_fkey")
	}
	token.CreatedAt = r.s.now()
	r.s.tokens[token.Value] = *token
	return nil
}

func (r *TokenRepository) FindByValue(_ context.Context, value string) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[value]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *TokenRepository) Delete(_ context.Context, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, value)
	return nil
}

func (r *TokenRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for v, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, v)
			n++
		}
	}
	return n, nil
}

// SessionRepository implements sessions.Repository.
type SessionRepository struct{ s *Store }

func (r *SessionRepository) Create(_ context.Context, session *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[session.ID]; ok {
		return violation("sessions_pkey")
	}
	if session.UserID != "" {
		if _, ok := r.s.users[session.UserID]; !ok {
			return violation("sessions_user_id_fkey")
		}
	}
	session.CreatedAt = r.s.now()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) Find(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok || !sess.ExpiresAt.After(r.s.now()) {
		return nil, common.ErrorNotFound
	}
	return &sess, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, id)
	return nil
}

func (r *SessionRepository) SetCSRFToken(_ context.Context, id string, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.sessions[id]
	if !ok {
		return common.ErrorNotFound
	}
	stored.CSRFToken = token
	r.s.sessions[id] = stored
	return nil
}

func (r *SessionRepository) TakeCSRFToken(_ context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.sessions[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	token := stored.CSRFToken
	stored.CSRFToken = ""
	r.s.sessions[id] = stored
	return token, nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var n int64
	for id, sess := range r.s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

func sortAcronymsByShort(list []*models.Acronym) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Short < list[j].Short })
}
