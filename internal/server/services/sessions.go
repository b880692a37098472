package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
)

// SessionAuthenticator keeps server-side browser sessions. A session starts
// anonymous and becomes authenticated on Login; its identifier is rotated on
// every login and logout.
type SessionAuthenticator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionAuthenticator(db *sql.DB, m repomanager.RepositoryManager, ttl time.Duration) *SessionAuthenticator {
	return &SessionAuthenticator{db: db, repomanager: m, ttl: ttl, now: time.Now}
}

func (a *SessionAuthenticator) newID() (string, error) {
	id, err := common.MakeRandHexString(common.MinTokenSize * 2)
	if err != nil {
		return "", common.ErrorInternal
	}
	return id, nil
}

// Start creates a fresh anonymous session.
func (a *SessionAuthenticator) Start(ctx context.Context) (*models.Session, error) {
	id, err := a.newID()
	if err != nil {
		return nil, err
	}
	sess := &models.Session{ID: id, ExpiresAt: a.now().Add(a.ttl)}
	if err := a.repomanager.Sessions(a.db).Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return sess, nil
}

// Load returns a live session. Unknown and expired ids yield
// common.ErrorNotFound.
func (a *SessionAuthenticator) Load(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, common.ErrorNotFound
	}
	return a.repomanager.Sessions(a.db).Find(ctx, id)
}

// Login binds user to the session under a new identifier. The old
// identifier stops resolving and any pending anti-forgery token is dropped.
func (a *SessionAuthenticator) Login(ctx context.Context, sess *models.Session, user *models.User) error {
	return a.rotate(ctx, sess, user.ID)
}

// Logout makes the session anonymous under a new identifier.
func (a *SessionAuthenticator) Logout(ctx context.Context, sess *models.Session) error {
	return a.rotate(ctx, sess, "")
}

func (a *SessionAuthenticator) rotate(ctx context.Context, sess *models.Session, userID string) error {
	id, err := a.newID()
	if err != nil {
		return err
	}
	next := &models.Session{ID: id, UserID: userID, ExpiresAt: a.now().Add(a.ttl)}

	err = a.repomanager.InTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repomanager.Sessions(tx)
		if err := repo.Delete(ctx, sess.ID); err != nil {
			return err
		}
		return repo.Create(ctx, next)
	})
	if err != nil {
		return fmt.Errorf("error rotating session: %w", err)
	}

	*sess = *next
	return nil
}

// CurrentUser returns the user bound to sess, or nil for anonymous sessions
// and sessions whose user has since been deleted.
func (a *SessionAuthenticator) CurrentUser(ctx context.Context, sess *models.Session) (*models.User, error) {
	if !sess.Authenticated() {
		return nil, nil
	}
	user, err := a.repomanager.Users(a.db).GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Sweep deletes expired sessions.
func (a *SessionAuthenticator) Sweep(ctx context.Context) (int64, error) {
	return a.repomanager.Sessions(a.db).DeleteExpired(ctx)
}
