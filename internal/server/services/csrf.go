package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
)

// ForgeryGuard issues single-use anti-forgery tokens bound to a session.
type ForgeryGuard struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokenSize   int
}

func NewForgeryGuard(db *sql.DB, m repomanager.RepositoryManager, tokenSize int) *ForgeryGuard {
	return &ForgeryGuard{db: db, repomanager: m, tokenSize: max(tokenSize, common.MinTokenSize)}
}

// Issue stores a new token on the session, replacing any pending one, and
// returns it for embedding in a form.
func (g *ForgeryGuard) Issue(ctx context.Context, sess *models.Session) (string, error) {
	token, err := common.MakeRandHexString(g.tokenSize)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := g.repomanager.Sessions(g.db).SetCSRFToken(ctx, sess.ID, token); err != nil {
		return "", fmt.Errorf("error storing csrf token: %w", err)
	}
	sess.CSRFToken = token
	return token, nil
}

// Verify consumes the pending token and compares it with presented. The
// pending token is cleared whatever the outcome, so a token passes at most
// once.
func (g *ForgeryGuard) Verify(ctx context.Context, sess *models.Session, presented string) error {
	if sess == nil {
		return common.ErrForgeryCheckFailed
	}
	stored, err := g.repomanager.Sessions(g.db).TakeCSRFToken(ctx, sess.ID)
	sess.CSRFToken = ""
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrForgeryCheckFailed
		}
		return fmt.Errorf("error reading csrf token: %w", err)
	}
	if stored == "" || presented == "" {
		return common.ErrForgeryCheckFailed
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return common.ErrForgeryCheckFailed
	}
	return nil
}
