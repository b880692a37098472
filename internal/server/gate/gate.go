// Package gate decides whether a request may reach its handler. It knows
// nothing about HTTP; transports adapt their requests to the Request
// interface.
package gate

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

// Policy is the access requirement attached to a route.
type Policy int

const (
	Public Policy = iota
	RequiresToken
	RequiresSession
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case RequiresToken:
		return "token"
	case RequiresSession:
		return "session"
	default:
		return "unknown"
	}
}

// Request is what the gate needs to know about an incoming request.
type Request interface {
	// Mutating reports whether the request changes server state.
	Mutating() bool
	// BearerToken returns the presented bearer token, or "".
	BearerToken() string
	// Session returns the request's browser session, or nil.
	Session() *models.Session
	// CSRFToken returns the presented anti-forgery token, or "".
	CSRFToken() string
}

type TokenResolver interface {
	Resolve(ctx context.Context, value string) (*models.User, error)
}

type SessionResolver interface {
	CurrentUser(ctx context.Context, sess *models.Session) (*models.User, error)
}

type ForgeryVerifier interface {
	Verify(ctx context.Context, sess *models.Session, presented string) error
}

type Gate struct {
	tokens   TokenResolver
	sessions SessionResolver
	forgery  ForgeryVerifier
}

func New(tokens TokenResolver, sessions SessionResolver, forgery ForgeryVerifier) *Gate {
	return &Gate{tokens: tokens, sessions: sessions, forgery: forgery}
}

// Authorize applies policy to req and returns the authenticated user, which
// is nil for Public. Failures are common.ErrInvalidToken,
// common.ErrLoginRequired or common.ErrForgeryCheckFailed; any other error
// comes from the underlying stores.
func (g *Gate) Authorize(ctx context.Context, policy Policy, req Request) (*models.User, error) {
	switch policy {
	case Public:
		return nil, nil

	case RequiresToken:
		user, err := g.tokens.Resolve(ctx, req.BearerToken())
		if err != nil {
			return nil, err
		}
		return user, nil

	case RequiresSession:
		sess := req.Session()
		if sess == nil {
			return nil, common.ErrLoginRequired
		}
		user, err := g.sessions.CurrentUser(ctx, sess)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, common.ErrLoginRequired
		}
		if req.Mutating() {
			if err := g.CheckForgery(ctx, req); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	return nil, errors.New("unknown policy " + policy.String())
}

// CheckForgery verifies the anti-forgery token of a session request. It is
// used directly by public forms, such as login, that still need the check.
func (g *Gate) CheckForgery(ctx context.Context, req Request) error {
	sess := req.Session()
	if sess == nil {
		return common.ErrForgeryCheckFailed
	}
	return g.forgery.Verify(ctx, sess, req.CSRFToken())
}
