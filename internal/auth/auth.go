// Package auth holds the session state machine: anonymous, loading,
// authenticated, error. Transitions go through a pure reducer; the container
// coordinates the gateway and the durable token store around it.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/flicky/go-storefront/internal/events"
	"github.com/flicky/go-storefront/internal/gateway"
	"github.com/flicky/go-storefront/internal/model"
	"github.com/flicky/go-storefront/internal/token"
)

type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusError         Status = "error"
)

type State struct {
	User          *model.User
	Token         string
	Authenticated bool
	Loading       bool
	Err           string
}

// Status derives the machine state from the flags.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusLoading
	case s.Authenticated:
		return StatusAuthenticated
	case s.Err != "":
		return StatusError
	default:
		return StatusAnonymous
	}
}

type action interface{ isAction() }

type setLoading struct{ loading bool }
type loginSuccess struct {
	user  model.User
	token string
}
type logout struct{}
type updateUser struct{ user model.User }
type setError struct{ msg string }
type clearError struct{}

func (setLoading) isAction()   {}
func (loginSuccess) isAction() {}
func (logout) isAction()       {}
func (updateUser) isAction()   {}
func (setError) isAction()     {}
func (clearError) isAction()   {}

func reduce(state State, a action) State {
	switch a := a.(type) {
	case setLoading:
		state.Loading = a.loading
		return state
	case loginSuccess:
		u := a.user
		return State{User: &u, Token: a.token, Authenticated: true}
	case logout:
		return State{}
	case updateUser:
		u := a.user
		state.User = &u
		state.Loading = false
		return state
	case setError:
		state.Err = a.msg
		state.Loading = false
		return state
	case clearError:
		state.Err = ""
		return state
	default:
		return state
	}
}

type Container struct {
	mu    sync.Mutex
	state State

	gateway gateway.Gateway
	tokens  token.Store
	bus     *events.Bus
}

func New(gw gateway.Gateway, tokens token.Store, bus *events.Bus) *Container {
	return &Container{gateway: gw, tokens: tokens, bus: bus}
}

func (c *Container) dispatch(a action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reduce(c.state, a)
}

// State returns a snapshot of the current session state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.state
	if c.state.User != nil {
		u := *c.state.User
		out.User = &u
	}
	return out
}

func (c *Container) LastError() string { return c.State().Err }

// CheckSession re-hydrates the session at startup. With no stored token the
// state stays anonymous without entering loading. A token that no longer
// resolves is cleared rather than left ambiguous.
func (c *Container) CheckSession(ctx context.Context) error {
	tok, err := c.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if tok == "" {
		return nil
	}

	c.dispatch(setLoading{loading: true})
	user, err := c.gateway.CurrentUser(ctx)
	if err != nil {
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.publishError(fmt.Sprintf("clear stale token: %v", clearErr))
		}
		c.dispatch(logout{})
		c.publishError(fmt.Sprintf("session check failed: %v", err))
		return nil
	}

	c.dispatch(loginSuccess{user: *user, token: tok})
	return nil
}

// Login validates credentials through the gateway and persists the session
// token on success.
func (c *Container) Login(ctx context.Context, creds gateway.Credentials) (*model.Session, error) {
	c.dispatch(clearError{})
	c.dispatch(setLoading{loading: true})

	session, err := c.gateway.Login(ctx, creds)
	if err != nil {
		c.dispatch(setError{msg: err.Error()})
		c.publishError(err.Error())
		return nil, err
	}

	if err := c.tokens.Save(ctx, session.Token); err != nil {
		// The in-memory session is still valid; only re-hydration after a
		// restart is affected.
		c.publishError(fmt.Sprintf("persist token: %v", err))
	}
	c.dispatch(loginSuccess{user: session.User, token: session.Token})
	c.publish(events.LoginSucceeded, fmt.Sprintf("welcome back, %s", session.User.Name))
	return session, nil
}

func (c *Container) Register(ctx context.Context, params gateway.RegisterParams) (*model.Session, error) {
	c.dispatch(clearError{})
	c.dispatch(setLoading{loading: true})

	session, err := c.gateway.Register(ctx, params)
	if err != nil {
		c.dispatch(setError{msg: err.Error()})
		c.publishError(err.Error())
		return nil, err
	}

	if err := c.tokens.Save(ctx, session.Token); err != nil {
		c.publishError(fmt.Sprintf("persist token: %v", err))
	}
	c.dispatch(loginSuccess{user: session.User, token: session.Token})
	c.publish(events.RegisterOK, fmt.Sprintf("account created for %s", session.User.Email))
	return session, nil
}

// Logout always ends anonymous with the token cleared. A failing remote
// logout call is reported but never keeps the user logged in locally.
func (c *Container) Logout(ctx context.Context) {
	if err := c.gateway.Logout(ctx); err != nil {
		c.publishError(fmt.Sprintf("remote logout failed: %v", err))
	}
	if err := c.tokens.Clear(ctx); err != nil {
		c.publishError(fmt.Sprintf("clear token: %v", err))
	}
	c.dispatch(logout{})
	c.publish(events.LoggedOut, "logged out")
}

// UpdateProfile folds updated fields into the current session without
// changing authentication status.
func (c *Container) UpdateProfile(ctx context.Context, update gateway.ProfileUpdate) (*model.User, error) {
	c.dispatch(setLoading{loading: true})

	user, err := c.gateway.UpdateProfile(ctx, update)
	if err != nil {
		c.dispatch(setError{msg: err.Error()})
		c.publishError(err.Error())
		return nil, err
	}

	c.dispatch(updateUser{user: *user})
	c.publish(events.ProfileUpdated, "profile updated")
	return user, nil
}

func (c *Container) ChangePassword(ctx context.Context, change gateway.PasswordChange) error {
	c.dispatch(setLoading{loading: true})

	if err := c.gateway.ChangePassword(ctx, change); err != nil {
		c.dispatch(setError{msg: err.Error()})
		c.publishError(err.Error())
		return err
	}

	c.dispatch(setLoading{loading: false})
	return nil
}

func (c *Container) ClearError() { c.dispatch(clearError{}) }

func (c *Container) publish(t events.Type, msg string) {
	if c.bus != nil {
		c.bus.Publish(events.Event{Type: t, Message: msg})
	}
}

func (c *Container) publishError(msg string) {
	if c.bus != nil {
		c.bus.Publish(events.Event{Type: events.ErrorOccurred, Message: msg})
	}
}
