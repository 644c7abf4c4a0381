// Package auth implements the sign-in flow: exchange credentials for a
// session identity and persist it for later requests.
package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/todoterm/todoterm/internal/api"
	"github.com/todoterm/todoterm/internal/logging"
	"github.com/todoterm/todoterm/internal/session"
	"github.com/todoterm/todoterm/internal/todo"
)

// Fixed user-facing messages. The wrong-credentials and transport-failure
// wordings are intentionally distinct and must not be merged.
const (
	MsgBadCredentials = "Incorrect username or password!"
	MsgLoginFailed    = "Login failed. Please try again."
)

// ErrMissingCredentials is returned when either field is empty. No request is
// issued and no notification fires.
var ErrMissingCredentials = errors.New("username and password are required")

// User is the identity established by a successful login. Token is carried
// through from backends that return it in-band; the flow never persists it.
type User struct {
	ID       int64
	Username string
	Token    string
}

// Signer is the slice of the API the flow needs; *api.TodoService satisfies it.
type Signer interface {
	SignIn(ctx context.Context, username, password string) (*api.SignInResponse, error)
}

// Flow runs logins against a backend and records the identity in the session
// store. Both store and notifier are optional.
type Flow struct {
	signer Signer
	store  session.Store
	notify todo.Notifier
	log    logging.Logger
}

func NewFlow(signer Signer, store session.Store, notify todo.Notifier, log logging.Logger) *Flow {
	if log == nil {
		log = logging.NewNop()
	}
	return &Flow{signer: signer, store: store, notify: notify, log: log}
}

// Login submits the credentials. On success the username (and user id, when
// the backend provides one) is persisted and the identity returned. On a
// success=false response or a transport error the notifier receives the
// matching fixed message and the session store is left untouched.
func (f *Flow) Login(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := f.signer.SignIn(ctx, username, password)
	if err != nil {
		f.log.Errorf(ctx, "sign in: %v", err)
		if f.notify != nil {
			f.notify.Error(MsgLoginFailed)
		}
		return nil, err
	}

	if !resp.Success {
		if f.notify != nil {
			f.notify.Error(MsgBadCredentials)
		}
		return nil, nil
	}

	user := &User{ID: resp.User.ID, Username: resp.User.Username, Token: resp.Token}
	if f.store != nil {
		if err := f.store.Set(session.KeyUsername, user.Username); err != nil {
			f.log.Warnf(ctx, "persist username: %v", err)
		}
		if user.ID != 0 {
			if err := f.store.Set(session.KeyUserID, strconv.FormatInt(user.ID, 10)); err != nil {
				f.log.Warnf(ctx, "persist user id: %v", err)
			}
		}
	}
	return user, nil
}

// PersistToken records an in-band access token. The Login flow itself never
// writes tokens; callers that receive one in the response use this.
func PersistToken(store session.Store, token string) error {
	if store == nil || token == "" {
		return nil
	}
	return store.Set(session.KeyAccessToken, session.StripBearer(token))
}
