package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotLoggedIn is returned by commands that need a stored token.
var ErrNotLoggedIn = errors.New("not logged in, run shelf login first")

// Login exchanges credentials for a token and writes both slots.
func (e *Env) Login(ctx context.Context, username, password string) (*library.User, error) {
	resp, err := e.Library.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	userInfo, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("encode user info: %w", err)
	}
	if err := e.Slots.Save(e.Credentials, resp.Token, string(userInfo)); err != nil {
		return nil, err
	}
	e.Log.Infof("logged in as %s", resp.User.Username)
	return &resp.User, nil
}

// Logout clears both slots. It succeeds when nothing was stored.
func (e *Env) Logout() error {
	if err := e.Slots.Clear(e.Credentials); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	e.Log.Info("logged out")
	return nil
}

// StoredUser decodes the user-info slot written at login.
func (e *Env) StoredUser() (*library.User, error) {
	_, raw, err := e.Slots.Load(e.Credentials)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNotLoggedIn
	}
	var user library.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &user, nil
}

// Session returns the claims of the stored token, or the zero Info when there
// is no token or it is not a JWT.
func (e *Env) Session() session.Info {
	info, err := session.Inspect(e.API.GetToken())
	if err != nil {
		return session.Info{}
	}
	return info
}

// Identity is what whoami reports.
type Identity struct {
	User    *library.User
	Session session.Info
	// Verified is true when the server accepted the token just now.
	Verified bool
}

// WhoAmI inspects the stored token and asks the server who it belongs to.
// An expired session clears the slots as a side effect of the request.
func (e *Env) WhoAmI(ctx context.Context) (*Identity, error) {
	info, err := session.Inspect(e.API.GetToken())
	if errors.Is(err, session.ErrNoToken) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		e.Log.Warnf("stored token is not a JWT: %v", err)
	}
	if info.Expired(time.Now()) {
		e.Log.Infof("stored token expired at %s", info.ExpiresAt.Format(time.RFC3339))
	}

	user, err := e.Library.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &Identity{User: user, Session: info, Verified: true}, nil
}

// Upload sends r to the file endpoint and returns the stored URL.
func (e *Env) Upload(ctx context.Context, filename string, r io.Reader) (*library.UploadResult, error) {
	if e.API.GetToken() == "" {
		return nil, ErrNotLoggedIn
	}
	res, err := e.Library.Upload(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	e.Log.Infof("uploaded %s as %s", filename, res.URL)
	return res, nil
}
