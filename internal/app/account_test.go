package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credentials"
	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/logging"
)

func signedToken(t *testing.T, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "reader",
		"role":   "READER",
		"userId": 7,
		"exp":    expires.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// libraryServer answers login, me and upload like the real backend. Only
// validToken is accepted.
func libraryServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"secret"`) {
			writeEnvelope(w, http.StatusOK, `{"code":1001,"message":"bad credentials"}`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"code":0,"data":{"token":"`+validToken+`","user":{"id":7,"username":"reader","realName":"Ada Reader","role":"READER"}}}`)
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			writeEnvelope(w, http.StatusUnauthorized, `{"code":401,"message":"unauthorized"}`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"code":0,"data":{"id":7,"username":"reader","realName":"Ada Reader","role":"READER"}}`)
	})
	mux.HandleFunc("POST /api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"code":0,"data":{"url":"/uploads/cover.png","filename":"cover.png"}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func testEnv(t *testing.T, server *httptest.Server) *Env {
	t.Helper()
	cfg := config.Default()
	cfg.APIBaseURL = server.URL + "/api"
	cfg.HTTPTimeout = 5 * time.Second
	return newEnv(cfg, logging.Discard(), credentials.NewMemory())
}

func TestEnvLoginStoresBothSlots(t *testing.T) {
	token := signedToken(t, time.Now().Add(2*time.Hour))
	env := testEnv(t, libraryServer(t, token))

	user, err := env.Login(context.Background(), "reader", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.DisplayName() != "Ada Reader" {
		t.Fatalf("user = %+v", user)
	}
	if got := env.API.GetToken(); got != token {
		t.Fatalf("stored token = %q", got)
	}
	stored, err := env.StoredUser()
	if err != nil || stored.Username != "reader" {
		t.Fatalf("StoredUser = %+v, %v", stored, err)
	}
}

func TestEnvLoginRejected(t *testing.T) {
	env := testEnv(t, libraryServer(t, "unused"))

	_, err := env.Login(context.Background(), "reader", "wrong")
	var apiErr *libcommon.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad credentials" {
		t.Fatalf("Login error = %v, want APIError bad credentials", err)
	}
	if env.API.GetToken() != "" {
		t.Fatal("token stored after a failed login")
	}
}

func TestEnvWhoAmI(t *testing.T) {
	token := signedToken(t, time.Now().Add(2*time.Hour))
	env := testEnv(t, libraryServer(t, token))

	if _, err := env.WhoAmI(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("WhoAmI before login = %v, want ErrNotLoggedIn", err)
	}

	if _, err := env.Login(context.Background(), "reader", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := env.WhoAmI(context.Background())
	if err != nil {
		t.Fatalf("WhoAmI: %v", err)
	}
	if !id.Verified || id.User.ID != 7 {
		t.Fatalf("identity = %+v", id)
	}
	if id.Session.Subject != "reader" || id.Session.Role != "READER" || id.Session.UserID != 7 {
		t.Fatalf("session = %+v", id.Session)
	}
	if !env.Session().HasExpiry() {
		t.Fatal("Session() lost the expiry claim")
	}
}

func TestEnvWhoAmIExpiredSessionClearsSlotsAndReloads(t *testing.T) {
	env := testEnv(t, libraryServer(t, "the-real-token"))
	stale := signedToken(t, time.Now().Add(-time.Hour))
	if err := env.Slots.Save(env.Credentials, stale, `{"id":7}`); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := env.WhoAmI(context.Background())
	if !errors.Is(err, libcommon.ErrSessionExpired) {
		t.Fatalf("WhoAmI = %v, want ErrSessionExpired", err)
	}
	token, user, _ := env.Slots.Load(env.Credentials)
	if token != "" || user != "" {
		t.Fatalf("slots not cleared: %q %q", token, user)
	}
	select {
	case <-env.reloads.C():
	default:
		t.Fatal("no reload requested")
	}
}

func TestEnvLogout(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	env := testEnv(t, libraryServer(t, token))
	if _, err := env.Login(context.Background(), "reader", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := env.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if env.API.GetToken() != "" {
		t.Fatal("token survived logout")
	}
	if _, err := env.StoredUser(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("StoredUser after logout = %v", err)
	}
	// A second logout is harmless.
	if err := env.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

func TestEnvUpload(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	env := testEnv(t, libraryServer(t, token))

	if _, err := env.Upload(context.Background(), "cover.png", strings.NewReader("png")); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Upload before login = %v, want ErrNotLoggedIn", err)
	}
	if _, err := env.Login(context.Background(), "reader", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	res, err := env.Upload(context.Background(), "cover.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.URL != "/uploads/cover.png" {
		t.Fatalf("URL = %q", res.URL)
	}
}

func TestPickLanguage(t *testing.T) {
	if got := pickLanguage("", "zh-Hans", "en"); got != "zh-Hans" {
		t.Fatalf("pickLanguage = %q", got)
	}
	if got := pickLanguage("", ""); got == "" {
		t.Fatal("pickLanguage returned empty default")
	}
}
