package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/logging"
	"github.com/antonnoe/dossierfrankrijk/internal/server/config"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/server/services"
)

type fakeAuth struct {
	magicLinkErr error
	lastEmail    string

	exchangePair *services.TokenPair
	exchangeErr  error

	session    *services.Session
	sessionErr error

	refreshPair *services.TokenPair
	refreshErr  error

	signOutToken string
}

func (f *fakeAuth) RequestMagicLink(ctx context.Context, email string) error {
	f.lastEmail = email
	return f.magicLinkErr
}

func (f *fakeAuth) ExchangeCode(ctx context.Context, code string) (*services.TokenPair, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangePair, nil
}

func (f *fakeAuth) CurrentSession(ctx context.Context, accessToken string) (*services.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeAuth) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshPair, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, refreshToken string) error {
	f.signOutToken = refreshToken
	return nil
}

type fakeDossier struct {
	dash *services.Dashboard

	addOut *models.Item
	addErr error

	toggleErr error
	deleteErr error

	lastUserID string
	lastItemID string
	lastDone   bool
}

func (f *fakeDossier) LoadAll(ctx context.Context, userID string) *services.Dashboard {
	f.lastUserID = userID
	if f.dash == nil {
		return &services.Dashboard{}
	}
	return f.dash
}

func (f *fakeDossier) AddItem(ctx context.Context, userID string, draft *models.ItemDraft) (*models.Item, error) {
	f.lastUserID = userID
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addOut, nil
}

func (f *fakeDossier) ToggleChecklist(ctx context.Context, userID, itemID string, done bool) error {
	f.lastUserID, f.lastItemID, f.lastDone = userID, itemID, done
	return f.toggleErr
}

func (f *fakeDossier) DeleteItem(ctx context.Context, userID, itemID string) error {
	f.lastUserID, f.lastItemID = userID, itemID
	return f.deleteErr
}

type fakeSnapshots struct {
	uploadURL   string
	uploadErr   error
	markErr     error
	downloadURL string
	downloadErr error
}

func (f *fakeSnapshots) RequestUpload(ctx context.Context, userID, itemID string) (string, error) {
	return f.uploadURL, f.uploadErr
}

func (f *fakeSnapshots) MarkUploaded(ctx context.Context, userID, itemID string) error {
	return f.markErr
}

func (f *fakeSnapshots) DownloadURL(ctx context.Context, userID, itemID string) (string, error) {
	return f.downloadURL, f.downloadErr
}

func newTestServer(auth *fakeAuth, dossier *fakeDossier, snapshots *fakeSnapshots) *Server {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(cfg, logger, auth, dossier, snapshots)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set(common.AccessTokenHeaderName, "Bearer test-token")
	return req
}

func TestHandleMagicLink(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		auth := &fakeAuth{}
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"email":"jan@example.com"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/magiclink", body))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", rec.Code)
		}
		if auth.lastEmail != "jan@example.com" {
			t.Errorf("email = %q", auth.lastEmail)
		}
	})

	t.Run("invalid email is a bad request", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{magicLinkErr: common.ErrorValidation}, &fakeDossier{}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"email":"not-an-email"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/magiclink", body))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleAuthCallback(t *testing.T) {
	t.Run("valid code sets cookies and redirects to the dashboard", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{
			exchangePair: &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("redirect to %q, want /dashboard", loc)
		}

		cookies := rec.Result().Cookies()
		got := map[string]string{}
		for _, c := range cookies {
			got[c.Name] = c.Value
			if !c.HttpOnly {
				t.Errorf("cookie %s must be HttpOnly", c.Name)
			}
		}
		if got[common.AccessTokenCookieName] != "acc" || got[common.RefreshTokenCookieName] != "ref" {
			t.Errorf("unexpected cookies: %v", got)
		}
	})

	t.Run("failed exchange lands on the login page", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{exchangeErr: common.ErrorUnauthorized}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=bad", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
			t.Errorf("redirect to %q, want /login", loc)
		}
	})

	t.Run("expired code names the reason", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{exchangeErr: common.ErrLoginCodeExpired}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=old", nil))

		if loc := rec.Header().Get("Location"); loc != "/login?error=expired_code" {
			t.Errorf("redirect to %q", loc)
		}
	})

	t.Run("missing code never reaches the exchange", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))

		if loc := rec.Header().Get("Location"); loc != "/login?error=missing_code" {
			t.Errorf("redirect to %q", loc)
		}
	})
}

func TestHandleExchange(t *testing.T) {
	t.Run("returns the pair as json", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{
			exchangePair: &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		}, &fakeDossier{}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"code":"abc"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/exchange", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var pair services.TokenPair
		if err := json.NewDecoder(rec.Body).Decode(&pair); err != nil {
			t.Fatal(err)
		}
		if pair.AccessToken != "acc" {
			t.Errorf("pair = %+v", pair)
		}
	})

	t.Run("bad code is unauthorized", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{exchangeErr: common.ErrorUnauthorized}, &fakeDossier{}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"code":"bad"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/exchange", body))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing code is a bad request", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{}, &fakeDossier{}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/exchange", body))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleSession(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{
			session: &services.Session{UserID: "u1", Email: "jan@example.com"},
		}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var session services.Session
		if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
			t.Fatal(err)
		}
		if session.UserID != "u1" {
			t.Errorf("session = %+v", session)
		}
	})

	t.Run("no token is unauthorized", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("cookie works as well as a bearer header", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{
			session: &services.Session{UserID: "u1"},
		}, &fakeDossier{}, &fakeSnapshots{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: "test-token"})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{sessionErr: common.ErrTokenExpired}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestHandleRefresh(t *testing.T) {
	t.Run("rotates via cookie", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{
			refreshPair: &services.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"},
		}, &fakeDossier{}, &fakeSnapshots{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "ref1"})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var pair services.TokenPair
		if err := json.NewDecoder(rec.Body).Decode(&pair); err != nil {
			t.Fatal(err)
		}
		if pair.RefreshToken != "ref2" {
			t.Errorf("pair = %+v", pair)
		}
	})

	t.Run("expired refresh token clears cookies", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{refreshErr: common.ErrRefreshTokenExpired}, &fakeDossier{}, &fakeSnapshots{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "old"})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge != -1 {
				t.Errorf("cookie %s not cleared", c.Name)
			}
		}
	})

	t.Run("no token at all", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{}, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestHandleLogout(t *testing.T) {
	auth := &fakeAuth{}
	srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "ref1"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if auth.signOutToken != "ref1" {
		t.Errorf("signed out token %q, want ref1", auth.signOutToken)
	}
}

func TestHandleDashboard(t *testing.T) {
	dossier := &fakeDossier{dash: &services.Dashboard{
		Folders: []*models.Folder{{ID: "f1", Name: "Wonen", Icon: "🏠", SortOrder: 1}},
		Items:   []*models.Item{{ID: "i1", FolderID: "f1", Type: models.ItemTypeNote, Title: "x"}},
	}}
	srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}}, dossier, &fakeSnapshots{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if dossier.lastUserID != "u1" {
		t.Errorf("loaded for user %q, want u1", dossier.lastUserID)
	}

	var resp struct {
		Folders []*models.Folder `json:"folders"`
		Items   []*models.Item   `json:"items"`
		Stats   map[string]int   `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Folders) != 1 || len(resp.Items) != 1 {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp.Stats["total_items"] != 1 || resp.Stats["active_folders"] != 1 {
		t.Errorf("unexpected stats: %v", resp.Stats)
	}
}

func TestHandleAddItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		dossier := &fakeDossier{addOut: &models.Item{ID: "i1", Title: "x", Metadata: map[string]any{}}}
		srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}}, dossier, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"folder_id":"f1","type":"note","title":"x"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/items", body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("validation failure is a bad request", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}},
			&fakeDossier{addErr: common.ErrorValidation}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"folder_id":"f1","type":"note","title":"   "}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/items", body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing folder is a bad request", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}},
			&fakeDossier{addErr: common.ErrorIncorrectFolder}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"type":"note","title":"x"}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/items", body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleUpdateItem(t *testing.T) {
	t.Run("toggles", func(t *testing.T) {
		dossier := &fakeDossier{}
		srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}}, dossier, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"is_done":true}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPatch, "/api/items/i1", body)))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if dossier.lastItemID != "i1" || !dossier.lastDone {
			t.Errorf("toggled (%q, %v)", dossier.lastItemID, dossier.lastDone)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}},
			&fakeDossier{toggleErr: common.ErrorNotFound}, &fakeSnapshots{})

		body := bytes.NewBufferString(`{"is_done":true}`)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPatch, "/api/items/gone", body)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandleDeleteItem(t *testing.T) {
	dossier := &fakeDossier{}
	srv := newTestServer(&fakeAuth{session: &services.Session{UserID: "u1"}}, dossier, &fakeSnapshots{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/items/i1", nil)))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if dossier.lastItemID != "i1" {
		t.Errorf("deleted %q, want i1", dossier.lastItemID)
	}
}

func TestSnapshotHandlers(t *testing.T) {
	auth := &fakeAuth{session: &services.Session{UserID: "u1"}}

	t.Run("request upload", func(t *testing.T) {
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{uploadURL: "https://s3.test/put"})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/items/i1/snapshot", nil)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp["upload_url"] != "https://s3.test/put" {
			t.Errorf("resp = %v", resp)
		}
	})

	t.Run("request upload for an unknown item", func(t *testing.T) {
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{uploadErr: common.ErrorNotFound})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/items/not-mine/snapshot", nil)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("confirm upload", func(t *testing.T) {
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPatch, "/api/items/i1/snapshot", nil)))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("download url", func(t *testing.T) {
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{downloadURL: "https://s3.test/get"})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/items/i1/snapshot", nil)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("no snapshot yet", func(t *testing.T) {
		srv := newTestServer(auth, &fakeDossier{}, &fakeSnapshots{downloadErr: common.ErrorNotFound})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/items/i1/snapshot", nil)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
