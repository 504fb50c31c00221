package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/server/services"
	"github.com/antonnoe/dossierfrankrijk/internal/view"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{common.AccessTokenCookieName, common.RefreshTokenCookieName} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}

func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

// --- auth ---

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := s.auth.RequestMagicLink(r.Context(), req.Email); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			http.Error(w, "invalid email address", http.StatusBadRequest)
			return
		}
		s.logger.Error(r.Context(), "error sending magic link", "error", err.Error())
		http.Error(w, "could not send login link", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// handleAuthCallback is the link target from the login email. A failed
// exchange always lands the browser back on the login page.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=missing_code", http.StatusFound)
		return
	}

	pair, err := s.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		reason := "invalid_code"
		if errors.Is(err, common.ErrLoginCodeExpired) {
			reason = "expired_code"
		}
		http.Redirect(w, r, "/login?error="+reason, http.StatusFound)
		return
	}

	setSessionCookies(w, pair)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleExchange is the non-browser variant of the callback: clients that
// cannot follow redirects post the code and get the token pair as JSON.
func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	pair, err := s.auth.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrLoginCodeExpired) {
			http.Error(w, "invalid or expired login code", http.StatusUnauthorized)
			return
		}
		s.logger.Error(r.Context(), "error exchanging login code", "error", err.Error())
		http.Error(w, "could not complete login", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFromContext(r.Context()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		http.Error(w, "refresh token required", http.StatusUnauthorized)
		return
	}

	pair, err := s.auth.RefreshToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrRefreshTokenExpired) {
			clearSessionCookies(w)
			http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
			return
		}
		s.logger.Error(r.Context(), "error refreshing token", "error", err.Error())
		http.Error(w, "could not refresh session", http.StatusInternalServerError)
		return
	}

	setSessionCookies(w, pair)
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context(), refreshTokenFromRequest(r)); err != nil {
		s.logger.Error(r.Context(), "error signing out", "error", err.Error())
	}
	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// --- dossier ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	dash := s.dossier.LoadAll(r.Context(), session.UserID)
	stats := view.ComputeStats(dash.Folders, dash.Items)
	writeJSON(w, http.StatusOK, map[string]any{
		"folders": dash.Folders,
		"items":   dash.Items,
		"stats": map[string]int{
			"total_items":          stats.TotalItems,
			"active_folders":       stats.ActiveFolders,
			"completed_checklists": stats.CompletedChecklists,
			"total_checklists":     stats.TotalChecklists,
		},
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	item, err := s.dossier.AddItem(r.Context(), session.UserID, &draft)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			http.Error(w, "title and type are required", http.StatusBadRequest)
		case errors.Is(err, common.ErrorIncorrectFolder):
			http.Error(w, "folder is required", http.StatusBadRequest)
		default:
			s.logger.Error(r.Context(), "error adding item", "error", err.Error())
			http.Error(w, "could not save item", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	var req struct {
		IsDone bool `json:"is_done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := s.dossier.ToggleChecklist(r.Context(), session.UserID, itemID, req.IsDone); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	if err := s.dossier.DeleteItem(r.Context(), session.UserID, itemID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- snapshots ---

func (s *Server) handleRequestSnapshot(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	url, err := s.snapshots.RequestUpload(r.Context(), session.UserID, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "error presigning snapshot upload", "error", err.Error())
		http.Error(w, "could not prepare snapshot upload", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"upload_url": url})
}

func (s *Server) handleConfirmSnapshot(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	if err := s.snapshots.MarkUploaded(r.Context(), session.UserID, itemID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not confirm snapshot", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadSnapshot(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	itemID := chi.URLParam(r, "itemID")

	url, err := s.snapshots.DownloadURL(r.Context(), session.UserID, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "error presigning snapshot download", "error", err.Error())
		http.Error(w, "could not prepare snapshot download", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}
