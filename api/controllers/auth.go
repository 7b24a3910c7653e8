package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/api/middleware"
	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/api/validators"
	authsvc "github.com/secondchance/secondchance-backend/internal/auth"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgauth "github.com/secondchance/secondchance-backend/pkg/auth"
	"github.com/secondchance/secondchance-backend/pkg/config"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
)

const oauthStateCookie = "sc_oauth_state"

func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the server-side session behind the presented token.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.TokenIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthCurrentUser echoes the verified caller's profile.
func AuthCurrentUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// GoogleRedirect starts the authorization code flow. The CSRF state lands in
// a short-lived cookie that the callback checks against the query string.
func GoogleRedirect(provider *pkgauth.GoogleProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "google login is not configured"))
			return
		}

		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, provider.AuthURL(state), http.StatusFound)
	}
}

// GoogleCallback finishes the code flow: exchange, resolve the account, then
// bounce back to the frontend with the token in the query string. Failures
// redirect to the configured failure page instead of rendering JSON.
func GoogleCallback(provider *pkgauth.GoogleProvider, svc authsvc.Service, frontend config.FrontendConfig, logg *logger.Logger) http.HandlerFunc {
	failURL := strings.TrimRight(frontend.URL, "/") + frontend.LoginFailPath

	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil || svc == nil {
			http.Redirect(w, r, failURL, http.StatusFound)
			return
		}

		state := r.URL.Query().Get("state")
		cookie, err := r.Cookie(oauthStateCookie)
		if state == "" || err != nil || cookie.Value != state {
			logRedirectFailure(r, logg, "oauth state mismatch")
			http.Redirect(w, r, failURL, http.StatusFound)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			logRedirectFailure(r, logg, "oauth callback missing code")
			http.Redirect(w, r, failURL, http.StatusFound)
			return
		}

		profile, err := provider.Exchange(r.Context(), code)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "oauth.exchange", err)
			}
			http.Redirect(w, r, failURL, http.StatusFound)
			return
		}

		resp, err := svc.Resolve(r.Context(), profile)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "oauth.resolve", err)
			}
			http.Redirect(w, r, failURL, http.StatusFound)
			return
		}

		target := strings.TrimRight(frontend.URL, "/") + "/?token=" + url.QueryEscape(resp.Token)
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func logRedirectFailure(r *http.Request, logg *logger.Logger, msg string) {
	if logg != nil {
		logg.Warn(r.Context(), msg)
	}
}
