package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"diary-service/auth"
)

// sessionCookieName is the cookie carrying the opaque session token.
const sessionCookieName = "sessionId"

// sessionMaxAge matches the registry TTL (24h).
const sessionMaxAge = 86400

// SiteBuilder regenerates the static site. The write path awaits it so the
// generated output is never stale relative to an acknowledged mutation;
// hiding it behind an interface keeps the door open for an incremental
// builder later.
type SiteBuilder interface {
	Rebuild() error
}

// logRequest logs the request with route details from the httpserver context.
// Shared package-level helper so every handler struct logs the same shape.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// currentSession resolves the session cookie against the injected registry.
func currentSession(r *http.Request, sessions *auth.SessionStore) (auth.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return auth.Session{}, false
	}
	return sessions.Resolve(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// redirectWithMessage sends a post-redirect-GET hop carrying a human-readable
// message in the query string; there is no server-side flash storage.
func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, param, message string) {
	http.Redirect(w, r, path+"?"+param+"="+url.QueryEscape(message), http.StatusFound)
}
