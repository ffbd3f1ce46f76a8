package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"diary-service/auth"
	"diary-service/store"
)

// AuthHandler serves the login/register/logout surface.
type AuthHandler struct {
	users    *store.UserStore
	sessions *auth.SessionStore
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *store.UserStore, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
	}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	data := loginPageData{PageTitle: "登录", Error: r.URL.Query().Get("error")}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "login", data); err != nil {
		logRequest(ctx, "error", "Failed to render login page", zap.Error(err))
	}
}

// Login handles POST /login. Wrong credentials redirect back with a message,
// never an error page.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.users.GetByUsername(username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		redirectWithMessage(w, r, "/login", "error", "登录失败，请稍后再试")
		return
	}
	if user == nil || !auth.VerifyPassword(password, user.Salt, user.Password) {
		logRequest(ctx, "info", "Invalid credentials", zap.String("username", username))
		redirectWithMessage(w, r, "/login", "error", "用户名或密码错误")
		return
	}

	token, err := h.sessions.Create(username)
	if err != nil {
		logRequest(ctx, "error", "Failed to create session", zap.Error(err))
		redirectWithMessage(w, r, "/login", "error", "登录失败，请稍后再试")
		return
	}
	setSessionCookie(w, token)

	logRequest(ctx, "info", "Login successful", zap.String("username", username))
	http.Redirect(w, r, "/home", http.StatusFound)
}

// RegisterPage handles GET /register.
func (h *AuthHandler) RegisterPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	data := loginPageData{PageTitle: "注册", Error: r.URL.Query().Get("error")}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "register", data); err != nil {
		logRequest(ctx, "error", "Failed to render register page", zap.Error(err))
	}
}

// Register handles POST /register. A duplicate username or store failure
// surfaces the same generic message so nothing leaks about which field
// failed.
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		redirectWithMessage(w, r, "/register", "error", "注册失败")
		return
	}

	if err := h.users.Create(username, hash, salt); err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		redirectWithMessage(w, r, "/register", "error", "注册失败")
		return
	}

	logRequest(ctx, "info", "User registered", zap.String("username", username))
	redirectWithMessage(w, r, "/login", "error", "注册成功，请登录")
}

// Logout handles GET /logout: the cookie is replaced with an immediately
// expiring one and the session entry dropped.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.sessions.Invalidate(cookie.Value)
	}
	clearSessionCookie(w)
	logRequest(ctx, "info", "Logged out")
	http.Redirect(w, r, "/home", http.StatusFound)
}
