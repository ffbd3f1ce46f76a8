package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gocache "github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"

	"diary-service/auth"
	"diary-service/store"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
	os.Exit(m.Run())
}

type stubBuilder struct {
	calls int
	err   error
}

func (b *stubBuilder) Rebuild() error {
	b.calls++
	return b.err
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlite3"), mock
}

func newMemoryCache(t *testing.T) gocache.Cache {
	t.Helper()
	c, err := gocache.New(gocache.Config{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func newArticleHandler(t *testing.T, mock func(sqlmock.Sqlmock), builder *stubBuilder) (*ArticleHandler, *auth.SessionStore) {
	t.Helper()
	db, m := newMockDB(t)
	if mock != nil {
		mock(m)
	}
	sessions := auth.NewSessionStore(24 * time.Hour)
	h := NewArticleHandler(store.NewArticleStore(db), sessions, newMemoryCache(t), builder)
	return h, sessions
}

func loggedInRequest(t *testing.T, sessions *auth.SessionStore, method, target string, form url.Values) *http.Request {
	t.Helper()
	token, err := sessions.Create("admin")
	require.NoError(t, err)

	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return r
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	h, _ := newArticleHandler(t, nil, &stubBuilder{})

	w := httptest.NewRecorder()
	h.Dashboard(context.Background(), w, httptest.NewRequest("GET", "/admin", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestDashboardListsArticles(t *testing.T) {
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		rows := sqlmock.NewRows([]string{"id", "title", "pub_date"}).
			AddRow(1, "First entry", "2024-03-01T00:00:00Z")
		m.ExpectQuery("SELECT id, title, pub_date FROM articles ORDER BY pub_date DESC LIMIT ?").
			WithArgs(50).
			WillReturnRows(rows)
	}, &stubBuilder{})

	w := httptest.NewRecorder()
	h.Dashboard(context.Background(), w, loggedInRequest(t, sessions, "GET", "/admin?status=success", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "First entry")
	assert.Contains(t, body, "2024-03-01")
	assert.Contains(t, body, "操作成功")
	assert.Contains(t, body, "Hi, admin")
}

func TestDashboardEscapesTitles(t *testing.T) {
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		rows := sqlmock.NewRows([]string{"id", "title", "pub_date"}).
			AddRow(1, `<script>alert(1)</script>`, "2024-03-01T00:00:00Z")
		m.ExpectQuery("SELECT id, title, pub_date FROM articles ORDER BY pub_date DESC LIMIT ?").
			WithArgs(50).
			WillReturnRows(rows)
	}, &stubBuilder{})

	w := httptest.NewRecorder()
	h.Dashboard(context.Background(), w, loggedInRequest(t, sessions, "GET", "/admin", nil))

	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
}

func TestPublishRequiresSession(t *testing.T) {
	builder := &stubBuilder{}
	h, _ := newArticleHandler(t, nil, builder)

	w := httptest.NewRecorder()
	h.Publish(context.Background(), w, httptest.NewRequest("POST", "/publish", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, builder.calls, "mutation must not run")
}

func TestPublishInsertsAndRebuilds(t *testing.T) {
	builder := &stubBuilder{}
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		m.ExpectExec("INSERT INTO articles (title, content, pub_date, slug, excerpt) VALUES (?, ?, ?, ?, ?)").
			WithArgs("Test", "<p>Hello Photos world</p>", "2024-03-01T00:00:00Z", "article_20240301_2603186", "Hello world").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}, builder)

	form := url.Values{"title": {"Test"}, "pub_date": {"2024-03-01"}, "content": {"<p>Hello Photos world</p>"}}
	w := httptest.NewRecorder()
	h.Publish(context.Background(), w, loggedInRequest(t, sessions, "POST", "/publish", form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin?status=success", w.Header().Get("Location"))
	assert.Equal(t, 1, builder.calls)
}

func TestPublishMissingFieldsRejected(t *testing.T) {
	builder := &stubBuilder{}
	h, sessions := newArticleHandler(t, nil, builder)

	form := url.Values{"title": {"Test"}}
	w := httptest.NewRecorder()
	h.Publish(context.Background(), w, loggedInRequest(t, sessions, "POST", "/publish", form))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, builder.calls)
}

func TestPublishReportsPartialSuccessWhenRebuildFails(t *testing.T) {
	builder := &stubBuilder{err: os.ErrNotExist}
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		m.ExpectExec("INSERT INTO articles (title, content, pub_date, slug, excerpt) VALUES (?, ?, ?, ?, ?)").
			WithArgs("Test", "<p>x</p>", "2024-03-01T00:00:00Z", "article_20240301_2603186", "x").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}, builder)

	form := url.Values{"title": {"Test"}, "pub_date": {"2024-03-01"}, "content": {"<p>x</p>"}}
	w := httptest.NewRecorder()
	h.Publish(context.Background(), w, loggedInRequest(t, sessions, "POST", "/publish", form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin?status=partial", w.Header().Get("Location"))
}

func TestUpdateRecomputesDerivedFields(t *testing.T) {
	builder := &stubBuilder{}
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		m.ExpectExec("UPDATE articles SET title = ?, content = ?, pub_date = ?, slug = ?, excerpt = ? WHERE id = ?").
			WithArgs("Test", "<p>new body</p>", "2024-03-05T00:00:00Z", "article_20240305_2603186", "new body", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}, builder)

	form := url.Values{"id": {"4"}, "title": {"Test"}, "pub_date": {"2024-03-05"}, "content": {"<p>new body</p>"}}
	w := httptest.NewRecorder()
	h.Update(context.Background(), w, loggedInRequest(t, sessions, "POST", "/update", form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin?status=success", w.Header().Get("Location"))
	assert.Equal(t, 1, builder.calls)
}

func TestDeleteMissingIDIsIdempotent(t *testing.T) {
	builder := &stubBuilder{}
	h, sessions := newArticleHandler(t, func(m sqlmock.Sqlmock) {
		m.ExpectExec("DELETE FROM articles WHERE id = ?").
			WithArgs(999).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}, builder)

	w := httptest.NewRecorder()
	h.Delete(context.Background(), w, loggedInRequest(t, sessions, "GET", "/delete?id=999", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin?status=deleted", w.Header().Get("Location"))
	assert.Equal(t, 1, builder.calls)
}

func TestDeleteRedirectsAnonymous(t *testing.T) {
	builder := &stubBuilder{}
	h, _ := newArticleHandler(t, nil, builder)

	w := httptest.NewRecorder()
	h.Delete(context.Background(), w, httptest.NewRequest("GET", "/delete?id=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, builder.calls)
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	db, mock := newMockDB(t)
	salt, hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT username, password, salt FROM users WHERE username = ?").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "salt"}).AddRow("admin", hash, salt))

	sessions := auth.NewSessionStore(24 * time.Hour)
	h := NewAuthHandler(store.NewUserStore(db), sessions)

	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	r := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(context.Background(), w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, sessionMaxAge, cookies[0].MaxAge)

	_, ok := sessions.Resolve(cookies[0].Value)
	assert.True(t, ok)
}

func TestLoginWrongPasswordRedirectsWithMessage(t *testing.T) {
	db, mock := newMockDB(t)
	salt, hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT username, password, salt FROM users WHERE username = ?").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "salt"}).AddRow("admin", hash, salt))

	h := NewAuthHandler(store.NewUserStore(db), auth.NewSessionStore(24*time.Hour))

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	r := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(context.Background(), w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?error="))
}

func TestRegisterDuplicateUsernameGenericFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO users (username, password, salt) VALUES (?, ?, ?)").
		WithArgs("admin", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&duplicateErr{})

	h := NewAuthHandler(store.NewUserStore(db), auth.NewSessionStore(24*time.Hour))

	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	r := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Register(context.Background(), w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/register?error="))
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	db, _ := newMockDB(t)
	sessions := auth.NewSessionStore(24 * time.Hour)
	h := NewAuthHandler(store.NewUserStore(db), sessions)

	token, err := sessions.Create("admin")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/logout", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	w := httptest.NewRecorder()
	h.Logout(context.Background(), w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)

	_, ok := sessions.Resolve(token)
	assert.False(t, ok)
}

type duplicateErr struct{}

func (*duplicateErr) Error() string { return "UNIQUE constraint failed: users.username" }
