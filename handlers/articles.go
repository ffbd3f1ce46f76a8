package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	cachepkg "github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"

	"diary-service/auth"
	"diary-service/models"
	"diary-service/store"
)

// dashboardLimit is the fixed display cap on /admin; not pagination.
const dashboardLimit = 50

const listCacheKey = "articles:admin"

// ArticleHandler serves the dashboard and the article mutation routes. The
// mutex serializes "repository mutation + regeneration" as one logical unit
// so a rebuild never reads a half-written store and two rebuilds never race
// on the same output files. Reads stay concurrent.
type ArticleHandler struct {
	articles *store.ArticleStore
	sessions *auth.SessionStore
	cache    cachepkg.Cache
	builder  SiteBuilder

	mu sync.Mutex
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articles *store.ArticleStore, sessions *auth.SessionStore, cache cachepkg.Cache, builder SiteBuilder) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		sessions: sessions,
		cache:    cache,
		builder:  builder,
	}
}

// Dashboard handles GET /admin - listing plus the publish form.
func (h *ArticleHandler) Dashboard(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(r, h.sessions)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	summaries, err := h.listSummaries(ctx)
	if err != nil {
		logRequest(ctx, "error", "Failed to query articles", zap.Error(err))
		http.Error(w, "服务器错误，请稍后再试", http.StatusInternalServerError)
		return
	}

	data := adminPageData{
		PageTitle: "后台管理",
		Username:  sess.Username,
		Today:     time.Now().Format("2006-01-02"),
	}
	switch r.URL.Query().Get("status") {
	case "success":
		data.Flash, data.FlashClass = "操作成功！", "success"
	case "deleted":
		data.Flash, data.FlashClass = "文章已删除。", "success"
	case "partial":
		data.Flash, data.FlashClass = "内容已保存，但页面尚未重新生成。", "warning"
	}
	for _, a := range summaries {
		data.Articles = append(data.Articles, adminRow{
			ID:    a.ID,
			Date:  displayDate(a.PubDate),
			Title: a.Title,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "admin", data); err != nil {
		logRequest(ctx, "error", "Failed to render dashboard", zap.Error(err))
	}
}

// listSummaries serves the dashboard listing through the cache; mutations
// drop the cached value.
func (h *ArticleHandler) listSummaries(ctx context.Context) ([]models.ArticleSummary, error) {
	if cached, err := h.cache.Get(listCacheKey); err == nil {
		if raw, ok := cached.([]byte); ok {
			var summaries []models.ArticleSummary
			if json.Unmarshal(raw, &summaries) == nil {
				logRequest(ctx, "debug", "Serving dashboard listing from cache")
				return summaries, nil
			}
		}
	}

	summaries, err := h.articles.List(dashboardLimit)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(summaries); err == nil {
		h.cache.Set(listCacheKey, raw, 5*time.Minute)
	}
	return summaries, nil
}

// EditPage handles GET /edit?id=.
func (h *ArticleHandler) EditPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(r, h.sessions); !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Missing ID", http.StatusBadRequest)
		return
	}

	article, err := h.articles.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query article", zap.Error(err), zap.Int("article_id", id))
		http.Error(w, "服务器错误，请稍后再试", http.StatusInternalServerError)
		return
	}

	data := editPageData{
		PageTitle: "编辑文章",
		ID:        article.ID,
		Title:     article.Title,
		Date:      displayDate(article.PubDate),
		Content:   article.Content,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "edit", data); err != nil {
		logRequest(ctx, "error", "Failed to render edit page", zap.Error(err))
	}
}

// Publish handles POST /publish.
func (h *ArticleHandler) Publish(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(r, h.sessions); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewValidationError("Unauthorized"))
		return
	}
	title, body, pubDate, ok := articleForm(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id, err := h.articles.Insert(title, body, pubDate)
	if err != nil {
		logRequest(ctx, "error", "Failed to insert article", zap.Error(err))
		http.Error(w, "服务器错误，请稍后再试", http.StatusInternalServerError)
		return
	}
	h.cache.Delete(listCacheKey)
	logRequest(ctx, "info", "Article published", zap.Int64("article_id", id))

	h.finishMutation(ctx, w, r, "success")
}

// Update handles POST /update.
func (h *ArticleHandler) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(r, h.sessions); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewValidationError("Unauthorized"))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(r.PostFormValue("id"))
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	title, body, pubDate, ok := articleForm(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.articles.Update(id, title, body, pubDate); err != nil {
		logRequest(ctx, "error", "Failed to update article", zap.Error(err), zap.Int("article_id", id))
		http.Error(w, "服务器错误，请稍后再试", http.StatusInternalServerError)
		return
	}
	h.cache.Delete(listCacheKey)
	logRequest(ctx, "info", "Article updated", zap.Int("article_id", id))

	h.finishMutation(ctx, w, r, "success")
}

// Delete handles GET /delete?id=. Deleting a missing id still succeeds.
func (h *ArticleHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(r, h.sessions); !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Missing ID", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.articles.Delete(id); err != nil {
		logRequest(ctx, "error", "Failed to delete article", zap.Error(err), zap.Int("article_id", id))
		http.Error(w, "服务器错误，请稍后再试", http.StatusInternalServerError)
		return
	}
	h.cache.Delete(listCacheKey)
	logRequest(ctx, "info", "Article deleted", zap.Int("article_id", id))

	h.finishMutation(ctx, w, r, "deleted")
}

// finishMutation runs the awaited site rebuild and redirects to the
// dashboard. A failed rebuild is reported as partial success: the data is
// saved but the static output is stale until the next successful run.
func (h *ArticleHandler) finishMutation(ctx context.Context, w http.ResponseWriter, r *http.Request, status string) {
	if err := h.builder.Rebuild(); err != nil {
		logRequest(ctx, "error", "Site regeneration failed", zap.Error(err))
		http.Redirect(w, r, "/admin?status=partial", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/admin?status="+status, http.StatusFound)
}

// articleForm parses and validates the shared publish/update fields, writing
// the validation response itself when something is missing.
func articleForm(w http.ResponseWriter, r *http.Request) (title, body string, pubDate time.Time, ok bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return "", "", time.Time{}, false
	}
	title = r.PostFormValue("title")
	body = r.PostFormValue("content")
	dateStr := r.PostFormValue("pub_date")
	if title == "" || body == "" || dateStr == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return "", "", time.Time{}, false
	}
	pubDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return "", "", time.Time{}, false
	}
	return title, body, pubDate, true
}

// displayDate renders the stored ISO timestamp as a bare date for forms and
// the listing table.
func displayDate(iso string) string {
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	return iso
}
