package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"diary-service/auth"
	"diary-service/content"
)

// authLinksPlaceholder in served HTML is replaced by the viewer's auth
// state; pages without the placeholder are served untouched.
const authLinksPlaceholder = "{{AUTH_LINKS}}"

var assetContentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css",
	".js":   "text/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".mp3":  "audio/mpeg",
}

// PageHandler serves the generated static site back through the admin
// server: the home page and the per-article pages, with auth links injected
// into HTML documents.
type PageHandler struct {
	sessions  *auth.SessionStore
	outputDir string
}

// NewPageHandler creates a new page handler serving files from outputDir.
func NewPageHandler(sessions *auth.SessionStore, outputDir string) *PageHandler {
	return &PageHandler{
		sessions:  sessions,
		outputDir: outputDir,
	}
}

// Home handles GET / and GET /home.
func (h *PageHandler) Home(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.serveHTML(ctx, w, r, filepath.Join(h.outputDir, "home.html"))
}

// Article handles GET /articles/{file} - a generated article page or asset.
func (h *PageHandler) Article(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if file == "" || strings.ContainsAny(file, "/\\") || strings.Contains(file, "..") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	path := filepath.Join(h.outputDir, "articles", file)
	if strings.HasSuffix(file, ".html") {
		h.serveHTML(ctx, w, r, path)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if ct, ok := assetContentTypes[filepath.Ext(file)]; ok {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Write(data)
}

// ArticleIndex handles GET /articles - a plain anchor listing of the
// generated pages, consumed by the client-side archive script.
func (h *PageHandler) ArticleIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(filepath.Join(h.outputDir, "articles"))
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".html") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var items strings.Builder
	for _, name := range names {
		escaped := content.EscapeHTML(name)
		fmt.Fprintf(&items, "<li><a href=\"%s\">%s</a></li>\n", escaped, escaped)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html><html><head><meta charset="utf-8"><title>Articles</title></head><body><ul>%s</ul></body></html>`, items.String())
}

func (h *PageHandler) serveHTML(ctx context.Context, w http.ResponseWriter, r *http.Request, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logRequest(ctx, "debug", "Static page missing", zap.String("path", path))
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	html := string(data)
	if strings.Contains(html, authLinksPlaceholder) {
		sess, ok := currentSession(r, h.sessions)
		html = strings.Replace(html, authLinksPlaceholder, authLinksHTML(sess, ok), 1)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func authLinksHTML(sess auth.Session, loggedIn bool) string {
	if loggedIn {
		return fmt.Sprintf(`
            <span class="auth-user">Hi, %s</span>
            <a href="/admin" class="auth-link">⚙️ 管理后台</a>
            <a href="/logout" class="auth-link">退出</a>
        `, content.EscapeHTML(sess.Username))
	}
	return `
            <a href="/login" class="auth-link">登录</a>
            <a href="/register" class="auth-link">注册</a>
        `
}
