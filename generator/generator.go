package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"diary-service/content"
	"diary-service/models"
)

const (
	articleTemplateFile = "article_template.html"
	indexTemplateFile   = "index_sidebar_template.html"
	articlesSubDir      = "articles"
	homeFile            = "home.html"
)

// colorClasses are cycled over the home-page cards in listing order.
var colorClasses = []string{"card--blue", "card--teal", "card--rust", "card--moss", "card--gold", "card--sky"}

// ArticleLister is the slice of the article store the generator needs.
type ArticleLister interface {
	ListAll() ([]models.Article, error)
}

// Generator rebuilds the whole static site from the current article set: one
// page per article plus the home page with the grid and the year/month
// sidebar. Rebuilds are full and idempotent; each output file is written to a
// temp name and renamed into place so a failed run leaves earlier output
// untouched.
type Generator struct {
	articles     ArticleLister
	templatesDir string
	outputDir    string
}

// New creates a generator reading templates from templatesDir and writing
// the site under outputDir.
func New(articles ArticleLister, templatesDir, outputDir string) *Generator {
	return &Generator{
		articles:     articles,
		templatesDir: templatesDir,
		outputDir:    outputDir,
	}
}

// Rebuild regenerates every article page and the home page.
func (g *Generator) Rebuild() error {
	articleTemplate, err := os.ReadFile(filepath.Join(g.templatesDir, articleTemplateFile))
	if err != nil {
		return fmt.Errorf("read article template: %w", err)
	}
	indexTemplate, err := os.ReadFile(filepath.Join(g.templatesDir, indexTemplateFile))
	if err != nil {
		return fmt.Errorf("read index template: %w", err)
	}

	items, err := g.articles.ListAll()
	if err != nil {
		return fmt.Errorf("list articles: %w", err)
	}

	articlesDir := filepath.Join(g.outputDir, articlesSubDir)
	if err := os.MkdirAll(articlesDir, 0o755); err != nil {
		return fmt.Errorf("create articles dir: %w", err)
	}

	logger.Info("Regenerating site", zap.Int("articles", len(items)))

	var grid strings.Builder
	timeline := map[string]map[string]bool{}

	for i, item := range items {
		pubDate := parsePubDate(item.PubDate)
		year := pubDate.Format("2006")
		month := pubDate.Format("01")
		dateStr := pubDate.Format("2006.01.02")

		if timeline[year] == nil {
			timeline[year] = map[string]bool{}
		}
		timeline[year][month] = true

		var prev, next *models.Article
		if i > 0 {
			prev = &items[i-1]
		}
		if i < len(items)-1 {
			next = &items[i+1]
		}

		page := renderArticlePage(string(articleTemplate), &item, dateStr, prev, next)
		path := filepath.Join(articlesDir, item.Slug+".html")
		if err := writeFileAtomic(path, []byte(page)); err != nil {
			return fmt.Errorf("write article page %s: %w", item.Slug, err)
		}

		grid.WriteString(renderCard(&item, i, year, month, dateStr))
	}

	home := strings.Replace(string(indexTemplate), "{{SIDEBAR_CONTENT}}", renderSidebar(timeline), 1)
	home = strings.Replace(home, "{{GRID_CONTENT}}", grid.String(), 1)
	home = strings.Replace(home, "</body>", audioPlayerHTML, 1)

	if err := writeFileAtomic(filepath.Join(g.outputDir, homeFile), []byte(home)); err != nil {
		return fmt.Errorf("write home page: %w", err)
	}

	logger.Info("Site regenerated", zap.Int("pages", len(items)+1))
	return nil
}

// renderArticlePage substitutes the article template placeholders. Title is
// escaped; content is the admin's own rich HTML and renders verbatim after
// post-processing.
func renderArticlePage(tmpl string, item *models.Article, dateStr string, prev, next *models.Article) string {
	prevHTML := `<span class="empty"></span>`
	if prev != nil {
		prevHTML = fmt.Sprintf(`<a class="prev-link" href="%s.html">← %s</a>`,
			content.EscapeHTML(prev.Slug), content.EscapeHTML(prev.Title))
	}
	nextHTML := `<span class="empty"></span>`
	if next != nil {
		nextHTML = fmt.Sprintf(`<a class="next-link" href="%s.html">%s →</a>`,
			content.EscapeHTML(next.Slug), content.EscapeHTML(next.Title))
	}

	// Article pages live one level below home.
	page := strings.Replace(tmpl, `href="index.html"`, `href="../home.html"`, 1)
	page = strings.ReplaceAll(page, "{{TITLE}}", content.EscapeHTML(item.Title))
	page = strings.ReplaceAll(page, "{{DATE}}", dateStr)
	page = strings.ReplaceAll(page, "{{CONTENT}}", content.ProcessArticleHTML(item.Content))
	page = strings.ReplaceAll(page, "{{PREV_LINK}}", prevHTML)
	page = strings.ReplaceAll(page, "{{NEXT_LINK}}", nextHTML)
	return page
}

func renderCard(item *models.Article, index int, year, month, dateStr string) string {
	link := articlesSubDir + "/" + item.Slug + ".html"
	color := colorClasses[index%len(colorClasses)]
	return fmt.Sprintf(`
    <div class="diary-card %s reveal"
         data-year="%s"
         data-month="%s"
         onclick="window.location.href='%s'">
      <span class="card-tag">日志</span>
      <div class="card-date">%s</div>
      <h3 class="card-title">%s</h3>
      <p class="card-text">%s</p>
      <div class="card-watercolor"></div>
    </div>
`, color, year, month, content.EscapeHTML(link), dateStr,
		content.EscapeHTML(item.Title), content.EscapeHTML(content.CleanExcerpt(item.Excerpt)))
}

// renderSidebar groups the distinct (year, month) pairs present across all
// articles, both sorted descending, for the client-side timeline filter.
func renderSidebar(timeline map[string]map[string]bool) string {
	years := make([]string, 0, len(timeline))
	for year := range timeline {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	var sidebar strings.Builder
	for _, year := range years {
		months := make([]string, 0, len(timeline[year]))
		for month := range timeline[year] {
			months = append(months, month)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(months)))

		var monthsHTML strings.Builder
		for _, m := range months {
			fmt.Fprintf(&monthsHTML, `<li class="month-item" onclick="filterByMonth('%s', '%s', this)">%s月</li>`, year, m, m)
		}

		fmt.Fprintf(&sidebar, `
    <li class="year-item">
      <span class="year-label" onclick="filterByYear('%s', this)">%s</span>
      <ul class="month-list">
        %s
      </ul>
    </li>`, year, year, monthsHTML.String())
	}
	return sidebar.String()
}

// parsePubDate accepts the stored ISO timestamp, falling back to a bare date
// for rows imported from older dumps.
func parsePubDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// writeFileAtomic writes data next to path under a unique temp name and
// renames it into place, so readers and prior output never see a partial
// file.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
