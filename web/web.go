// Package web provides the embedded web UI for the lexer.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// recentLimit caps the scans shown on the dashboard.
const recentLimit = 20

// Handler serves the web UI pages.
type Handler struct {
	store   *store.Store
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Data      interface{}
}

// New creates a new web UI handler.
func New(s *store.Store) *Handler {
	return &Handler{
		store: s,
		funcMap: template.FuncMap{
			"scanID":     scanID,
			"timeAgo":    timeAgo,
			"stateClass": stateClass,
			"truncate":   truncate,
			"visible":    visible,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data interface{}) error {
	// Parse templates fresh each time for the page-specific template
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		NavActive: navActive,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.dashboard)
	app.Post("/ui/scans", h.submitScan)
	app.Get("/ui/scans/:scan", h.scanDetail)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type dashboardContent struct {
	Scans          []*store.Scan
	SucceededCount int
	FailedCount    int
}

type scanDetailContent struct {
	Scan  *store.Scan
	Trace []traceRow
}

type traceRow struct {
	Pos    int
	Char   string
	From   string
	To     string
	Failed bool
}

// --- Handlers ---

func (h *Handler) dashboard(c *fiber.Ctx) error {
	scans := h.store.List()
	if len(scans) > recentLimit {
		scans = scans[:recentLimit]
	}
	ok, failed := h.store.Counts()
	return h.render(c, "dashboard.html", "dashboard", dashboardContent{
		Scans:          scans,
		SucceededCount: ok,
		FailedCount:    failed,
	})
}

func (h *Handler) submitScan(c *fiber.Ctx) error {
	input := c.FormValue("input")
	tokens, err := lexer.Scan(input)
	sc := h.store.Record(input, tokens, err)
	return c.Redirect("/ui/scans/"+scanID(sc.Name), fiber.StatusSeeOther)
}

func (h *Handler) scanDetail(c *fiber.Ctx) error {
	sc, err := h.store.Get("scans/" + c.Params("scan"))
	if err != nil {
		return c.Status(404).SendString("Scan not found")
	}

	steps, _ := lexer.Trace(sc.Input)
	rows := make([]traceRow, len(steps))
	for i, st := range steps {
		rows[i] = traceRow{
			Pos:    st.Pos,
			Char:   visible(string(st.Char)),
			From:   st.From.String(),
			To:     st.To.String(),
			Failed: st.To == lexer.StateError,
		}
	}
	return h.render(c, "scan.html", "scans", scanDetailContent{Scan: sc, Trace: rows})
}

// --- Template Functions ---

func scanID(name string) string {
	return strings.TrimPrefix(name, "scans/")
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2, 15:04")
	}
}

func stateClass(state store.ScanState) string {
	switch state {
	case store.ScanSucceeded:
		return "state-succeeded"
	case store.ScanFailed:
		return "state-failed"
	default:
		return ""
	}
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// visible makes whitespace characters readable in HTML output.
func visible(s string) string {
	r := strings.NewReplacer(" ", "␠", "\t", "\\t", "\n", "\\n", "\r", "\\r")
	return r.Replace(s)
}
