package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Page names.
const (
	pageHome         = "home.html"
	pageRequireLogin = "require_login.html"
	pageInstruction  = "instruction.html"
	pagePayment      = "payment.html"
	pageResult       = "result.html"
	pageVerifying    = "verifying.html"
	pageWrongContext = "wrong_context.html"
	pageError        = "error.html"
)

var pages = []string{
	pageHome,
	pageRequireLogin,
	pageInstruction,
	pagePayment,
	pageResult,
	pageVerifying,
	pageWrongContext,
	pageError,
}

// vi prints amounts and dates the way the banking app does.
var vi = message.NewPrinter(language.Vietnamese)

// FormatVND formats an amount in đồng, for example "99.000 ₫".
func FormatVND(amount int64) string {
	return vi.Sprintf("%d ₫", amount)
}

func formatAmount(v any) string {
	switch n := v.(type) {
	case int64:
		return FormatVND(n)
	case int:
		return FormatVND(int64(n))
	case *float64:
		if n == nil {
			return "-"
		}
		return FormatVND(int64(math.Round(*n)))
	case float64:
		return FormatVND(int64(math.Round(n)))
	default:
		return fmt.Sprint(v)
	}
}

var saigon = time.FixedZone("ICT", 7*60*60)

func formatTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.In(saigon).Format("15:04:05 02/01/2006")
	case *time.Time:
		if t == nil {
			return "-"
		}
		return t.In(saigon).Format("15:04:05 02/01/2006")
	default:
		return "-"
	}
}

// Views renders the server-side pages.
type Views struct {
	pages map[string]*template.Template
}

// Page is the data shared by every page. Data is page specific.
type Page struct {
	Title string
	Nonce string

	// Bootstrap script settings, rendered as data attributes on <body>.
	TokenKey  string
	Verify    bool
	Listen    bool
	Next      string
	LoginURL  string
	Countdown int

	Verified bool
	Fullname string
	Message  string

	Data any
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	fsys, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"vnd":  formatAmount,
		"time": formatTime,
	}

	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render writes a page. Pages are never cached since they reflect the tab's
// session.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	t, ok := v.pages[name]
	if !ok {
		slogx.FromContext(r.Context()).Error("unknown page", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if p.Nonce == "" {
		p.Nonce = httpx.NonceFromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		slogx.FromContext(r.Context()).Error("render page", "page", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
