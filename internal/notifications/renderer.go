package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Kind selects a notification template.
type Kind string

const (
	KindWelcome         Kind = "welcome"
	KindPaymentPaid     Kind = "payment_paid"
	KindPaymentRejected Kind = "payment_rejected"
)

var kinds = []Kind{KindWelcome, KindPaymentPaid, KindPaymentRejected}

// TemplateData is the input of every template. Fields a kind does not use
// are left empty.
type TemplateData struct {
	Name   string
	Amount int64
	Period string
	Method domain.PaymentMethod
	Note   string
	PaidAt *time.Time
}

// Renderer renders notifications from templates.
type Renderer struct {
	templates map[Kind]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":      titleCase,
		"rupiah":     formatRupiah,
		"period":     formatPeriod,
		"method":     formatMethod,
		"formatTime": formatTime,
	}

	r := &Renderer{templates: make(map[Kind]*template.Template, len(kinds))}

	for _, kind := range kinds {
		filename := fmt.Sprintf("templates/%s.tmpl", kind)
		tmpl, err := template.New(string(kind)).Funcs(funcMap).ParseFS(templatesFS, filename)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", filename, err)
		}
		for _, block := range []string{"title", "message"} {
			if tmpl.Lookup(block) == nil {
				return nil, fmt.Errorf("template %s: missing %q block", filename, block)
			}
		}
		r.templates[kind] = tmpl
	}

	return r, nil
}

// Render returns the title and message for kind.
func (r *Renderer) Render(kind Kind, data TemplateData) (title, msg string, err error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return "", "", fmt.Errorf("template not found: %s", kind)
	}

	title, err = execute(tmpl, "title", data)
	if err != nil {
		return "", "", err
	}
	msg, err = execute(tmpl, "message", data)
	if err != nil {
		return "", "", err
	}
	return title, msg, nil
}

func execute(tmpl *template.Template, block string, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return "", fmt.Errorf("execute template %s/%s: %w", tmpl.Name(), block, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Template functions

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// titleCase builds a Caser per call: a cases.Caser keeps state between
// calls and cannot be shared by concurrent renders.
func titleCase(s string) string {
	return cases.Title(language.Indonesian).String(s)
}

// formatRupiah renders 1500000 as "Rp1.500.000".
func formatRupiah(amount int64) string {
	return "Rp" + rupiahPrinter.Sprintf("%d", amount)
}

// formatPeriod renders "2026-03" as "March 2026". Unparseable input is
// returned unchanged.
func formatPeriod(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return period
	}
	return t.Format("January 2006")
}

func formatMethod(m domain.PaymentMethod) string {
	if m == domain.PaymentMethodEwallet {
		return "e-wallet"
	}
	return string(m)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}
