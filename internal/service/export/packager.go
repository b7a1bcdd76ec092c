package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"manuals/internal/service/export/postprocess"
)

const baseStylesheet = `body{font-family:Arial,Helvetica,sans-serif;margin:0;padding:24px;color:#222;line-height:1.5}
.document-header{border-bottom:2px solid #333;margin-bottom:24px}
.document-footer{border-top:1px solid #ccc;margin-top:32px;padding-top:8px;font-size:12px;color:#666}
.section{margin:16px 0}
.section .section{margin-left:16px}
.section-title{margin:16px 0 8px}
.section-description{color:#555}
figure{margin:12px 0}
figure img,figure video{max-width:100%}
figcaption{font-size:13px;color:#555}
table{border-collapse:collapse;width:100%;margin:12px 0}
th,td{border:1px solid #999;padding:4px 8px;text-align:left}
th{background:#eee}
.checklist{list-style:none;padding-left:0}`

// Page is everything the packager needs besides the fragment.
type Page struct {
	Title       string
	Description string
	Version     string
	Lang        string // BCP 47 code, "" for the source language
	Body        string // post-processed fragment
}

// Packager wraps a fragment in a standalone HTML document.
type Packager struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewPackager creates a packager; now stamps the footer and defaults to time.Now
func NewPackager(now func() time.Time) (*Packager, error) {
	if now == nil {
		now = time.Now
	}
	tmpl, err := template.ParseFS(templateFiles, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Packager{tmpl: tmpl, now: now}, nil
}

// Package returns the full HTML document.
func (p *Packager) Package(page Page) (string, error) {
	data := struct {
		Title       string
		Description string
		Version     string
		Lang        string
		Style       template.CSS
		Body        template.HTML
		Generated   string
	}{
		Title:       page.Title,
		Description: page.Description,
		Version:     page.Version,
		Lang:        page.Lang,
		Style:       template.CSS(Stylesheet()),
		Body:        template.HTML(page.Body),
		Generated:   p.now().Format("2006-01-02 15:04"),
	}

	var sb strings.Builder
	if err := p.tmpl.ExecuteTemplate(&sb, "page", data); err != nil {
		return "", fmt.Errorf("failed to package export: %w", err)
	}
	return sb.String(), nil
}

// Stylesheet is the base CSS followed by the notice and BOM rules, built from
// the same palette the post-processor inlines.
func Stylesheet() string {
	var b strings.Builder
	b.WriteString(baseStylesheet)
	b.WriteString("\n.message{border:1px solid;border-radius:4px;margin:12px 0;padding:0}")
	b.WriteString("\n.message-header{font-weight:bold;padding:6px 12px;color:" + postprocess.TextColor + "}")
	b.WriteString("\n.message-body{padding:6px 12px;color:" + postprocess.TextColor + "}")
	for _, c := range postprocess.NoticePalette {
		fmt.Fprintf(&b, "\n.message.%s{background-color:%s;border-color:%s;color:%s}", c.Kind, c.Color, c.Color, postprocess.TextColor)
	}
	b.WriteString("\n.bom-table th{background:#333;color:#fff}")
	b.WriteString("\n.bom-table td:nth-child(3),.bom-table td:nth-child(4){text-align:right}")
	b.WriteString("\n.bom-empty,.bom-note{font-style:italic;color:#555}")
	return b.String()
}

// FileName builds "slug(title)_vVERSION[_LANG].ext".
func FileName(title, version, lang, ext string) string {
	name := Slug(title)
	if name == "" {
		name = "document"
	}
	if v := slugKeep(version, "."); v != "" {
		name += "_v" + v
	}
	if l := slugKeep(lang, ""); l != "" {
		name += "_" + l
	}
	return name + "." + ext
}

// Slug folds diacritics and joins runs of letters and digits with "-".
func Slug(s string) string {
	return slugKeep(s, "")
}

func slugKeep(s, keep string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), strings.ContainsRune(keep, r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
