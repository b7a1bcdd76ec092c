package postprocess

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NoticeColor is the forced colour of one notice kind.
type NoticeColor struct {
	Kind  string // class next to "message"
	Color string
}

// TextColor is forced on every notice and on its header and body.
const TextColor = "#ffffff"

// NoticePalette lists the notice kinds in matching order.
var NoticePalette = []NoticeColor{
	{Kind: "danger", Color: "#ff0000"},
	{Kind: "warning", Color: "#ff8c00"},
	{Kind: "info", Color: "#0070d1"},
}

// WarningColorRule inlines background, border and text colours on notice
// blocks so they stay legible where the stylesheet is not applied.
type WarningColorRule struct {
	palette []NoticeColor
}

func NewWarningColorRule() *WarningColorRule {
	return &WarningColorRule{palette: NoticePalette}
}

func (r *WarningColorRule) Name() string { return "warning_color" }

func (r *WarningColorRule) Apply(root *goquery.Selection) bool {
	changed := false

	root.Find(".message").Each(func(_ int, s *goquery.Selection) {
		for _, c := range r.palette {
			if !s.HasClass(c.Kind) {
				continue
			}
			if applyStyle(s,
				declaration{property: "background-color", value: c.Color},
				declaration{property: "border-color", value: c.Color},
				declaration{property: "color", value: TextColor},
			) {
				changed = true
			}
			return
		}
	})

	root.Find(".message-header, .message-body").Each(func(_ int, s *goquery.Selection) {
		if applyStyle(s, declaration{property: "color", value: TextColor}) {
			changed = true
		}
	})

	return changed
}

// applyStyle sets declarations on the element's style attribute and reports
// whether the attribute text changed. A style the parser rejects is kept as
// written and the declarations are appended after it.
func applyStyle(s *goquery.Selection, set ...declaration) bool {
	current, _ := s.Attr("style")

	var next string
	decls, err := parseStyle(current)
	if err != nil {
		suffix := formatStyle(set)
		if strings.HasSuffix(current, suffix) {
			return false
		}
		next = strings.TrimRight(strings.TrimSpace(current), ";") + ";" + suffix
	} else {
		next = formatStyle(setStyle(decls, set...))
	}

	if next == current {
		return false
	}
	s.SetAttr("style", next)
	return true
}
