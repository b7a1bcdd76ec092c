package export

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"

	models "manuals/internal/domain/models/manual"
	"manuals/internal/service/export/sanitizer"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Renderer turns a resolved document into the HTML fragment that the
// post-processor and packager work on. Top-level sections use <h2>; the
// packager owns the document title.
type Renderer struct {
	tmpl      *template.Template
	sanitizer *sanitizer.HTMLSanitizer
	logger    *slog.Logger
}

// NewRenderer parses the embedded templates
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("fragment").Funcs(template.FuncMap{
		"headingOpen": func(level int) template.HTML {
			return template.HTML(fmt.Sprintf(`<h%d class="section-title">`, level))
		},
		"headingClose": func(level int) template.HTML {
			return template.HTML(fmt.Sprintf(`</h%d>`, level))
		},
	}).ParseFS(templateFiles, "templates/fragment.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse export templates: %w", err)
	}
	return &Renderer{
		tmpl:      tmpl,
		sanitizer: sanitizer.NewHTMLSanitizer(),
		logger:    logger,
	}, nil
}

// Render builds the section tree of doc and renders it. components holds the
// section component links by section id; they feed bom and component modules.
func (r *Renderer) Render(doc *ResolvedDocument, components map[int64][]models.SectionComponent) (string, error) {
	tree := models.NewDocumentTree(doc.Document, doc.Sections, doc.Modules, components)

	views := make([]sectionView, 0, len(tree.Sections))
	for _, node := range tree.Sections {
		views = append(views, r.sectionView(node, 0))
	}

	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, "fragment", views); err != nil {
		return "", fmt.Errorf("failed to render document %d: %w", doc.Document.ID, err)
	}
	return sb.String(), nil
}

type sectionView struct {
	ID          int64
	Heading     int
	Title       string
	Description string
	Modules     []moduleView
	Children    []sectionView
}

type moduleView struct {
	Kind string
	Data any
}

type textView struct{ HTML template.HTML }

type mediaView struct {
	URL     string
	Alt     string
	Title   string
	Caption string
}

type noticeView struct {
	Class       string
	Title       string
	Message     string
	Description string
}

type tableView struct {
	Caption string
	Headers []string
	Rows    [][]string
}

type checklistView struct {
	Title string
	Items []checklistItemView
}

type checklistItemView struct {
	Text    string
	Checked bool
}

type linkView struct {
	URL         string
	Text        string
	Description string
}

type bomHeaders struct {
	Code        string
	Description string
	Quantity    string
	Level       string
}

type bomRow struct {
	Code        string
	Description string
	Quantity    int
	Level       int
}

type bomView struct {
	Title   string
	Headers bomHeaders
	Rows    []bomRow
	Empty   string
	Notes   []string
}

func (r *Renderer) sectionView(node *models.SectionNode, depth int) sectionView {
	heading := depth + 2
	if heading > 6 {
		heading = 6
	}
	view := sectionView{
		ID:          node.ID,
		Heading:     heading,
		Title:       node.Title,
		Description: node.Description,
	}
	for _, m := range node.Modules {
		if mv, ok := r.moduleView(m, node.Components); ok {
			view.Modules = append(view.Modules, mv)
		}
	}
	for _, child := range node.Children {
		view.Children = append(view.Children, r.sectionView(child, depth+1))
	}
	return view
}

// moduleView maps one module to its template. Unknown types and payloads
// that cannot be decoded render nothing.
func (r *Renderer) moduleView(m models.ContentModule, components []models.SectionComponent) (moduleView, bool) {
	content, err := models.ParseContent(m.Type, m.Content)
	if err != nil {
		r.logger.Warn("module not rendered", "module_id", m.ID, "type", m.Type, "error", err)
		return moduleView{}, false
	}
	fields := models.FieldsOf(content)

	switch c := content.(type) {
	case *models.TextContent:
		return moduleView{Kind: "text", Data: textView{HTML: template.HTML(r.sanitizer.Sanitize(c.Text))}}, true

	case *models.MediaContent:
		view := mediaView{URL: firstString(fields, "url", "src"), Title: c.Title, Caption: c.Caption}
		if c.Alt != nil {
			view.Alt = *c.Alt
		}
		switch c.Type {
		case models.ModuleImage:
			return moduleView{Kind: "image", Data: view}, true
		case models.ModuleVideo:
			return moduleView{Kind: "video", Data: view}, true
		default:
			return moduleView{Kind: "document", Data: view}, true
		}

	case *models.NoticeContent:
		return moduleView{Kind: "notice", Data: noticeView{
			Class:       NoticeClass(c.Type),
			Title:       c.Title,
			Message:     c.Message,
			Description: c.Description,
		}}, true

	case *models.TableContent:
		return moduleView{Kind: "table", Data: tableView{Caption: c.Caption, Headers: c.Headers, Rows: c.Rows}}, true

	case *models.ChecklistContent:
		view := checklistView{Title: c.Title}
		for _, item := range c.Items {
			view.Items = append(view.Items, checklistItemView{Text: item.Text, Checked: item.Fields.String("checked") == "true"})
		}
		return moduleView{Kind: "checklist", Data: view}, true

	case *models.LinkContent:
		return moduleView{Kind: "link", Data: linkView{URL: fields.String("url"), Text: c.Text, Description: c.Description}}, true

	case *models.BomContent:
		return moduleView{Kind: "bom", Data: bomTable(c, components)}, true
	}

	switch m.Type {
	case models.ModuleComponent:
		// A component module shows one attached part, or all of them without a code
		bom := &models.BomContent{
			Title:   fields.String("title"),
			Headers: fields.StringMap("headers"),
		}
		if code := fields.String("code"); code != "" {
			filtered := make([]models.SectionComponent, 0, 1)
			for _, sc := range components {
				if sc.Component.Code == code {
					filtered = append(filtered, sc)
				}
			}
			components = filtered
		}
		return moduleView{Kind: "bom", Data: bomTable(bom, components)}, true

	case models.Module3DModel:
		return moduleView{Kind: "model", Data: mediaView{
			URL:     firstString(fields, "url", "modelUrl", "src"),
			Title:   fields.String("title"),
			Caption: fields.String("caption"),
		}}, true
	}

	return moduleView{}, false
}

// NoticeClass maps a warning-family module type to its message class.
func NoticeClass(t models.ModuleType) string {
	switch t {
	case models.ModuleDanger:
		return "danger"
	case models.ModuleNote:
		return "info"
	default:
		return "warning"
	}
}

// bomTable lists the section's components using the module's labels. A
// non-empty entry in descriptions replaces the catalogue description of that code.
func bomTable(c *models.BomContent, components []models.SectionComponent) bomView {
	view := bomView{
		Title: c.Title,
		Headers: bomHeaders{
			Code:        labelOr(c.Headers, "code", "Code"),
			Description: labelOr(c.Headers, "description", "Description"),
			Quantity:    labelOr(c.Headers, "quantity", "Qty"),
			Level:       labelOr(c.Headers, "level", "Level"),
		},
	}

	for _, sc := range components {
		desc := sc.Component.Description
		if d := c.Descriptions[sc.Component.Code]; d != "" {
			desc = d
		}
		view.Rows = append(view.Rows, bomRow{
			Code:        sc.Component.Code,
			Description: desc,
			Quantity:    sc.Quantity,
			Level:       sc.Component.Level(),
		})
	}
	sort.SliceStable(view.Rows, func(i, j int) bool { return view.Rows[i].Code < view.Rows[j].Code })

	if len(view.Rows) == 0 {
		view.Empty = c.Messages["empty"]
	}
	keys := make([]string, 0, len(c.Messages))
	for k, v := range c.Messages {
		if k != "empty" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		view.Notes = append(view.Notes, c.Messages[k])
	}

	return view
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return fallback
}

func firstString(f models.Fields, keys ...string) string {
	for _, k := range keys {
		if v := f.String(k); v != "" {
			return v
		}
	}
	return ""
}
