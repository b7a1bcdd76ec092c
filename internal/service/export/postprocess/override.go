package postprocess

import (
	"embed"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

//go:embed config/overrides.yaml
var configFiles embed.FS

// SectionOverride fixes the component table of the sections it matches.
type SectionOverride struct {
	Name         string              `yaml:"name"`
	SectionIDs   []int64             `yaml:"section_ids"`
	TitleMarkers []string            `yaml:"title_markers"`
	Headers      OverrideHeaders     `yaml:"headers"`
	Components   []OverrideComponent `yaml:"components"`
}

type OverrideHeaders struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
	Level       string `yaml:"level"`
}

type OverrideComponent struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Quantity    int    `yaml:"quantity"`
	Level       int    `yaml:"level"`
}

type overrideFile struct {
	Overrides []SectionOverride `yaml:"overrides"`
}

// LoadOverrides reads the overrides embedded in the binary
func LoadOverrides() ([]SectionOverride, error) {
	data, err := configFiles.ReadFile("config/overrides.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes an overrides YAML document
func ParseOverrides(data []byte) ([]SectionOverride, error) {
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overrides: %w", err)
	}
	for i, o := range file.Overrides {
		if o.Name == "" {
			return nil, fmt.Errorf("override %d: name is required", i)
		}
		if len(o.SectionIDs) == 0 && len(o.TitleMarkers) == 0 {
			return nil, fmt.Errorf("override %s: needs section_ids or title_markers", o.Name)
		}
	}
	return file.Overrides, nil
}

// Matches reports whether a section with this id or title is overridden.
func (o *SectionOverride) Matches(id int64, hasID bool, title string) bool {
	if hasID {
		for _, want := range o.SectionIDs {
			if id == want {
				return true
			}
		}
	}
	lower := strings.ToLower(title)
	for _, marker := range o.TitleMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// TableHTML renders the replacement table.
func (o *SectionOverride) TableHTML() string {
	var b strings.Builder
	b.WriteString(`<table class="bom-table" data-override="`)
	b.WriteString(html.EscapeString(o.Name))
	b.WriteString(`"><thead><tr>`)
	for _, h := range []string{o.Headers.Code, o.Headers.Description, o.Headers.Quantity, o.Headers.Level} {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, c := range o.Components {
		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(c.Code))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(c.Description))
		b.WriteString("</td><td>")
		b.WriteString(strconv.Itoa(c.Quantity))
		b.WriteString("</td><td>")
		b.WriteString(strconv.Itoa(c.Level))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// SectionOverrideRule replaces the BOM table of matching sections with a
// fixed one, or appends it when the section has none.
type SectionOverrideRule struct {
	override SectionOverride
}

func NewSectionOverrideRule(o SectionOverride) *SectionOverrideRule {
	return &SectionOverrideRule{override: o}
}

func (r *SectionOverrideRule) Name() string { return "section_override:" + r.override.Name }

const headingSelector = "h1, h2, h3, h4, h5, h6"

func (r *SectionOverrideRule) Apply(root *goquery.Selection) bool {
	changed := false

	// Rendered section blocks
	root.Find("[data-section-id]").Each(func(_ int, block *goquery.Selection) {
		idAttr, _ := block.Attr("data-section-id")
		id, err := strconv.ParseInt(strings.TrimSpace(idAttr), 10, 64)
		title := blockTitle(block)
		if !r.override.Matches(id, err == nil, title) {
			return
		}
		own := block.Find("table.bom-table").FilterFunction(func(_ int, t *goquery.Selection) bool {
			return t.Closest("[data-section-id]").IsSelection(block)
		})
		if r.place(block, own) {
			changed = true
		}
	})

	// Headings outside any section block, e.g. hand-edited fragments
	root.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		if heading.Closest("[data-section-id]").Length() > 0 {
			return
		}
		if !r.override.Matches(0, false, heading.Text()) {
			return
		}
		parent := heading.Parent()
		own := parent.Find("table.bom-table").FilterFunction(func(_ int, t *goquery.Selection) bool {
			return t.Closest("[data-section-id]").Length() == 0
		})
		if r.place(parent, own) {
			changed = true
		}
	})

	return changed
}

// place puts the override table in block: the first existing table is
// replaced and any others removed; with none, the table is appended.
func (r *SectionOverrideRule) place(block, tables *goquery.Selection) bool {
	if tables.Length() == 1 {
		if name, ok := tables.Attr("data-override"); ok && name == r.override.Name {
			return false
		}
	}
	if tables.Length() == 0 {
		block.AppendHtml(r.override.TableHTML())
		return true
	}
	tables.Slice(1, tables.Length()).Remove()
	tables.First().ReplaceWithHtml(r.override.TableHTML())
	return true
}

// blockTitle is the text of the block's own heading.
func blockTitle(block *goquery.Selection) string {
	heading := block.ChildrenFiltered(".section-title").First()
	if heading.Length() == 0 {
		heading = block.ChildrenFiltered(headingSelector).First()
	}
	return heading.Text()
}
