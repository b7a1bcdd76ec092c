package manual

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedContent is returned when a stored payload is not a JSON object.
var ErrMalformedContent = errors.New("malformed module content")

// Content is the decoded payload of a content module: one variant per
// module type family. Every variant keeps the full original object in
// Fields so keys it does not interpret survive a decode/encode cycle.
type Content interface {
	Kind() ModuleType
	fields() Fields
}

// TextContent is the payload of a text module. Text holds rich HTML.
type TextContent struct {
	Type   ModuleType
	Fields Fields
	Text   string
}

// MediaContent covers image, video, pdf and file modules.
type MediaContent struct {
	Type    ModuleType
	Fields  Fields
	Caption string
	Title   string
	Alt     *string // nil = key absent
}

// NoticeContent covers the warning family.
type NoticeContent struct {
	Type        ModuleType
	Fields      Fields
	Title       string
	Message     string
	Description string
}

type TableContent struct {
	Type    ModuleType
	Fields  Fields
	Caption string
	Headers []string   // nil = key absent
	Rows    [][]string // nil = key absent
}

type ChecklistContent struct {
	Type   ModuleType
	Fields Fields
	Title  string
	Items  []ChecklistItem // nil = key absent
}

// ChecklistItem keeps the item's other keys (id, checked) alongside its text.
type ChecklistItem struct {
	Fields Fields
	Text   string
}

type LinkContent struct {
	Type        ModuleType
	Fields      Fields
	Text        string
	Description string
}

// BomContent configures the BOM table of a section. The three dictionaries
// are keyed by arbitrary strings; a nil map means the key was absent.
type BomContent struct {
	Type         ModuleType
	Fields       Fields
	Title        string
	Headers      map[string]string
	Descriptions map[string]string
	Messages     map[string]string
}

// OpaqueContent is any type whose payload is not interpreted field by field.
type OpaqueContent struct {
	Type   ModuleType
	Fields Fields
	Raw    json.RawMessage
}

func (c *TextContent) Kind() ModuleType      { return c.Type }
func (c *MediaContent) Kind() ModuleType     { return c.Type }
func (c *NoticeContent) Kind() ModuleType    { return c.Type }
func (c *TableContent) Kind() ModuleType     { return c.Type }
func (c *ChecklistContent) Kind() ModuleType { return c.Type }
func (c *LinkContent) Kind() ModuleType      { return c.Type }
func (c *BomContent) Kind() ModuleType       { return c.Type }
func (c *OpaqueContent) Kind() ModuleType    { return c.Type }

func (c *TextContent) fields() Fields      { return c.Fields }
func (c *MediaContent) fields() Fields     { return c.Fields }
func (c *NoticeContent) fields() Fields    { return c.Fields }
func (c *TableContent) fields() Fields     { return c.Fields }
func (c *ChecklistContent) fields() Fields { return c.Fields }
func (c *LinkContent) fields() Fields      { return c.Fields }
func (c *BomContent) fields() Fields       { return c.Fields }
func (c *OpaqueContent) fields() Fields    { return c.Fields }

// FieldsOf exposes the original object behind any variant.
func FieldsOf(c Content) Fields {
	if c == nil {
		return Fields{}
	}
	return c.fields()
}

// ParseContent decodes a stored payload into the variant for t.
// An empty or null payload decodes as an empty object.
func ParseContent(t ModuleType, raw json.RawMessage) (Content, error) {
	f, err := ParseFields(raw)
	if err != nil {
		return nil, err
	}

	switch {
	case t == ModuleText:
		return &TextContent{Type: t, Fields: f, Text: f.String("text")}, nil
	case t.IsMedia():
		return &MediaContent{Type: t, Fields: f, Caption: f.String("caption"), Title: f.String("title"), Alt: f.OptionalString("alt")}, nil
	case t.IsNotice():
		return &NoticeContent{Type: t, Fields: f, Title: f.String("title"), Message: f.String("message"), Description: f.String("description")}, nil
	case t == ModuleTable:
		return &TableContent{Type: t, Fields: f, Caption: f.String("caption"), Headers: f.Strings("headers"), Rows: f.Matrix("rows")}, nil
	case t == ModuleChecklist:
		c := &ChecklistContent{Type: t, Fields: f, Title: f.String("title")}
		if objs := f.Objects("items"); objs != nil {
			c.Items = make([]ChecklistItem, len(objs))
			for i, obj := range objs {
				c.Items[i] = ChecklistItem{Fields: obj, Text: obj.String("text")}
			}
		}
		return c, nil
	case t == ModuleLink:
		return &LinkContent{Type: t, Fields: f, Text: f.String("text"), Description: f.String("description")}, nil
	case t == ModuleBOM:
		return &BomContent{
			Type:         t,
			Fields:       f,
			Title:        f.String("title"),
			Headers:      f.StringMap("headers"),
			Descriptions: f.StringMap("descriptions"),
			Messages:     f.StringMap("messages"),
		}, nil
	default:
		return &OpaqueContent{Type: t, Fields: f, Raw: normalizeRaw(raw)}, nil
	}
}

// MarshalContent encodes a variant back to JSON, writing its interpreted
// keys over the original object.
func MarshalContent(c Content) (json.RawMessage, error) {
	switch v := c.(type) {
	case *OpaqueContent:
		return normalizeRaw(v.Raw), nil
	case *TextContent:
		return v.Fields.with(map[string]any{"text": v.Text})
	case *MediaContent:
		set := map[string]any{"caption": v.Caption, "title": v.Title}
		if v.Alt != nil {
			set["alt"] = *v.Alt
		}
		return v.Fields.with(set)
	case *NoticeContent:
		return v.Fields.with(map[string]any{"title": v.Title, "message": v.Message, "description": v.Description})
	case *TableContent:
		set := map[string]any{"caption": v.Caption}
		if v.Headers != nil {
			set["headers"] = v.Headers
		}
		if v.Rows != nil {
			set["rows"] = v.Rows
		}
		return v.Fields.with(set)
	case *ChecklistContent:
		set := map[string]any{"title": v.Title}
		if v.Items != nil {
			items := make([]json.RawMessage, len(v.Items))
			for i, item := range v.Items {
				encoded, err := item.Fields.with(map[string]any{"text": item.Text})
				if err != nil {
					return nil, err
				}
				items[i] = encoded
			}
			set["items"] = items
		}
		return v.Fields.with(set)
	case *LinkContent:
		return v.Fields.with(map[string]any{"text": v.Text, "description": v.Description})
	case *BomContent:
		set := map[string]any{"title": v.Title}
		if v.Headers != nil {
			set["headers"] = v.Headers
		}
		if v.Descriptions != nil {
			set["descriptions"] = v.Descriptions
		}
		if v.Messages != nil {
			set["messages"] = v.Messages
		}
		return v.Fields.with(set)
	case nil:
		return nil, fmt.Errorf("%w: nil content", ErrMalformedContent)
	default:
		return nil, fmt.Errorf("%w: unsupported variant %T", ErrMalformedContent, c)
	}
}

// Fields is a JSON object decoded one level deep.
type Fields map[string]json.RawMessage

// ParseFields decodes raw as a JSON object.
func ParseFields(raw json.RawMessage) (Fields, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Fields{}, nil
	}
	var f Fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	if f == nil {
		return Fields{}, nil
	}
	return f, nil
}

// Has reports whether key is present, even with a null value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the text of key; absent, null and composite values give "".
func (f Fields) String(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	return rawText(raw)
}

// OptionalString is String but nil when the key is absent or null.
func (f Fields) OptionalString(key string) *string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	s := rawText(raw)
	return &s
}

// Strings returns key as a list of texts, nil when absent or not an array.
func (f Fields) Strings(key string) []string {
	items, ok := f.array(key)
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = rawText(item)
	}
	return out
}

// Matrix returns key as rows of texts, nil when absent or not an array.
// A row that is not an array becomes an empty row.
func (f Fields) Matrix(key string) [][]string {
	rows, ok := f.array(key)
	if !ok {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		var cells []json.RawMessage
		if err := json.Unmarshal(row, &cells); err != nil {
			out[i] = []string{}
			continue
		}
		out[i] = make([]string, len(cells))
		for j, cell := range cells {
			out[i][j] = rawText(cell)
		}
	}
	return out
}

// StringMap returns key as a dictionary of texts, nil when absent or not an object.
func (f Fields) StringMap(key string) map[string]string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = rawText(v)
	}
	return out
}

// Objects returns key as a list of objects, nil when absent or not an array.
// Elements that are not objects become empty objects.
func (f Fields) Objects(key string) []Fields {
	items, ok := f.array(key)
	if !ok {
		return nil
	}
	out := make([]Fields, len(items))
	for i, item := range items {
		obj, err := ParseFields(item)
		if err != nil {
			obj = Fields{}
		}
		out[i] = obj
	}
	return out
}

func (f Fields) array(key string) ([]json.RawMessage, bool) {
	raw, ok := f[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// with returns f encoded with the given keys overwritten.
func (f Fields) with(set map[string]any) (json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(f)+len(set))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range set {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = encoded
	}
	return json.Marshal(out)
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		return string(trimmed)
	case 'n', '{', '[':
		return ""
	default:
		if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
			return ""
		}
		return string(trimmed)
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func normalizeRaw(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return append(json.RawMessage(nil), trimmed...)
}
