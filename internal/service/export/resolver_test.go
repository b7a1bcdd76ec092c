package export

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"

	models "manuals/internal/domain/models/manual"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleInput() *ResolveInput {
	return &ResolveInput{
		Document: models.Document{ID: 1, Title: "Manuale", Description: "Descrizione", Version: "1.0", Status: models.DocumentStatusDraft},
		Sections: []models.Section{
			{ID: 10, DocumentID: 1, Title: "Introduzione", Description: "Intro", Order: 0},
			{ID: 11, DocumentID: 1, Title: "2.1 Disegno 3D", Order: 0, ParentID: int64Ptr(10)},
		},
		Modules: map[int64][]models.ContentModule{
			10: {
				{ID: 100, SectionID: 10, Type: models.ModuleText, Content: json.RawMessage(`{"text":"Ciao"}`), Order: 0},
				{ID: 101, SectionID: 10, Type: models.ModuleImage, Content: json.RawMessage(`{"caption":"Foto","alt":"Alt IT","url":"/a.png"}`), Order: 1},
			},
			11: {
				{ID: 110, SectionID: 11, Type: models.ModuleTable, Content: json.RawMessage(`{"caption":"Coppie","headers":["A","B"],"rows":[["1","2"]]}`), Order: 0},
			},
		},
	}
}

func moduleObject(t *testing.T, m models.ContentModule) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(m.Content, &out); err != nil {
		t.Fatalf("module %d content is not an object: %s", m.ID, m.Content)
	}
	return out
}

func TestResolveWithoutLanguageIsIdentity(t *testing.T) {
	in := sampleInput()
	in.Modules[12] = nil
	in.Modules[10] = append(in.Modules[10], models.ContentModule{ID: 102, SectionID: 10, Type: models.ModuleText, Content: json.RawMessage(`{broken`)})

	out := NewResolver(quietLogger()).Resolve(in, nil)

	if !reflect.DeepEqual(out.Document, in.Document) {
		t.Errorf("document changed: %#v", out.Document)
	}
	if !reflect.DeepEqual(out.Sections, in.Sections) {
		t.Errorf("sections changed: %#v", out.Sections)
	}
	if !reflect.DeepEqual(out.Modules, in.Modules) {
		t.Errorf("modules changed: %#v", out.Modules)
	}

	// The result must not alias the input
	out.Modules[10][0].Content[2] = 'X'
	if string(in.Modules[10][0].Content) != `{"text":"Ciao"}` {
		t.Error("resolved modules share content with the input")
	}
}

func TestResolveAlwaysOverwrites(t *testing.T) {
	in := sampleInput()
	in.Translations = models.NewTranslationSet(2,
		&models.DocumentTranslation{DocumentID: 1, Title: strPtr("Manual"), Description: nil, Version: strPtr("1.0-en")},
		[]models.SectionTranslation{
			{SectionID: 10, Title: strPtr(""), Description: strPtr("Intro EN")},
		},
		nil,
	)

	out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))

	if out.Document.Title != "Manual" || out.Document.Description != "" || out.Document.Version != "1.0-en" {
		t.Errorf("document = %+v", out.Document)
	}
	if out.Sections[0].Title != "" || out.Sections[0].Description != "Intro EN" {
		t.Errorf("translated section = %+v", out.Sections[0])
	}
	if out.Sections[1].Title != "" || out.Sections[1].Description != "" {
		t.Errorf("untranslated section should be blank, got %+v", out.Sections[1])
	}
	if got := moduleObject(t, out.Modules[10][0])["text"]; got != "" {
		t.Errorf("untranslated text module = %q, want empty", got)
	}
	// Untouched structure
	if out.Sections[1].ParentID == nil || *out.Sections[1].ParentID != 10 {
		t.Error("parent id lost")
	}
	if in.Document.Title != "Manuale" || in.Sections[0].Title != "Introduzione" {
		t.Error("input mutated")
	}
}

func TestResolveIgnoresOtherLanguage(t *testing.T) {
	in := sampleInput()
	in.Translations = models.NewTranslationSet(3,
		&models.DocumentTranslation{DocumentID: 1, Title: strPtr("Handbuch")},
		nil, nil,
	)

	out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))
	if out.Document.Title != "" {
		t.Errorf("translation of language 3 applied to language 2: %q", out.Document.Title)
	}
}

func TestResolveTableAlignment(t *testing.T) {
	in := sampleInput()
	in.Translations = models.NewTranslationSet(2, nil, nil, []models.ModuleTranslation{
		{ModuleID: 110, Content: json.RawMessage(`{"caption":"Torques","headers":["Alpha"],"rows":[["one","two","three"],["x"]]}`)},
	})

	out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))

	c, err := models.ParseContent(models.ModuleTable, out.Modules[11][0].Content)
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	table := c.(*models.TableContent)
	if table.Caption != "Torques" {
		t.Errorf("caption = %q", table.Caption)
	}
	if !reflect.DeepEqual(table.Headers, []string{"Alpha", ""}) {
		t.Errorf("headers = %q, want [Alpha \"\"]", table.Headers)
	}
	if !reflect.DeepEqual(table.Rows, [][]string{{"one", "two"}}) {
		t.Errorf("rows = %q, want [[one two]]", table.Rows)
	}
}

func TestResolveModuleIsolation(t *testing.T) {
	broken := json.RawMessage(`{"text": "unterminated`)
	in := &ResolveInput{
		Document: models.Document{ID: 1},
		Sections: []models.Section{{ID: 10, DocumentID: 1}},
		Modules: map[int64][]models.ContentModule{
			10: {
				{ID: 1, SectionID: 10, Type: models.ModuleText, Content: json.RawMessage(`{"text":"uno"}`)},
				{ID: 2, SectionID: 10, Type: models.ModuleText, Content: broken},
				{ID: 3, SectionID: 10, Type: models.ModuleText, Content: json.RawMessage(`{"text":"tre"}`)},
			},
		},
		Translations: models.NewTranslationSet(2, nil, nil, []models.ModuleTranslation{
			{ModuleID: 1, Content: json.RawMessage(`{"text":"one"}`)},
			{ModuleID: 2, Content: json.RawMessage(`{"text":"two"}`)},
			{ModuleID: 3, Content: json.RawMessage(`{"text":"three"}`)},
		}),
	}

	out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))
	modules := out.Modules[10]

	if got := moduleObject(t, modules[0])["text"]; got != "one" {
		t.Errorf("module 1 text = %q", got)
	}
	if string(modules[1].Content) != string(broken) {
		t.Errorf("module 2 content = %s, want original bytes", modules[1].Content)
	}
	if got := moduleObject(t, modules[2])["text"]; got != "three" {
		t.Errorf("module 3 text = %q", got)
	}
}

func TestResolveMalformedTranslationKeepsOriginal(t *testing.T) {
	in := sampleInput()
	in.Translations = models.NewTranslationSet(2, nil, nil, []models.ModuleTranslation{
		{ModuleID: 100, Content: json.RawMessage(`not json`)},
	})

	out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))
	if string(out.Modules[10][0].Content) != `{"text":"Ciao"}` {
		t.Errorf("content = %s, want original", out.Modules[10][0].Content)
	}
}

func TestMergeContentByType(t *testing.T) {
	tests := []struct {
		name string
		t    models.ModuleType
		orig string
		tr   string // empty = no translation record
		want map[string]any
	}{
		{
			name: "media keeps alt when translation omits it",
			t:    models.ModuleImage,
			orig: `{"caption":"Foto","title":"T","alt":"Alt IT","url":"/a.png"}`,
			tr:   `{"caption":"Photo"}`,
			want: map[string]any{"caption": "Photo", "title": "", "alt": "Alt IT", "url": "/a.png"},
		},
		{
			name: "media replaces alt when supplied",
			t:    models.ModuleVideo,
			orig: `{"caption":"Video","alt":"Alt IT"}`,
			tr:   `{"caption":"Clip","title":"Demo","alt":"Alt EN"}`,
			want: map[string]any{"caption": "Clip", "title": "Demo", "alt": "Alt EN"},
		},
		{
			name: "notice",
			t:    models.ModuleDanger,
			orig: `{"title":"Pericolo","message":"Alta tensione","icon":"bolt"}`,
			tr:   `{"title":"Danger","message":"High voltage"}`,
			want: map[string]any{"title": "Danger", "message": "High voltage", "description": "", "icon": "bolt"},
		},
		{
			name: "checklist by index",
			t:    models.ModuleChecklist,
			orig: `{"title":"Controlli","items":[{"id":1,"text":"Uno","checked":true},{"id":2,"text":"Due"}]}`,
			tr:   `{"title":"Checks","items":[{"text":"One"}]}`,
			want: map[string]any{"title": "Checks", "items": []any{
				map[string]any{"id": float64(1), "text": "One", "checked": true},
				map[string]any{"id": float64(2), "text": ""},
			}},
		},
		{
			name: "link",
			t:    models.ModuleLink,
			orig: `{"text":"Sito","description":"Fornitore","url":"https://example.com"}`,
			tr:   `{"text":"Site"}`,
			want: map[string]any{"text": "Site", "description": "", "url": "https://example.com"},
		},
		{
			name: "bom keeps keys",
			t:    models.ModuleBOM,
			orig: `{"title":"Distinta","headers":{"code":"Codice","qty":"Q.tà"},"messages":{"empty":"Nessuno"}}`,
			tr:   `{"title":"BOM","headers":{"code":"Code","extra":"Ignored"}}`,
			want: map[string]any{
				"title":    "BOM",
				"headers":  map[string]any{"code": "Code", "qty": ""},
				"messages": map[string]any{"empty": ""},
			},
		},
		{
			name: "opaque takes translation verbatim",
			t:    models.Module3DModel,
			orig: `{"url":"/it.glb"}`,
			tr:   `{"url":"/en.glb","scale":2}`,
			want: map[string]any{"url": "/en.glb", "scale": float64(2)},
		},
		{
			name: "opaque without translation is empty",
			t:    models.ModuleComponent,
			orig: `{"code":"A8"}`,
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module := models.ContentModule{ID: 1, SectionID: 10, Type: tt.t, Content: json.RawMessage(tt.orig)}
			var trs []models.ModuleTranslation
			if tt.tr != "" {
				trs = []models.ModuleTranslation{{ModuleID: 1, Content: json.RawMessage(tt.tr)}}
			}
			in := &ResolveInput{
				Document:     models.Document{ID: 1},
				Sections:     []models.Section{{ID: 10}},
				Modules:      map[int64][]models.ContentModule{10: {module}},
				Translations: models.NewTranslationSet(2, nil, nil, trs),
			}

			out := NewResolver(quietLogger()).Resolve(in, int64Ptr(2))
			got := moduleObject(t, out.Modules[10][0])
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("merged = %v, want %v", got, tt.want)
			}
		})
	}
}
