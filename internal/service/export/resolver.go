package export

import (
	"log/slog"

	models "manuals/internal/domain/models/manual"
	"manuals/internal/metrics"
)

// ResolveInput is one document snapshot plus the translations of the
// requested language. Nothing outside it is consulted.
type ResolveInput struct {
	Document     models.Document
	Sections     []models.Section
	Modules      map[int64][]models.ContentModule // by section id, ordered
	Translations *models.TranslationSet
}

// ResolvedDocument is the snapshot with every text-bearing field overlaid.
type ResolvedDocument struct {
	Document models.Document
	Sections []models.Section
	Modules  map[int64][]models.ContentModule
}

// Resolver overlays translations onto a document snapshot.
//
// Once a language is requested every text field comes from the translation:
// a missing record or a null field yields an empty string, never the source
// text. Safe for concurrent use.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver that logs merge failures to logger
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve returns a translated copy of in. With a nil languageID the copy is
// identical to the input. Translations for another language than languageID
// are ignored, as if none existed.
func (r *Resolver) Resolve(in *ResolveInput, languageID *int64) *ResolvedDocument {
	out := &ResolvedDocument{
		Document: in.Document,
		Sections: copySections(in.Sections),
		Modules:  copyModules(in.Modules),
	}
	if languageID == nil {
		return out
	}

	set := in.Translations
	if set != nil && set.LanguageID != *languageID {
		set = nil
	}

	var docTr *models.DocumentTranslation
	if set != nil {
		docTr = set.Document
	}
	if docTr != nil {
		out.Document.Title = deref(docTr.Title)
		out.Document.Description = deref(docTr.Description)
		out.Document.Version = deref(docTr.Version)
	} else {
		out.Document.Title = ""
		out.Document.Description = ""
		out.Document.Version = ""
	}

	for i := range out.Sections {
		tr := set.Section(out.Sections[i].ID)
		if tr != nil {
			out.Sections[i].Title = deref(tr.Title)
			out.Sections[i].Description = deref(tr.Description)
		} else {
			out.Sections[i].Title = ""
			out.Sections[i].Description = ""
		}
	}

	for sectionID, modules := range out.Modules {
		for i := range modules {
			modules[i] = r.resolveModule(modules[i], set.Module(modules[i].ID))
		}
		out.Modules[sectionID] = modules
	}

	return out
}

// resolveModule merges one module. Any decode failure leaves the module as stored.
func (r *Resolver) resolveModule(m models.ContentModule, tr *models.ModuleTranslation) models.ContentModule {
	original, err := models.ParseContent(m.Type, m.Content)
	if err != nil {
		r.mergeFailed(m, "original", err)
		return m
	}

	var trRaw []byte
	if tr != nil {
		trRaw = tr.Content
	}
	translated, err := models.ParseContent(m.Type, trRaw)
	if err != nil {
		r.mergeFailed(m, "translation", err)
		return m
	}

	merged, err := models.MarshalContent(mergeContent(original, translated))
	if err != nil {
		r.mergeFailed(m, "encode", err)
		return m
	}

	m.Content = merged
	return m
}

func (r *Resolver) mergeFailed(m models.ContentModule, stage string, err error) {
	metrics.MergeFailuresTotal.WithLabelValues(string(m.Type)).Inc()
	r.logger.Error("module translation merge skipped",
		"module_id", m.ID,
		"section_id", m.SectionID,
		"type", m.Type,
		"stage", stage,
		"error", err,
	)
}

// mergeContent overlays tr onto orig. Both were decoded for the same module
// type, so they are the same variant; a missing translation decodes as the
// empty variant. Keys the variant does not interpret keep their original values.
func mergeContent(orig, tr models.Content) models.Content {
	switch o := orig.(type) {
	case *models.TextContent:
		t, _ := tr.(*models.TextContent)
		if t == nil {
			t = &models.TextContent{}
		}
		out := *o
		out.Text = t.Text
		return &out

	case *models.MediaContent:
		t, _ := tr.(*models.MediaContent)
		if t == nil {
			t = &models.MediaContent{}
		}
		out := *o
		out.Caption = t.Caption
		out.Title = t.Title
		if t.Alt != nil {
			out.Alt = t.Alt
		}
		return &out

	case *models.NoticeContent:
		t, _ := tr.(*models.NoticeContent)
		if t == nil {
			t = &models.NoticeContent{}
		}
		out := *o
		out.Title = t.Title
		out.Message = t.Message
		out.Description = t.Description
		return &out

	case *models.TableContent:
		t, _ := tr.(*models.TableContent)
		if t == nil {
			t = &models.TableContent{}
		}
		out := *o
		out.Caption = t.Caption
		if o.Headers != nil {
			out.Headers = alignRow(len(o.Headers), t.Headers)
		}
		if o.Rows != nil {
			out.Rows = make([][]string, len(o.Rows))
			for i, row := range o.Rows {
				var trRow []string
				if i < len(t.Rows) {
					trRow = t.Rows[i]
				}
				out.Rows[i] = alignRow(len(row), trRow)
			}
		}
		return &out

	case *models.ChecklistContent:
		t, _ := tr.(*models.ChecklistContent)
		if t == nil {
			t = &models.ChecklistContent{}
		}
		out := *o
		out.Title = t.Title
		if o.Items != nil {
			out.Items = make([]models.ChecklistItem, len(o.Items))
			for i, item := range o.Items {
				item.Text = ""
				if i < len(t.Items) {
					item.Text = t.Items[i].Text
				}
				out.Items[i] = item
			}
		}
		return &out

	case *models.LinkContent:
		t, _ := tr.(*models.LinkContent)
		if t == nil {
			t = &models.LinkContent{}
		}
		out := *o
		out.Text = t.Text
		out.Description = t.Description
		return &out

	case *models.BomContent:
		t, _ := tr.(*models.BomContent)
		if t == nil {
			t = &models.BomContent{}
		}
		out := *o
		out.Title = t.Title
		out.Headers = alignKeys(o.Headers, t.Headers)
		out.Descriptions = alignKeys(o.Descriptions, t.Descriptions)
		out.Messages = alignKeys(o.Messages, t.Messages)
		return &out

	case *models.OpaqueContent:
		// Uninterpreted payloads are replaced wholesale; no translation gives {}
		return tr
	}

	return orig
}

// alignRow returns n values taken positionally from tr, "" where tr is short.
func alignRow(n int, tr []string) []string {
	out := make([]string, n)
	copy(out, tr)
	return out
}

// alignKeys keeps exactly the keys of orig, with values from tr or "".
func alignKeys(orig, tr map[string]string) map[string]string {
	if orig == nil {
		return nil
	}
	out := make(map[string]string, len(orig))
	for k := range orig {
		out[k] = tr[k]
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copySections(in []models.Section) []models.Section {
	if in == nil {
		return nil
	}
	out := make([]models.Section, len(in))
	for i, s := range in {
		if s.ParentID != nil {
			parent := *s.ParentID
			s.ParentID = &parent
		}
		out[i] = s
	}
	return out
}

func copyModules(in map[int64][]models.ContentModule) map[int64][]models.ContentModule {
	if in == nil {
		return nil
	}
	out := make(map[int64][]models.ContentModule, len(in))
	for sectionID, modules := range in {
		if modules == nil {
			out[sectionID] = nil
			continue
		}
		copied := make([]models.ContentModule, len(modules))
		for i, m := range modules {
			copied[i] = m.Clone()
		}
		out[sectionID] = copied
	}
	return out
}
