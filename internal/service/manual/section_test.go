package manual

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func mustDocument(t *testing.T, svc *services, title string) *models.Document {
	t.Helper()
	doc, err := svc.documents.CreateDocument(context.Background(), &manualSvc.CreateDocumentRequest{Title: title})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	return doc
}

func mustSection(t *testing.T, svc *services, req *manualSvc.CreateSectionRequest) *models.Section {
	t.Helper()
	s, err := svc.sections.CreateSection(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateSection(%q) error = %v", req.Title, err)
	}
	return s
}

func fieldOf(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

func TestCreateSection(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")
	other := mustDocument(t, svc, "Altro")
	foreign := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: other.ID, Title: "Estraneo"})

	first := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "  1 Introduzione "})
	if first.Title != "1 Introduzione" || first.Order != 0 {
		t.Errorf("first section = %+v", first)
	}
	second := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "2 Montaggio"})
	if second.Order != 1 {
		t.Errorf("appended order = %d, want 1", second.Order)
	}
	child := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "2.1", ParentID: &second.ID, Order: intPtr(5)})
	if child.Order != 5 || *child.ParentID != second.ID {
		t.Errorf("child = %+v", child)
	}

	tests := []struct {
		name      string
		req       *manualSvc.CreateSectionRequest
		wantErr   error
		wantField string
	}{
		{name: "missing title", req: &manualSvc.CreateSectionRequest{DocumentID: doc.ID}, wantErr: domain.ErrValidation},
		{name: "negative order", req: &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "x", Order: intPtr(-1)}, wantErr: domain.ErrValidation},
		{name: "unknown document", req: &manualSvc.CreateSectionRequest{DocumentID: 999, Title: "x"}, wantErr: domain.ErrNotFound},
		{name: "unknown parent", req: &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "x", ParentID: int64Ptr(999)}, wantErr: domain.ErrValidation, wantField: "parent_id"},
		{name: "parent in other document", req: &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "x", ParentID: &foreign.ID}, wantErr: domain.ErrValidation, wantField: "parent_id"},
		{name: "order taken", req: &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "x", Order: intPtr(1)}, wantErr: domain.ErrValidation, wantField: "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.sections.CreateSection(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateSection() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantField != "" && fieldOf(err) != tt.wantField {
				t.Errorf("field = %q, want %q", fieldOf(err), tt.wantField)
			}
		})
	}
}

func TestMoveSection(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")
	a := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "A"})
	b := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "B", ParentID: &a.ID})
	c := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "C", ParentID: &b.ID})
	d := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "D"})

	tests := []struct {
		name      string
		id        int64
		req       *manualSvc.MoveSectionRequest
		wantField string
	}{
		{name: "under itself", id: a.ID, req: &manualSvc.MoveSectionRequest{ParentID: &a.ID}, wantField: "parent_id"},
		{name: "under descendant", id: a.ID, req: &manualSvc.MoveSectionRequest{ParentID: &c.ID}, wantField: "parent_id"},
		{name: "order taken", id: c.ID, req: &manualSvc.MoveSectionRequest{Order: d.Order}, wantField: "order"},
		{name: "negative order", id: c.ID, req: &manualSvc.MoveSectionRequest{Order: -2}, wantField: "order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.sections.MoveSection(ctx, tt.id, tt.req)
			if !errors.Is(err, domain.ErrValidation) || fieldOf(err) != tt.wantField {
				t.Errorf("MoveSection() error = %v, want field %q", err, tt.wantField)
			}
		})
	}

	t.Run("to top level", func(t *testing.T) {
		moved, err := svc.sections.MoveSection(ctx, c.ID, &manualSvc.MoveSectionRequest{Order: 7})
		if err != nil {
			t.Fatalf("MoveSection() error = %v", err)
		}
		if moved.ParentID != nil || moved.Order != 7 {
			t.Errorf("moved = %+v", moved)
		}
	})

	t.Run("keeping own order", func(t *testing.T) {
		moved, err := svc.sections.MoveSection(ctx, d.ID, &manualSvc.MoveSectionRequest{Order: d.Order})
		if err != nil {
			t.Fatalf("MoveSection() error = %v", err)
		}
		if moved.Order != d.Order {
			t.Errorf("order = %d, want %d", moved.Order, d.Order)
		}
	})
}

func TestCopyLibrarySection(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	library := mustDocument(t, svc, "Libreria")
	target := mustDocument(t, svc, "Manuale")

	entry := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: library.ID, Title: "Sicurezza", IsModule: true})
	sub := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: library.ID, Title: "DPI", ParentID: &entry.ID})
	plain := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: library.ID, Title: "Normale"})

	if _, err := svc.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{
		SectionID: entry.ID, Type: models.ModuleSafetyInstructions, Content: json.RawMessage(`{"title":"Attenzione"}`),
	}); err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}
	if _, err := svc.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{
		SectionID: sub.ID, Type: models.ModuleText, Content: json.RawMessage(`{"text":"Guanti"}`),
	}); err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}
	part, err := svc.components.CreateComponent(ctx, &manualSvc.CreateComponentRequest{Code: "DPI-1"})
	if err != nil {
		t.Fatalf("CreateComponent() error = %v", err)
	}
	if err := svc.components.AttachComponent(ctx, &manualSvc.AttachComponentRequest{SectionID: sub.ID, ComponentID: part.ID, Quantity: 2}); err != nil {
		t.Fatalf("AttachComponent() error = %v", err)
	}

	copied, err := svc.sections.CopyLibrarySection(ctx, &manualSvc.CopySectionRequest{LibrarySectionID: entry.ID, DocumentID: target.ID})
	if err != nil {
		t.Fatalf("CopyLibrarySection() error = %v", err)
	}
	if copied.DocumentID != target.ID || copied.IsModule || copied.Title != "Sicurezza" {
		t.Errorf("copied root = %+v", copied)
	}
	if svc.store.txCount == 0 {
		t.Error("copy should run in a transaction")
	}

	tree, err := svc.documents.GetTree(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetTree() error = %v", err)
	}
	if len(tree.Sections) != 1 || len(tree.Sections[0].Children) != 1 {
		t.Fatalf("copied tree shape wrong: %+v", tree.Sections)
	}
	root, child := tree.Sections[0], tree.Sections[0].Children[0]
	if len(root.Modules) != 1 || root.Modules[0].Type != models.ModuleSafetyInstructions {
		t.Errorf("root modules = %+v", root.Modules)
	}
	if len(child.Modules) != 1 || string(child.Modules[0].Content) != `{"text":"Guanti"}` {
		t.Errorf("child modules = %+v", child.Modules)
	}
	if len(child.Components) != 1 || child.Components[0].Quantity != 2 {
		t.Errorf("child components = %+v", child.Components)
	}

	_, err = svc.sections.CopyLibrarySection(ctx, &manualSvc.CopySectionRequest{LibrarySectionID: plain.ID, DocumentID: target.ID})
	if fieldOf(err) != "library_section_id" {
		t.Errorf("copying a non-library section: error = %v", err)
	}
}
