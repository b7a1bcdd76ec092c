package manual

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

func TestCreateModule(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")
	section := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "S"})

	tests := []struct {
		name        string
		req         *manualSvc.CreateModuleRequest
		wantErr     error
		wantContent string
		wantOrder   int
	}{
		{
			name:        "appends",
			req:         &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleText, Content: json.RawMessage(` {"text":"a"} `)},
			wantContent: `{"text":"a"}`,
			wantOrder:   0,
		},
		{
			name:        "appends after last",
			req:         &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleNote, Content: json.RawMessage(`null`)},
			wantContent: `{}`,
			wantOrder:   1,
		},
		{
			name:        "explicit order",
			req:         &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.Module3DModel, Order: intPtr(9)},
			wantContent: `{}`,
			wantOrder:   9,
		},
		{name: "unknown type", req: &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: "hologram"}, wantErr: domain.ErrValidation},
		{name: "missing type", req: &manualSvc.CreateModuleRequest{SectionID: section.ID}, wantErr: domain.ErrValidation},
		{name: "array content", req: &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleText, Content: json.RawMessage(`[1]`)}, wantErr: domain.ErrValidation},
		{name: "broken content", req: &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleText, Content: json.RawMessage(`{"text":`)}, wantErr: domain.ErrValidation},
		{name: "unknown section", req: &manualSvc.CreateModuleRequest{SectionID: 999, Type: models.ModuleText}, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := svc.modules.CreateModule(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateModule() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateModule() error = %v", err)
			}
			if string(m.Content) != tt.wantContent || m.Order != tt.wantOrder {
				t.Errorf("module = content %s order %d, want %s order %d", m.Content, m.Order, tt.wantContent, tt.wantOrder)
			}
		})
	}
}

func TestValidateContentTooLarge(t *testing.T) {
	big := `{"text":"` + strings.Repeat("x", 1<<20) + `"}`
	_, err := validateContent(json.RawMessage(big))
	if fieldOf(err) != "content" {
		t.Errorf("validateContent() error = %v, want content field error", err)
	}
}

func TestUpdateModule(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")
	section := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "S"})
	m, err := svc.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleWarning, Content: json.RawMessage(`{"title":"a"}`)})
	if err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}

	danger := models.ModuleDanger
	updated, err := svc.modules.UpdateModule(ctx, m.ID, &manualSvc.UpdateModuleRequest{Type: &danger})
	if err != nil {
		t.Fatalf("UpdateModule() error = %v", err)
	}
	if updated.Type != models.ModuleDanger || string(updated.Content) != `{"title":"a"}` {
		t.Errorf("updated = %+v", updated)
	}

	bogus := models.ModuleType("bogus")
	if _, err := svc.modules.UpdateModule(ctx, m.ID, &manualSvc.UpdateModuleRequest{Type: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown type: error = %v", err)
	}
	if _, err := svc.modules.UpdateModule(ctx, m.ID, &manualSvc.UpdateModuleRequest{Content: json.RawMessage(`"text"`)}); fieldOf(err) != "content" {
		t.Errorf("string content: error = %v", err)
	}
}

func TestReorderModules(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")
	section := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "S"})
	other := mustSection(t, svc, &manualSvc.CreateSectionRequest{DocumentID: doc.ID, Title: "T"})

	var ids []int64
	for i := 0; i < 3; i++ {
		m, err := svc.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{SectionID: section.ID, Type: models.ModuleText})
		if err != nil {
			t.Fatalf("CreateModule() error = %v", err)
		}
		ids = append(ids, m.ID)
	}
	stranger, err := svc.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{SectionID: other.ID, Type: models.ModuleText})
	if err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}

	errTests := []struct {
		name string
		ids  []int64
	}{
		{name: "missing id", ids: ids[:2]},
		{name: "duplicate id", ids: []int64{ids[0], ids[0], ids[1]}},
		{name: "foreign module", ids: []int64{ids[0], ids[1], stranger.ID}},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.modules.ReorderModules(ctx, section.ID, tt.ids); fieldOf(err) != "ids" {
				t.Errorf("ReorderModules() error = %v, want ids field error", err)
			}
		})
	}

	reversed := []int64{ids[2], ids[1], ids[0]}
	ordered, err := svc.modules.ReorderModules(ctx, section.ID, reversed)
	if err != nil {
		t.Fatalf("ReorderModules() error = %v", err)
	}
	for i, m := range ordered {
		if m.ID != reversed[i] || m.Order != i {
			t.Errorf("ordered[%d] = id %d order %d", i, m.ID, m.Order)
		}
	}

	listed, err := svc.modules.ListModules(ctx, section.ID)
	if err != nil {
		t.Fatalf("ListModules() error = %v", err)
	}
	for i, m := range listed {
		if m.ID != reversed[i] {
			t.Errorf("stored order wrong at %d: %d", i, m.ID)
		}
	}
}
