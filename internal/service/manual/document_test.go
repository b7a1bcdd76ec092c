package manual

import (
	"context"
	"errors"
	"testing"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)

	doc, err := svc.documents.CreateDocument(ctx, &manualSvc.CreateDocumentRequest{UserID: "u-1", Title: " XR-200 "})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	if doc.Title != "XR-200" || doc.Version != "1.0" || doc.Status != models.DocumentStatusDraft {
		t.Errorf("doc = %+v", doc)
	}
	if doc.CreatedBy == nil || *doc.CreatedBy != "u-1" {
		t.Errorf("CreatedBy = %v", doc.CreatedBy)
	}

	if _, err := svc.documents.CreateDocument(ctx, &manualSvc.CreateDocumentRequest{Title: "   "}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank title: error = %v", err)
	}
}

func TestUpdateDocumentStatus(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	doc := mustDocument(t, svc, "Manuale")

	status := func(s models.DocumentStatus) *manualSvc.UpdateDocumentRequest {
		return &manualSvc.UpdateDocumentRequest{Status: &s}
	}

	steps := []struct {
		to      models.DocumentStatus
		wantErr bool
	}{
		{to: models.DocumentStatusApproved, wantErr: true},
		{to: models.DocumentStatusInReview},
		{to: models.DocumentStatusDraft},
		{to: models.DocumentStatusInReview},
		{to: models.DocumentStatusApproved},
		{to: models.DocumentStatusObsolete},
		{to: models.DocumentStatusDraft, wantErr: true},
		{to: "archived", wantErr: true},
	}
	for _, step := range steps {
		updated, err := svc.documents.UpdateDocument(ctx, doc.ID, status(step.to))
		if step.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("-> %s: error = %v, want validation error", step.to, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("-> %s: error = %v", step.to, err)
		}
		if updated.Status != step.to {
			t.Errorf("status = %s, want %s", updated.Status, step.to)
		}
	}
}

func TestListDocumentsByStatus(t *testing.T) {
	ctx := context.Background()
	svc := newServices(nil)
	mustDocument(t, svc, "A")
	b := mustDocument(t, svc, "B")
	inReview := models.DocumentStatusInReview
	if _, err := svc.documents.UpdateDocument(ctx, b.ID, &manualSvc.UpdateDocumentRequest{Status: &inReview}); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	docs, err := svc.documents.ListDocuments(ctx, &inReview)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != b.ID {
		t.Errorf("docs = %+v", docs)
	}

	bad := models.DocumentStatus("lost")
	if _, err := svc.documents.ListDocuments(ctx, &bad); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status: error = %v", err)
	}
}
