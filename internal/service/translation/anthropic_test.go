package translation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"manuals/internal/domain"
	manualSvc "manuals/internal/domain/services/manual"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		expect  []string
		wantErr bool
	}{
		{
			name:   "bare array",
			text:   `["Titolo","<b>Testo</b>"]`,
			want:   2,
			expect: []string{"Titolo", "<b>Testo</b>"},
		},
		{
			name:   "code fence",
			text:   "```json\n[\"Uno\"]\n```",
			want:   1,
			expect: []string{"Uno"},
		},
		{
			name:    "wrong length",
			text:    `["a","b"]`,
			want:    3,
			wantErr: true,
		},
		{
			name:    "no array",
			text:    "Sorry, I cannot help.",
			want:    1,
			wantErr: true,
		},
		{
			name:    "not strings",
			text:    `[1, 2]`,
			want:    2,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("ParseResponse() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider("", "claude-haiku-4-5-20251001", nil); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewProvider("key", "gpt-4o", nil); err == nil {
		t.Error("expected error for unsupported model")
	}
	if _, err := NewProvider("key", "claude-haiku-4-5-20251001", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Translate(context.Background(), &manualSvc.TranslateRequest{Texts: []string{"a"}})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
