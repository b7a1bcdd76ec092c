package export

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestPackage(t *testing.T) {
	p, err := NewPackager(fixedClock)
	if err != nil {
		t.Fatalf("NewPackager() error = %v", err)
	}

	body := `<section class="section" data-section-id="1"><h2 class="section-title">Intro</h2></section>`
	got, err := p.Package(Page{
		Title:       "Manuale <XR>",
		Description: "Montaggio",
		Version:     "1.2",
		Lang:        "en",
		Body:        body,
	})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	for _, w := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Manuale &lt;XR&gt;</title>",
		`<h1 class="document-title">Manuale &lt;XR&gt;</h1>`,
		`<p class="document-description">Montaggio</p>`,
		body,
		".message.danger{background-color:#ff0000;border-color:#ff0000;color:#ffffff}",
		".message.info{background-color:#0070d1",
		"Generated on 2024-05-06 07:08 · Version 1.2",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in\n%s", w, got)
		}
	}
}

func TestPackageSourceLanguageOmitsLang(t *testing.T) {
	p, err := NewPackager(fixedClock)
	if err != nil {
		t.Fatalf("NewPackager() error = %v", err)
	}

	got, err := p.Package(Page{Title: "Manuale", Version: "1.0", Body: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if !strings.Contains(got, "<html>") {
		t.Errorf("missing bare <html> in\n%s", got)
	}
	if strings.Contains(got, "lang=") {
		t.Errorf("source-language page carries a lang attribute:\n%s", got)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title, version, lang, ext string
		want                      string
	}{
		{"Manuale di montaggio XR-200", "1.0", "", "html", "manuale-di-montaggio-xr-200_v1.0.html"},
		{"Città è bella", "2.1", "en", "md", "citta-e-bella_v2.1_en.md"},
		{"Manual", "", "de-CH", "html", "manual_de-ch.html"},
		{"", "", "", "html", "document.html"},
		{"!!!", "1.0", "", "html", "document_v1.0.html"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FileName(tt.title, tt.version, tt.lang, tt.ext); got != tt.want {
				t.Errorf("FileName(%q, %q, %q) = %q, want %q", tt.title, tt.version, tt.lang, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"  Ünïcödé -- Test!! ": "unicode-test",
		"Schraube M8×20":       "schraube-m8-20",
		"Ångström":             "angstrom",
		"already-slugged":      "already-slugged",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarkdownConvert(t *testing.T) {
	p, err := NewPackager(fixedClock)
	if err != nil {
		t.Fatalf("NewPackager() error = %v", err)
	}
	c := NewMarkdownConverter(p)

	got, err := c.Convert(Page{
		Title:       "Manual",
		Description: "Assembly",
		Version:     "3",
		Body:        `<h2>Intro</h2><p>Hello <strong>world</strong></p>`,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !strings.HasPrefix(got, "# Manual\n\nAssembly\n\n") {
		t.Errorf("header wrong:\n%s", got)
	}
	for _, w := range []string{"## Intro", "Hello **world**", "Generated on 2024-05-06 07:08 · Version 3"} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in\n%s", w, got)
		}
	}
}
