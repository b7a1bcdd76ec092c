package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(filepath.Join(root, "exports"))
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "nested key", key: "exports/7/abc/manual_v1.html"},
		{name: "parent escape", key: "../outside.html", wantErr: true},
		{name: "absolute", key: "/etc/passwd", wantErr: true},
		{name: "dot dot only", key: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := store.Put(context.Background(), tt.key, "text/html", []byte("<p>x</p>"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != "<p>x</p>" {
				t.Errorf("stored %q", data)
			}
		})
	}
}

func TestLocalStoreCanceled(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "a.html", "text/html", nil); err == nil {
		t.Error("Put() with canceled context should fail")
	}
}
