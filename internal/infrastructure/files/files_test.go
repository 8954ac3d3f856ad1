package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"FgdcMigrator/internal/source"
)

func TestDirSourceDiscoverAndFetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, body := range map[string]string{
		"b_record.xml": "<metadata>b</metadata>",
		"a_record.xml": "<metadata>a</metadata>",
		"notes.txt":    "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.xml"), 0o755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}

	src := NewDirSource()

	refs, err := src.Discover(context.Background(), source.Request{Location: dir})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != "a_record.xml" || refs[1].ID != "b_record.xml" {
		t.Fatalf("refs not sorted by name: %v", refs)
	}

	data, err := src.Fetch(context.Background(), refs[1])
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "<metadata>b</metadata>" {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestDirSourceMissingDirectory(t *testing.T) {
	t.Parallel()

	src := NewDirSource()
	if _, err := src.Discover(context.Background(), source.Request{Location: "/does/not/exist"}); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := src.Discover(context.Background(), source.Request{}); err == nil {
		t.Fatal("expected error for empty location")
	}
}
