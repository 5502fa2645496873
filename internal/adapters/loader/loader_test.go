package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTextLoader_LoadTxtFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	os.WriteFile(path, []byte("Hello World"), 0644)

	loader := NewTextLoader()
	doc, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Content != "Hello World" {
		t.Errorf("unexpected content: %s", doc.Content)
	}
	if doc.Name != "test.txt" {
		t.Errorf("unexpected name: %s", doc.Name)
	}
}

func TestTextLoader_PreservesWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ws.txt")
	content := "  leading spaces\n\nand a paragraph break\n"
	os.WriteFile(path, []byte(content), 0644)

	loader := NewTextLoader()
	doc, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Content != content {
		t.Errorf("content was altered during load:\n got %q\nwant %q", doc.Content, content)
	}
}

func TestTextLoader_MissingFile(t *testing.T) {
	loader := NewTextLoader()
	_, err := loader.Load(context.Background(), "/nonexistent/file.txt")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTextLoader_DeterministicID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "same.txt")
	os.WriteFile(path, []byte("content"), 0644)

	loader := NewTextLoader()
	first, _ := loader.Load(context.Background(), path)
	second, _ := loader.Load(context.Background(), path)

	if first.ID != second.ID {
		t.Error("document ID must be deterministic for the same path")
	}
}

func TestDirectoryLoader_LoadAllSorted(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second"), 0644)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first"), 0644)
	os.WriteFile(filepath.Join(dir, "c.md"), []byte("third"), 0644)
	os.WriteFile(filepath.Join(dir, "ignored.jpg"), []byte{0xff, 0xd8}, 0644)

	source := NewDirectoryLoader(NewTextLoader())
	docs, err := source.LoadAll(context.Background(), dir)

	if err != nil {
		t.Fatalf("load all failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	want := []string{"a.txt", "b.txt", "c.md"}
	for i, name := range want {
		if docs[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, docs[i].Name)
		}
	}
}

func TestDirectoryLoader_WalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "essays")
	os.MkdirAll(sub, 0755)
	os.WriteFile(filepath.Join(dir, "top.txt"), []byte("top"), 0644)
	os.WriteFile(filepath.Join(sub, "nested.txt"), []byte("nested"), 0644)

	source := NewDirectoryLoader(NewTextLoader())
	docs, err := source.LoadAll(context.Background(), dir)

	if err != nil {
		t.Fatalf("load all failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents including nested, got %d", len(docs))
	}
}

func TestDirectoryLoader_EmptyDirectory(t *testing.T) {
	source := NewDirectoryLoader(NewTextLoader())
	docs, err := source.LoadAll(context.Background(), t.TempDir())

	if err != nil {
		t.Fatalf("empty directory is not an error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestDirectoryLoader_MissingDirectory(t *testing.T) {
	source := NewDirectoryLoader(NewTextLoader())
	_, err := source.LoadAll(context.Background(), "/nonexistent/corpus")

	if err == nil {
		t.Error("expected error for a missing corpus directory")
	}
}

func TestDirectoryLoader_DefaultExtensions(t *testing.T) {
	source := NewDirectoryLoader()
	exts := source.SupportedExtensions()

	want := map[string]bool{".txt": false, ".md": false, ".pdf": false}
	for _, ext := range exts {
		if _, ok := want[ext]; ok {
			want[ext] = true
		}
	}
	for ext, found := range want {
		if !found {
			t.Errorf("default loader should handle %s", ext)
		}
	}
}
