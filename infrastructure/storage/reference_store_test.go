package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveLoadDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	image := []byte("jpeg-bytes")
	path, err := store.Save("PERSON_ABC123", image)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(path, "PERSON_ABC123") {
		t.Errorf("path %q does not include the person code", path)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("path %q does not end in .jpg", path)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(loaded, image) {
		t.Error("loaded bytes differ from saved bytes")
	}

	if err := store.Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}
}

func TestLocalStoreLoadMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if _, err := store.Load(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("Load of a missing path must fail")
	}
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if err := store.Delete(filepath.Join(t.TempDir(), "nope.jpg")); err != nil {
		t.Errorf("Delete of a missing path = %v, want nil", err)
	}
}
