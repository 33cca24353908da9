package save

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutGet(t *testing.T) {
	s := openTestStore(t)
	story := testIdentity()

	id, err := s.Put(story, "west of house", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	blob, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(blob) != 3 || blob[0] != 1 || blob[2] != 3 {
		t.Errorf("blob = %v, want [1 2 3]", blob)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("Get = %v, want ErrSaveNotFound", err)
	}
}

func TestStoreLatestAndList(t *testing.T) {
	s := openTestStore(t)
	story := testIdentity()
	other := Identity{Release: 1, Serial: "000000", Checksum: 0}

	if _, err := s.Put(story, "first", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(story, "second", []byte{2}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(other, "elsewhere", []byte{9}); err != nil {
		t.Fatal(err)
	}

	records, err := s.List(story)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	blob, err := s.Latest(story)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(blob) != 1 || blob[0] != 2 {
		t.Errorf("Latest = %v, want [2]", blob)
	}
}

func TestStoreLatestMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Latest(testIdentity()); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("Latest = %v, want ErrSaveNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Put(testIdentity(), "doomed", []byte{1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("Get after delete = %v, want ErrSaveNotFound", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("second Delete = %v, want ErrSaveNotFound", err)
	}
}
