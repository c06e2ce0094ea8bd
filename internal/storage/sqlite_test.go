package storage

import (
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUploads_SaveListDelete(t *testing.T) {
	s := openTestStore(t)

	u := Upload{
		ID:        "u1",
		Filename:  "report.pdf",
		Kind:      "text",
		SizeBytes: 1234,
		Chars:     987,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveUpload(u); err != nil {
		t.Fatalf("saving upload: %v", err)
	}

	list, err := s.ListUploads(10, 0)
	if err != nil {
		t.Fatalf("listing uploads: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	got := list[0]
	if got.Filename != "report.pdf" || got.Kind != "text" || got.Chars != 987 {
		t.Errorf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, u.CreatedAt)
	}

	n, err := s.CountUploads()
	if err != nil || n != 1 {
		t.Fatalf("CountUploads = (%d, %v), want (1, nil)", n, err)
	}

	if err := s.DeleteUpload("u1"); err != nil {
		t.Fatalf("deleting upload: %v", err)
	}
	if err := s.DeleteUpload("u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestUploads_ListOrderAndPagination(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		u := Upload{ID: name, Filename: name, Kind: "text", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.SaveUpload(u); err != nil {
			t.Fatalf("saving %s: %v", name, err)
		}
	}

	list, err := s.ListUploads(2, 0)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(list) != 2 || list[0].Filename != "c.pdf" || list[1].Filename != "b.pdf" {
		t.Errorf("page 1 = %v", list)
	}

	list, err = s.ListUploads(2, 2)
	if err != nil {
		t.Fatalf("listing page 2: %v", err)
	}
	if len(list) != 1 || list[0].Filename != "a.pdf" {
		t.Errorf("page 2 = %v", list)
	}
}

func TestInteractions_SaveAndList(t *testing.T) {
	s := openTestStore(t)

	i := Interaction{
		ID:         "i1",
		CreatedAt:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		UserText:   "what is in the report?",
		Reply:      "numbers",
		Status:     "completed",
		HadContext: true,
	}
	if err := s.SaveInteraction(i); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}

	list, err := s.ListInteractions(10, 0)
	if err != nil {
		t.Fatalf("listing interactions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	got := list[0]
	if got.UserText != i.UserText || got.Reply != i.Reply || !got.HadContext {
		t.Errorf("got = %+v", got)
	}

	n, err := s.CountInteractions()
	if err != nil || n != 1 {
		t.Fatalf("CountInteractions = (%d, %v), want (1, nil)", n, err)
	}
}

func TestInteractions_DefaultStatus(t *testing.T) {
	s := openTestStore(t)

	i := Interaction{ID: "i1", CreatedAt: time.Now().UTC(), UserText: "q", Reply: "r"}
	if err := s.SaveInteraction(i); err != nil {
		t.Fatalf("saving: %v", err)
	}
	list, err := s.ListInteractions(1, 0)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if list[0].Status != "completed" {
		t.Errorf("status = %q, want completed", list[0].Status)
	}
}

func TestMigrationsApplyOnce(t *testing.T) {
	s := openTestStore(t)
	// Re-running migrate against an already-migrated database is a no-op.
	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
