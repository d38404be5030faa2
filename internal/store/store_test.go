package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_GetCachedTranslation_Miss(t *testing.T) {
	s := newTestStore(t)

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "fr")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found for uncached translation")
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestStore_GetCachedTranslation_Hit(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveToMemory(context.Background(), "Hello", "en", "fr", "Bonjour", "google"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "fr")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if !found {
		t.Error("expected to find cached translation")
	}
	if text != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", text)
	}
}

func TestStore_GetCachedTranslation_NormalizesKey(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveToMemory(context.Background(), "  Hello  ", "en", "fr", "Bonjour", "google"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "fr")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if !found || text != "Bonjour" {
		t.Errorf("expected padded save to hit trimmed lookup, got found=%v text=%q", found, text)
	}
}

func TestStore_MultipleLanguagePairs(t *testing.T) {
	s := newTestStore(t)

	s.SaveToMemory(context.Background(), "Hello", "en", "uk", "Привіт", "google")
	s.SaveToMemory(context.Background(), "Hello", "en", "de", "Hallo", "google")
	s.SaveToMemory(context.Background(), "Hello", "en", "fr", "Bonjour", "google")

	text, found, _ := s.GetCachedTranslation(context.Background(), "Hello", "en", "uk")
	if !found || text != "Привіт" {
		t.Errorf("en->uk: expected 'Привіт', got found=%v %q", found, text)
	}

	text, found, _ = s.GetCachedTranslation(context.Background(), "Hello", "en", "de")
	if !found || text != "Hallo" {
		t.Errorf("en->de: expected 'Hallo', got found=%v %q", found, text)
	}

	_, found, _ = s.GetCachedTranslation(context.Background(), "Hello", "en", "es")
	if found {
		t.Error("en->es: expected not found")
	}
}

func TestStore_InvalidatedEntryBehavesLikeMiss(t *testing.T) {
	s := newTestStore(t)

	s.SaveToMemory(context.Background(), "Hello", "en", "fr", "Bonjour", "google")

	entries, err := s.ListMemory(context.Background())
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if err := s.InvalidateMemory(context.Background(), entries[0].ID); err != nil {
		t.Fatalf("InvalidateMemory failed: %v", err)
	}

	_, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "fr")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found for invalidated translation")
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Errorf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("expected 0 total entries, got %d", stats.TotalEntries)
	}

	s.SaveToMemory(context.Background(), "Hello", "en", "fr", "Bonjour", "google")
	s.SaveToMemory(context.Background(), "World", "en", "fr", "Monde", "google")

	stats, err = s.Stats(context.Background())
	if err != nil {
		t.Errorf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 total entries, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 2 {
		t.Errorf("expected 2 active entries, got %d", stats.ActiveEntries)
	}
}

func TestStore_DeleteAndClearMemory(t *testing.T) {
	s := newTestStore(t)

	s.SaveToMemory(context.Background(), "Hello", "en", "fr", "Bonjour", "google")
	s.SaveToMemory(context.Background(), "World", "en", "fr", "Monde", "google")

	entries, err := s.ListMemory(context.Background())
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if err := s.DeleteMemory(context.Background(), entries[0].ID); err != nil {
		t.Errorf("DeleteMemory failed: %v", err)
	}

	count, err := s.ClearMemory(context.Background())
	if err != nil {
		t.Errorf("ClearMemory failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 remaining entry cleared, got %d", count)
	}
}

func TestStore_Glossary(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddGlossaryTerm(context.Background(), "en", "fr", "ACME", "ACME"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(context.Background(), "en", "fr", "widget", "gadget"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(context.Background(), "en", "de", "widget", "Bauteil"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}

	terms, err := s.GetGlossaryTerms(context.Background(), "en", "fr")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if len(terms) != 2 {
		t.Errorf("expected 2 terms for en->fr, got %d", len(terms))
	}
	if terms["widget"] != "gadget" {
		t.Errorf("expected 'gadget', got %q", terms["widget"])
	}

	entries, err := s.ListGlossaryTerms(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries overall, got %d", len(entries))
	}

	if err := s.DeleteGlossaryTerm(context.Background(), entries[0].ID); err != nil {
		t.Errorf("DeleteGlossaryTerm failed: %v", err)
	}

	entries, err = s.ListGlossaryTerms(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after delete, got %d", len(entries))
	}
}
