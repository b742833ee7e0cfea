// ABOUTME: Tests for the recording store
// ABOUTME: Tests round trips, quota refusal, filtering and partial updates
package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/rs/zerolog"
)

func testClip(seconds int) *audio.Clip {
	rate := 1000
	samples := make([]int32, seconds*rate)
	for i := range samples {
		samples[i] = int32((i % 200) * 1000)
	}
	return &audio.Clip{
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: rate,
			Channels:   1,
			BitDepth:   16,
		},
		Samples: samples,
	}
}

func newTestStore(t *testing.T, quota int64) *Store {
	t.Helper()
	s, err := New(t.TempDir(), quota, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t, 0)

	rec, err := s.Save(testClip(5), 5, "standup notes")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated id")
	}
	if rec.Duration != 5 {
		t.Errorf("expected duration 5, got %d", rec.Duration)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}

	got, ok := s.Get(rec.ID)
	if !ok {
		t.Fatal("expected record found")
	}
	if got.Title != "standup notes" {
		t.Errorf("expected title preserved, got %q", got.Title)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)
	clip := testClip(2)

	rec, err := s.Save(clip, 2, "")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, gotRec, err := s.Load(rec.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if gotRec.ID != rec.ID {
		t.Error("expected matching record")
	}
	if loaded.Format.SampleRate != clip.Format.SampleRate {
		t.Errorf("expected sample rate %d, got %d", clip.Format.SampleRate, loaded.Format.SampleRate)
	}
	if len(loaded.Samples) != len(clip.Samples) {
		t.Errorf("expected %d samples, got %d", len(clip.Samples), len(loaded.Samples))
	}
	for i := range clip.Samples {
		if audio.SampleToInt16(loaded.Samples[i]) != audio.SampleToInt16(clip.Samples[i]) {
			t.Fatalf("sample %d mismatch", i)
		}
	}
}

func TestLoadUnknownID(t *testing.T) {
	s := newTestStore(t, 0)
	if _, _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQuotaRefusal(t *testing.T) {
	s := newTestStore(t, 100) // far below one encoded clip

	_, err := s.Save(testClip(5), 5, "")
	if !errors.Is(err, ErrStorageExhausted) {
		t.Errorf("expected ErrStorageExhausted, got %v", err)
	}
	if len(s.List(Filter{})) != 0 {
		t.Error("refused save must leave no record")
	}
}

func TestQuotaCountsExistingRecordings(t *testing.T) {
	// one 1s clip encodes to 44 + 2000 bytes; allow two but not three
	s := newTestStore(t, 4500)

	for i := 0; i < 2; i++ {
		if _, err := s.Save(testClip(1), 1, ""); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}
	if _, err := s.Save(testClip(1), 1, ""); !errors.Is(err, ErrStorageExhausted) {
		t.Errorf("expected quota refusal on third save, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t, 0)

	first, _ := s.Save(testClip(1), 1, "first")
	second, _ := s.Save(testClip(1), 1, "second")

	list := s.List(Filter{})
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("expected newest first ordering")
	}
}

func TestListFilterByQuery(t *testing.T) {
	s := newTestStore(t, 0)
	s.Save(testClip(1), 1, "Standup Monday")
	s.Save(testClip(1), 1, "Grocery list")

	list := s.List(Filter{Query: "standup"})
	if len(list) != 1 || list[0].Title != "Standup Monday" {
		t.Errorf("expected one case-insensitive match, got %v", list)
	}
}

func TestListFilterByTag(t *testing.T) {
	s := newTestStore(t, 0)
	rec, _ := s.Save(testClip(1), 1, "tagged")
	s.Save(testClip(1), 1, "untagged")

	tags := []string{"work"}
	s.Update(rec.ID, Fields{Tags: &tags})

	list := s.List(Filter{Tag: "WORK"})
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("expected one tag match, got %v", list)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, 0)
	rec, _ := s.Save(testClip(1), 1, "")

	if !s.Delete(rec.ID) {
		t.Error("expected delete to succeed")
	}
	if _, ok := s.Get(rec.ID); ok {
		t.Error("expected record gone")
	}
	if s.Delete(rec.ID) {
		t.Error("expected second delete to report false")
	}
	if _, _, err := s.Load(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected audio gone")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	s := newTestStore(t, 0)
	rec, _ := s.Save(testClip(1), 1, "old title")

	title := "new title"
	updated, ok := s.Update(rec.ID, Fields{Title: &title})
	if !ok {
		t.Fatal("expected update to succeed")
	}
	if updated.Title != "new title" {
		t.Errorf("expected new title, got %q", updated.Title)
	}
	if updated.Duration != rec.Duration {
		t.Error("duration must survive a partial update")
	}

	if _, ok := s.Update("missing", Fields{Title: &title}); ok {
		t.Error("expected update of unknown id to fail")
	}
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	rec, err := s.Save(testClip(3), 3, "persisted")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reopened, err := New(dir, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got, ok := reopened.Get(rec.ID)
	if !ok {
		t.Fatal("expected record after reopen")
	}
	if got.Title != "persisted" || got.Duration != 3 {
		t.Errorf("unexpected record after reopen: %+v", got)
	}
}

func TestUsageTracksPayload(t *testing.T) {
	s := newTestStore(t, 0)
	if s.Usage() != 0 {
		t.Error("expected zero usage for empty store")
	}

	rec, _ := s.Save(testClip(1), 1, "")
	want := int64(44 + 2*1000) // WAV header + 16-bit mono payload
	if s.Usage() != want {
		t.Errorf("expected usage %d, got %d", want, s.Usage())
	}

	s.Delete(rec.ID)
	if s.Usage() != 0 {
		t.Error("expected usage back to zero after delete")
	}
}

func TestCorruptIndexRejected(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, indexFile), []byte("not json"), 0o644)

	if _, err := New(dir, 0, zerolog.Nop()); err == nil {
		t.Error("expected error for corrupt index")
	}
}
