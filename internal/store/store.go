// ABOUTME: Recording persistence over WAV files and a JSON index
// ABOUTME: Provides save/get/list/delete/update with a storage quota
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio/decode"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio/encode"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrStorageExhausted is returned when a save would exceed the quota.
// The caller keeps the finished buffer and decides whether to retry.
var ErrStorageExhausted = errors.New("storage exhausted")

// ErrNotFound is returned when an id has no record
var ErrNotFound = errors.New("recording not found")

const indexFile = "index.json"

// Record is one saved recording. Duration is authoritative integer
// seconds once saved; playback prefers it over the decoded length.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Size      int64     `json:"size"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Query string
	Tag   string
}

// Fields carries a partial update; nil members are left unchanged
type Fields struct {
	Title *string
	Tags  *[]string
}

// Store persists recordings under one directory: <id>.wav per clip
// plus a JSON index of metadata.
type Store struct {
	dir   string
	quota int64
	log   zerolog.Logger

	mu    sync.Mutex
	index map[string]Record
}

// New opens (or creates) a store rooted at dir. quota is the maximum
// total bytes of audio payload; zero means unlimited.
func New(dir string, quota int64, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		dir:   dir,
		quota: quota,
		log:   log,
		index: make(map[string]Record),
	}

	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	for _, r := range records {
		s.index[r.ID] = r
	}
	return s, nil
}

// Save encodes the clip to WAV and records it under a fresh id.
// duration is the wall-clock seconds measured by the capture
// controller and becomes the authoritative value.
func (s *Store) Save(clip *audio.Clip, duration int, title string) (Record, error) {
	data, err := encode.EncodeWAV(clip)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode recording: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 && s.usageLocked()+int64(len(data)) > s.quota {
		return Record{}, ErrStorageExhausted
	}

	// The measured duration should agree with the buffer length;
	// disagreement means a timing bug upstream, caught here rather
	// than surfacing as a corrupted record at playback time
	if decoded := clip.Duration(); decoded > 0 {
		diff := float64(duration) - decoded
		if diff < -1 || diff > 1 {
			s.log.Warn().
				Int("stored", duration).
				Float64("decoded", decoded).
				Msg("recording duration disagrees with buffer length")
		}
	}

	id := uuid.NewString()
	if title == "" {
		title = time.Now().Format("Jan 2 15:04")
	}

	path := filepath.Join(s.dir, id+".wav")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Record{}, fmt.Errorf("failed to write recording: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Record{}, fmt.Errorf("failed to finalize recording: %w", err)
	}

	rec := Record{
		ID:        id,
		Title:     title,
		Duration:  duration,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	}
	s.index[id] = rec

	if err := s.persistLocked(); err != nil {
		delete(s.index, id)
		os.Remove(path)
		return Record{}, err
	}

	s.log.Info().Str("id", id).Int("duration", duration).Int("bytes", len(data)).Msg("recording saved")
	return rec, nil
}

// Get returns the record for id
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.index[id]
	return rec, ok
}

// Load reads and decodes the audio for id
func (s *Store) Load(id string) (*audio.Clip, Record, error) {
	s.mu.Lock()
	rec, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		return nil, Record{}, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".wav"))
	if err != nil {
		return nil, Record{}, fmt.Errorf("failed to read recording: %w", err)
	}
	clip, err := decode.ReadWAV(data)
	if err != nil {
		return nil, Record{}, fmt.Errorf("failed to decode recording: %w", err)
	}
	return clip, rec, nil
}

// List returns matching records, newest first
func (s *Store) List(filter Filter) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(s.index))
	for _, rec := range s.index {
		if !matches(rec, filter) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

func matches(rec Record, filter Filter) bool {
	if filter.Query != "" &&
		!strings.Contains(strings.ToLower(rec.Title), strings.ToLower(filter.Query)) {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, tag := range rec.Tags {
			if strings.EqualFold(tag, filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Delete removes the record and its audio file
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	if err := s.persistLocked(); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to persist index after delete")
	}
	if err := os.Remove(filepath.Join(s.dir, id+".wav")); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to remove recording file")
	}
	return true
}

// Update applies a partial metadata change
func (s *Store) Update(id string, fields Fields) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	if fields.Title != nil {
		rec.Title = *fields.Title
	}
	if fields.Tags != nil {
		rec.Tags = *fields.Tags
	}
	s.index[id] = rec
	if err := s.persistLocked(); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to persist index after update")
	}
	return rec, true
}

// Usage returns the total bytes of stored audio
func (s *Store) Usage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usageLocked()
}

func (s *Store) usageLocked() int64 {
	var total int64
	for _, rec := range s.index {
		total += rec.Size
	}
	return total
}

func (s *Store) persistLocked() error {
	records := make([]Record, 0, len(s.index))
	for _, rec := range s.index {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	path := filepath.Join(s.dir, indexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize index: %w", err)
	}
	return nil
}
