package playlist

import (
	"errors"
	"slices"
	"strings"

	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("playlist not found")
	ErrDuplicateName = errors.New("playlist already exists")
	ErrInvalidName   = errors.New("invalid playlist name")
)

// Entry is one track reference inside a playlist. The path is kept alongside
// the id so playlists survive catalog rescans and can be written back to disk
// even when a referenced file has disappeared.
type Entry struct {
	ID   uuid.UUID
	Path string
}

// EntryForPath builds an Entry for a file path.
func EntryForPath(path string) Entry {
	return Entry{ID: library.IDForPath(path), Path: path}
}

// Store holds named, ordered playlists of track references. Mutations are
// synchronous; ids pointing at tracks no longer in the catalog are tolerated
// and filtered out at view time.
type Store struct {
	names []string
	lists map[string][]Entry
}

func NewStore() *Store {
	return &Store{
		lists: make(map[string][]Entry),
	}
}

// Names returns the playlist names in display order.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

func (s *Store) Len() int {
	return len(s.names)
}

// Create adds a new empty playlist.
func (s *Store) Create(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		return ErrInvalidName
	}
	if _, exists := s.lists[name]; exists {
		return ErrDuplicateName
	}
	s.names = append(s.names, name)
	s.lists[name] = nil
	return nil
}

// Delete removes a playlist.
func (s *Store) Delete(name string) error {
	if _, exists := s.lists[name]; !exists {
		return ErrNotFound
	}
	delete(s.lists, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
	return nil
}

// Tracks returns the ordered entries of a playlist.
func (s *Store) Tracks(name string) ([]Entry, error) {
	entries, exists := s.lists[name]
	if !exists {
		return nil, ErrNotFound
	}
	return slices.Clone(entries), nil
}

// AddTrack appends a track reference to a playlist. Adding a track that is
// already present is a no-op.
func (s *Store) AddTrack(name string, entry Entry) error {
	entries, exists := s.lists[name]
	if !exists {
		return ErrNotFound
	}
	for _, e := range entries {
		if e.ID == entry.ID {
			return nil
		}
	}
	s.lists[name] = append(entries, entry)
	return nil
}

// RemoveTrack removes a track reference from a playlist.
func (s *Store) RemoveTrack(name string, id uuid.UUID) error {
	entries, exists := s.lists[name]
	if !exists {
		return ErrNotFound
	}
	s.lists[name] = slices.DeleteFunc(entries, func(e Entry) bool { return e.ID == id })
	return nil
}

// Move shifts a playlist up (delta < 0) or down (delta > 0) in the display
// order, clamped at the ends.
func (s *Store) Move(name string, delta int) error {
	from := slices.Index(s.names, name)
	if from < 0 {
		return ErrNotFound
	}
	to := min(max(from+delta, 0), len(s.names)-1)
	if to == from {
		return nil
	}
	s.names = slices.Delete(s.names, from, from+1)
	s.names = slices.Insert(s.names, to, name)
	return nil
}
