package playlist

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const m3uHeader = "#EXTM3U"

// Save writes every playlist to dir as <name>.m3u, one absolute track path
// per line. m3u files for playlists no longer in the store are removed so the
// directory mirrors the store exactly.
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create playlist dir: %w", err)
	}

	if existing, err := os.ReadDir(dir); err == nil {
		for _, dirEntry := range existing {
			ext := filepath.Ext(dirEntry.Name())
			if dirEntry.IsDir() || !strings.EqualFold(ext, ".m3u") {
				continue
			}
			name := strings.TrimSuffix(dirEntry.Name(), ext)
			if _, kept := s.lists[name]; !kept {
				if err := os.Remove(filepath.Join(dir, dirEntry.Name())); err != nil {
					slog.Warn("failed to remove stale playlist file", "name", name, "error", err)
				}
			}
		}
	}

	for _, name := range s.names {
		var b strings.Builder
		b.WriteString(m3uHeader + "\n")
		for _, entry := range s.lists[name] {
			b.WriteString(entry.Path + "\n")
		}
		path := filepath.Join(dir, name+".m3u")
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("failed to write playlist %q: %w", name, err)
		}
	}
	return nil
}

// Load reads all m3u files from dir. A missing directory or unreadable file
// yields an empty or partial store, never an error.
func Load(dir string) *Store {
	store := NewStore()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read playlist dir", "dir", dir, "error", err)
		}
		return store
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.EqualFold(filepath.Ext(dirEntry.Name()), ".m3u") {
			continue
		}
		name := strings.TrimSuffix(dirEntry.Name(), filepath.Ext(dirEntry.Name()))
		if err := store.loadOne(filepath.Join(dir, dirEntry.Name()), name); err != nil {
			slog.Warn("skipping unreadable playlist file", "file", dirEntry.Name(), "error", err)
		}
	}

	return store
}

func (s *Store) loadOne(path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := s.Create(name); err != nil {
		return err
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.AddTrack(name, EntryForPath(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
