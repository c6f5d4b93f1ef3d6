package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore()
	if err := s.Create("Morning"); err != nil {
		t.Fatal(err)
	}
	if err := s.Create("Evening"); err != nil {
		t.Fatal(err)
	}
	_ = s.AddTrack("Morning", EntryForPath("/music/a.mp3"))
	_ = s.AddTrack("Morning", EntryForPath("/music/b.flac"))
	_ = s.AddTrack("Evening", EntryForPath("/music/c.ogg"))

	if err := s.Save(dir); err != nil {
		t.Fatal(err)
	}

	loaded := Load(dir)
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d playlists, want 2", loaded.Len())
	}

	morning, err := loaded.Tracks("Morning")
	if err != nil {
		t.Fatal(err)
	}
	if len(morning) != 2 || morning[0].Path != "/music/a.mp3" || morning[1].Path != "/music/b.flac" {
		t.Errorf("Morning = %v", morning)
	}
	// Deterministic ids survive the path-only file format.
	if morning[0].ID != EntryForPath("/music/a.mp3").ID {
		t.Errorf("id not rederived from path: %v", morning[0].ID)
	}
}

func TestSave_RemovesDeletedPlaylistFiles(t *testing.T) {
	dir := t.TempDir()

	s := NewStore()
	if err := s.Create("Keep"); err != nil {
		t.Fatal(err)
	}
	if err := s.Create("Drop"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(dir); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("Drop"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(dir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "Drop.m3u")); !os.IsNotExist(err) {
		t.Errorf("Drop.m3u still on disk, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Keep.m3u")); err != nil {
		t.Errorf("Keep.m3u missing: %v", err)
	}
}

func TestLoad_MissingDirYieldsEmptyStore(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if s.Len() != 0 {
		t.Errorf("loaded %d playlists from a missing dir", s.Len())
	}
}

func TestLoad_SkipsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	content := "#EXTM3U\n\n# a comment\n/music/a.mp3\n\n/music/b.mp3\n"
	if err := os.WriteFile(filepath.Join(dir, "Mix.m3u"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir)

	entries, err := s.Tracks("Mix")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Path != "/music/a.mp3" || entries[1].Path != "/music/b.mp3" {
		t.Errorf("entries = %v", entries)
	}
}

func TestLoad_IgnoresNonM3uFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir)
	if s.Len() != 0 {
		t.Errorf("loaded %d playlists, want 0", s.Len())
	}
}
