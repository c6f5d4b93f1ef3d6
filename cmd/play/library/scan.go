package library

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// SupportedExt reports whether a file extension (with leading dot) is a
// playable audio format.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp3", ".wav", ".flac", ".ogg":
		return true
	}
	return false
}

// DefaultMusicDir returns the user's music directory, falling back to the
// current working directory.
func DefaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, "Music")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Scan walks root and returns a Track for every playable audio file found.
// Files that cannot be decoded are skipped, not fatal.
func Scan(root string) ([]Track, error) {
	var found []Track

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !SupportedExt(filepath.Ext(path)) {
			return nil
		}

		track, err := ReadTrack(path)
		if err != nil {
			slog.Warn("skipping unreadable audio file", "path", path, "error", err)
			return nil
		}
		found = append(found, track)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// ReadTrack builds a Track for a single audio file: metadata from its tags
// where present, duration from decoding the audio headers.
func ReadTrack(path string) (Track, error) {
	duration, err := readDuration(path)
	if err != nil {
		return Track{}, err
	}

	track := Track{
		ID:       IDForPath(path),
		Path:     path,
		Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Artist:   "Unknown Artist",
		Album:    "Unknown Album",
		Duration: duration,
	}

	// Missing or broken tags are fine, the filename title stands in.
	file, err := os.Open(path)
	if err != nil {
		return Track{}, err
	}
	defer func() { _ = file.Close() }()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return track, nil
	}
	if title := strings.TrimSpace(meta.Title()); title != "" {
		track.Title = title
	}
	if artist := strings.TrimSpace(meta.Artist()); artist != "" {
		track.Artist = artist
	}
	if album := strings.TrimSpace(meta.Album()); album != "" {
		track.Album = album
	}

	return track, nil
}

// readDuration decodes just enough of the file to measure its length.
func readDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		err = fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}
	defer func() { _ = streamer.Close() }()

	return format.SampleRate.D(streamer.Len()), nil
}
