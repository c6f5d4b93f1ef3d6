package session

import (
	"sort"
	"strings"

	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/samber/lo"
)

// SortCriterion orders the visible track list.
type SortCriterion int

const (
	SortTitle SortCriterion = iota
	SortArtist
	SortAlbum
	SortDuration
)

// Next cycles to the following sort criterion.
func (c SortCriterion) Next() SortCriterion {
	switch c {
	case SortTitle:
		return SortArtist
	case SortArtist:
		return SortAlbum
	case SortAlbum:
		return SortDuration
	default:
		return SortTitle
	}
}

func (c SortCriterion) String() string {
	switch c {
	case SortArtist:
		return "Artist"
	case SortAlbum:
		return "Album"
	case SortDuration:
		return "Duration"
	default:
		return "Title"
	}
}

// matchesSearch reports whether a track matches the search text with a
// case-insensitive substring match against title, artist and album. Empty
// search matches everything.
func matchesSearch(track library.Track, search string) bool {
	if search == "" {
		return true
	}
	query := strings.ToLower(search)
	return strings.Contains(strings.ToLower(track.Title), query) ||
		strings.Contains(strings.ToLower(track.Artist), query) ||
		strings.Contains(strings.ToLower(track.Album), query)
}

// buildView derives the filtered, ordered view from source tracks. The sort
// is stable, so tracks with equal keys keep their source order and the view
// is reproducible for a given input.
func buildView(source []library.Track, search string, criterion SortCriterion) []library.Track {
	view := lo.Filter(source, func(track library.Track, _ int) bool {
		return matchesSearch(track, search)
	})

	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		switch criterion {
		case SortArtist:
			return strings.ToLower(a.Artist) < strings.ToLower(b.Artist)
		case SortAlbum:
			return strings.ToLower(a.Album) < strings.ToLower(b.Album)
		case SortDuration:
			return a.Duration < b.Duration
		default:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	})

	return view
}
