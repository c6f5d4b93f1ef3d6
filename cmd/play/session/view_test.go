package session

import (
	"testing"
	"time"

	"github.com/gigurra/rhythm/cmd/play/library"
)

func namedTrack(title, artist, album string, duration time.Duration) library.Track {
	path := "/music/" + artist + "/" + title + ".mp3"
	return library.Track{
		ID:       library.IDForPath(path),
		Path:     path,
		Title:    title,
		Artist:   artist,
		Album:    album,
		Duration: duration,
	}
}

func titles(tracks []library.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title
	}
	return out
}

func TestBuildView_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	source := []library.Track{
		namedTrack("Breathe", "Floyd", "Moon", time.Minute),
		namedTrack("Money", "floyd", "Moon", time.Minute),
		namedTrack("Something", "Beatles", "Abbey Road", time.Minute),
	}

	tests := []struct {
		search string
		want   int
	}{
		{"", 3},
		{"FLOYD", 2},
		{"moon", 2},
		{"breathe", 1},
		{"abbey", 1},
		{"nothing-matches", 0},
	}

	for _, tt := range tests {
		got := buildView(source, tt.search, SortTitle)
		if len(got) != tt.want {
			t.Errorf("buildView(search=%q) returned %d tracks, want %d", tt.search, len(got), tt.want)
		}
	}
}

func TestBuildView_SortCriteria(t *testing.T) {
	source := []library.Track{
		namedTrack("Charlie", "Bravo", "Zulu", 3 * time.Minute),
		namedTrack("alpha", "Charlie", "Yankee", 1 * time.Minute),
		namedTrack("Bravo", "alpha", "xray", 2 * time.Minute),
	}

	tests := []struct {
		criterion SortCriterion
		want      []string
	}{
		{SortTitle, []string{"alpha", "Bravo", "Charlie"}},
		{SortArtist, []string{"Bravo", "Charlie", "alpha"}},
		{SortAlbum, []string{"Bravo", "alpha", "Charlie"}},
		{SortDuration, []string{"alpha", "Bravo", "Charlie"}},
	}

	for _, tt := range tests {
		got := titles(buildView(source, "", tt.criterion))
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("sort by %v = %v, want %v", tt.criterion, got, tt.want)
				break
			}
		}
	}
}

func TestBuildView_StableOnEqualKeys(t *testing.T) {
	// Same title everywhere: the view must keep the source order.
	source := []library.Track{
		namedTrack("Same", "first", "a", time.Minute),
		namedTrack("Same", "second", "a", time.Minute),
		namedTrack("Same", "third", "a", time.Minute),
	}

	got := buildView(source, "", SortTitle)
	for i, artist := range []string{"first", "second", "third"} {
		if got[i].Artist != artist {
			t.Fatalf("tie order broken: got %v", titles(got))
		}
	}
}

func TestBuildView_DoesNotMutateSource(t *testing.T) {
	source := []library.Track{
		namedTrack("b", "x", "x", time.Minute),
		namedTrack("a", "x", "x", time.Minute),
	}

	_ = buildView(source, "", SortTitle)

	if source[0].Title != "b" || source[1].Title != "a" {
		t.Errorf("source order changed: %v", titles(source))
	}
}

func TestSortCriterion_NextCyclesThroughAll(t *testing.T) {
	c := SortTitle
	seen := map[SortCriterion]bool{}
	for range 4 {
		seen[c] = true
		c = c.Next()
	}
	if c != SortTitle {
		t.Errorf("cycle did not return to SortTitle, got %v", c)
	}
	if len(seen) != 4 {
		t.Errorf("cycle visited %d criteria, want 4", len(seen))
	}
}

func TestRepeatMode_NextCyclesThroughAll(t *testing.T) {
	m := RepeatOff
	seen := map[RepeatMode]bool{}
	for range 3 {
		seen[m] = true
		m = m.Next()
	}
	if m != RepeatOff {
		t.Errorf("cycle did not return to RepeatOff, got %v", m)
	}
	if len(seen) != 3 {
		t.Errorf("cycle visited %d modes, want 3", len(seen))
	}
}
