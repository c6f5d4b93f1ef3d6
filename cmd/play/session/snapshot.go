package session

import (
	"time"

	"github.com/google/uuid"
)

// TrackInfo is one row of the visible track list.
type TrackInfo struct {
	ID       uuid.UUID
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Playing  bool
	Marked   bool
}

// TransportInfo is the playback state as shown to the renderer.
type TransportInfo struct {
	Phase    Phase
	Track    *TrackInfo // nil when nothing is loaded
	Position time.Duration
	Volume   int
	Muted    bool
	Shuffle  bool
	Repeat   RepeatMode
}

// Snapshot is a read-only composite of all session state, built fresh per
// render tick. The renderer never sees state mixed from two commands: every
// field is copied out in one go after the command (and any pending backend
// events) have been fully applied.
type Snapshot struct {
	Tracks   []TrackInfo
	Selected int // index into Tracks, -1 when empty

	Transport TransportInfo

	Playlists      []string // All Songs first, then the store order
	ActivePlaylist int      // index into Playlists

	SearchText string
	Sort       SortCriterion

	HelpVisible  bool
	InputVisible bool
	InputText    string
	Status       string
}

// Snapshot composes the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	var playingID uuid.UUID
	if s.transport.track != nil {
		playingID = s.transport.track.ID
	}

	tracks := make([]TrackInfo, len(s.view))
	for i, track := range s.view {
		tracks[i] = TrackInfo{
			ID:       track.ID,
			Title:    track.Title,
			Artist:   track.Artist,
			Album:    track.Album,
			Duration: track.Duration,
			Playing:  s.transport.track != nil && track.ID == playingID,
			Marked:   s.marked[track.ID],
		}
	}

	transport := TransportInfo{
		Phase:    s.transport.phase,
		Position: s.transport.position,
		Volume:   s.transport.volume,
		Muted:    s.transport.muted,
		Shuffle:  s.shuffle,
		Repeat:   s.repeat,
	}
	if t := s.transport.track; t != nil {
		transport.Track = &TrackInfo{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: t.Duration,
			Playing:  true,
		}
	}

	playlists := append([]string{AllSongs}, s.store.Names()...)

	return Snapshot{
		Tracks:         tracks,
		Selected:       s.selected,
		Transport:      transport,
		Playlists:      playlists,
		ActivePlaylist: s.activePlaylist,
		SearchText:     s.search,
		Sort:           s.sort,
		HelpVisible:    s.helpVisible,
		InputVisible:   s.inputVisible,
		InputText:      s.inputText,
		Status:         s.status,
	}
}
