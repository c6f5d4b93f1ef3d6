// Package session implements the playback session engine: it owns the
// catalog, the filtered/sorted view, playlist membership, the transport state
// machine and the current selection, translates key presses into state
// transitions, reconciles them with asynchronous reports from the audio
// backend, and emits one consistent snapshot per render tick.
package session

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/gigurra/rhythm/cmd/play/audio"
	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/gigurra/rhythm/cmd/play/playlist"
	"github.com/google/uuid"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 5
	pageJump   = 10
)

// AllSongs is the synthetic playlist scoping the view to the whole catalog.
const AllSongs = "All Songs"

// Notifier is told about playback events. Delivery failures are the
// implementation's problem; the session never checks.
type Notifier interface {
	TrackChanged(track library.Track)
	PlaybackPaused()
	PlaybackResumed()
	PlaybackError(msg string)
}

type nopNotifier struct{}

func (nopNotifier) TrackChanged(library.Track) {}
func (nopNotifier) PlaybackPaused()            {}
func (nopNotifier) PlaybackResumed()           {}
func (nopNotifier) PlaybackError(string)       {}

// Session is single-goroutine state: the UI loop applies one action at a
// time, drains backend events between actions, and reads snapshots in
// between. Nothing here is touched from the audio backend's goroutine.
type Session struct {
	catalog []library.Track
	byID    map[uuid.UUID]library.Track

	store          *playlist.Store
	activePlaylist int // 0 = All Songs, i>0 = store.Names()[i-1]

	search   string
	sort     SortCriterion
	view     []library.Track
	selected int // index into view, -1 when view is empty

	shuffle    bool
	shuffled   []int // permutation of view indices, regenerated per view change
	shufflePos int   // cursor into shuffled, -1 before the first draw
	repeat     RepeatMode
	rng        *rand.Rand

	transport *transport

	marked      map[uuid.UUID]bool
	markedOrder []uuid.UUID

	helpVisible  bool
	inputVisible bool
	inputText    string
	status       string

	notifier Notifier
}

// Option customizes a new Session.
type Option func(*Session)

// WithNotifier routes playback events to n.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithVolume sets the initial volume (0-100).
func WithVolume(volume int) Option {
	return func(s *Session) { s.transport.volume = min(max(volume, 0), 100) }
}

// WithRandSeed makes shuffle order deterministic, for tests.
func WithRandSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// New creates a session around a playlist store and an audio command sink.
func New(send func(audio.Command), store *playlist.Store, opts ...Option) *Session {
	s := &Session{
		byID:       make(map[uuid.UUID]library.Track),
		store:      store,
		selected:   -1,
		shufflePos: -1,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		transport:  newTransport(send, 100),
		marked:     make(map[uuid.UUID]bool),
		notifier:   nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transport.syncVolume()
	return s
}

// SetCatalog replaces the catalog wholesale, e.g. after a rescan. Search,
// sort, playlists and transport state survive; the selection follows its
// track where possible.
func (s *Session) SetCatalog(tracks []library.Track) {
	s.catalog = slices.Clone(tracks)
	s.byID = make(map[uuid.UUID]library.Track, len(tracks))
	for _, track := range tracks {
		s.byID[track.ID] = track
	}
	s.rebuildView()
}

// Focus reports where the dispatcher should route text input right now.
func (s *Session) Focus() Focus {
	if s.inputVisible {
		return FocusInput
	}
	return FocusBrowse
}

// HandleKey dispatches and applies one key press. It reports true when the
// key means quit; shutting down is the caller's job.
func (s *Session) HandleKey(key string) bool {
	action := Dispatch(key, s.Focus())
	if action.Kind == ActQuit {
		return true
	}
	s.Apply(action)
	return false
}

// HandleEvent reconciles one asynchronous backend event.
func (s *Session) HandleEvent(ev audio.Event) {
	outcome, err := s.transport.applyEvent(ev)
	switch outcome {
	case OutcomeTrackEnded:
		s.advanceAfterEnd()
	case OutcomeError:
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		s.status = "playback error: " + msg
		s.notifier.PlaybackError(msg)
	}
}

// Apply performs one action. Actions that are illegal in the current state
// are silent no-ops, never errors.
func (s *Session) Apply(action Action) {
	s.status = ""

	switch action.Kind {
	case ActMoveUp:
		s.moveSelection(-1, true)
	case ActMoveDown:
		s.moveSelection(1, true)
	case ActPageUp:
		s.moveSelection(-pageJump, false)
	case ActPageDown:
		s.moveSelection(pageJump, false)

	case ActPlayStop:
		s.playStop()
	case ActPauseToggle:
		s.pauseToggle()
	case ActMuteToggle:
		s.transport.toggleMute()
	case ActSeekForward:
		if s.transport.seekBy(seekStep) {
			s.advanceAfterEnd()
		}
	case ActSeekBack:
		_ = s.transport.seekBy(-seekStep)
	case ActVolumeUp:
		s.transport.adjustVolume(volumeStep)
	case ActVolumeDown:
		s.transport.adjustVolume(-volumeStep)
	case ActNextTrack:
		s.skip(true)
	case ActPrevTrack:
		s.skip(false)

	case ActCycleSort:
		s.sort = s.sort.Next()
		s.rebuildView()
	case ActCycleRepeat:
		s.repeat = s.repeat.Next()
	case ActToggleShuffle:
		s.shuffle = !s.shuffle
		s.reshuffle()

	case ActOpenPlaylistInput:
		s.inputVisible = true
		s.inputText = ""
	case ActConfirmInput:
		s.createPlaylistFromInput()
	case ActMarkTrack:
		s.toggleMark()
	case ActPlaylistDown:
		s.selectPlaylist(1)
	case ActPlaylistUp:
		s.selectPlaylist(-1)
	case ActMovePlaylistUp:
		s.moveActivePlaylist(-1)
	case ActMovePlaylistDown:
		s.moveActivePlaylist(1)
	case ActDeletePlaylist:
		s.deleteActivePlaylist()

	case ActToggleHelp:
		s.helpVisible = !s.helpVisible
	case ActClosePopup:
		s.helpVisible = false
		s.inputVisible = false
		s.inputText = ""
	case ActRune:
		if s.inputVisible {
			s.inputText += string(action.Rune)
		} else {
			s.search += string(action.Rune)
			s.rebuildView()
		}
	case ActBackspace:
		if s.inputVisible {
			s.inputText = trimLastRune(s.inputText)
		} else if s.search != "" {
			s.search = trimLastRune(s.search)
			s.rebuildView()
		}
	}
}

func trimLastRune(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	return string(runes[:len(runes)-1])
}

// sourceTracks resolves the track list the view is built from: the whole
// catalog, or the active playlist with dangling references filtered out.
func (s *Session) sourceTracks() []library.Track {
	if s.activePlaylist == 0 {
		return s.catalog
	}
	names := s.store.Names()
	if s.activePlaylist-1 >= len(names) {
		return s.catalog
	}
	entries, err := s.store.Tracks(names[s.activePlaylist-1])
	if err != nil {
		return s.catalog
	}
	var tracks []library.Track
	for _, entry := range entries {
		if track, known := s.byID[entry.ID]; known {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// rebuildView recomputes the visible track list and everything derived from
// it: the selection is re-anchored to its track (or clamped), and the shuffle
// permutation is regenerated.
func (s *Session) rebuildView() {
	var selectedID uuid.UUID
	hadSelection := s.selected >= 0 && s.selected < len(s.view)
	if hadSelection {
		selectedID = s.view[s.selected].ID
	}

	s.view = buildView(s.sourceTracks(), s.search, s.sort)

	s.selected = -1
	if hadSelection {
		s.selected = slices.IndexFunc(s.view, func(t library.Track) bool { return t.ID == selectedID })
	}
	if s.selected < 0 && len(s.view) > 0 {
		s.selected = 0
	}

	s.reshuffle()
}

// reshuffle regenerates the shuffle permutation for the current view and
// anchors the cursor on the playing track, so the no-repeat-per-cycle
// guarantee restarts whenever the view changes.
func (s *Session) reshuffle() {
	s.shuffled = s.rng.Perm(len(s.view))
	s.shufflePos = -1
	if playingIdx := s.playingViewIndex(); playingIdx >= 0 {
		s.shufflePos = slices.Index(s.shuffled, playingIdx)
	}
}

// playingViewIndex locates the current track in the view, -1 if absent.
func (s *Session) playingViewIndex() int {
	if s.transport.track == nil {
		return -1
	}
	id := s.transport.track.ID
	return slices.IndexFunc(s.view, func(t library.Track) bool { return t.ID == id })
}

// moveSelection moves the selection by delta. Single steps wrap around like
// the arrow keys; page jumps clamp at the ends.
func (s *Session) moveSelection(delta int, wrap bool) {
	if len(s.view) == 0 {
		s.selected = -1
		return
	}
	if s.selected < 0 {
		s.selected = 0
		return
	}
	next := s.selected + delta
	if wrap {
		next = ((next % len(s.view)) + len(s.view)) % len(s.view)
	} else {
		next = min(max(next, 0), len(s.view)-1)
	}
	s.selected = next
}

// playStop toggles between playing the selected track and stopping.
func (s *Session) playStop() {
	if s.selected < 0 || s.selected >= len(s.view) {
		return
	}
	selected := s.view[s.selected]
	if s.transport.track != nil && s.transport.track.ID == selected.ID {
		s.transport.stop()
		return
	}
	s.playIndex(s.selected)
}

func (s *Session) pauseToggle() {
	switch s.transport.phase {
	case Playing:
		if s.transport.pause() {
			s.notifier.PlaybackPaused()
		}
	case Paused:
		if s.transport.resume() {
			s.notifier.PlaybackResumed()
		}
	}
}

// playIndex loads the view track at index and keeps selection and shuffle
// cursor in step with it.
func (s *Session) playIndex(index int) {
	if index < 0 || index >= len(s.view) {
		return
	}
	track := s.view[index]
	s.transport.load(track)
	s.selected = index
	if pos := slices.Index(s.shuffled, index); pos >= 0 {
		s.shufflePos = pos
	}
	s.notifier.TrackChanged(track)
}

// skip moves to the next or previous track; a no-op while stopped.
func (s *Session) skip(forward bool) {
	if s.transport.phase == Stopped {
		return
	}
	var index int
	if forward {
		index = s.nextViewIndex(true)
	} else {
		index = s.prevViewIndex()
	}
	if index >= 0 {
		s.playIndex(index)
	}
}

// nextViewIndex picks the track that follows the current one, honoring
// shuffle. Without wrap it returns -1 at the end of the cycle.
func (s *Session) nextViewIndex(wrap bool) int {
	if len(s.view) == 0 {
		return -1
	}

	if s.shuffle {
		next := s.shufflePos + 1
		if next >= len(s.shuffled) {
			if !wrap {
				return -1
			}
			next = 0
		}
		s.shufflePos = next
		return s.shuffled[next]
	}

	current := s.playingViewIndex()
	if current < 0 {
		current = max(s.selected, 0) - 1
	}
	next := current + 1
	if next >= len(s.view) {
		if !wrap {
			return -1
		}
		next = 0
	}
	return next
}

func (s *Session) prevViewIndex() int {
	if len(s.view) == 0 {
		return -1
	}

	if s.shuffle {
		prev := s.shufflePos - 1
		if prev < 0 {
			prev = len(s.shuffled) - 1
		}
		s.shufflePos = prev
		return s.shuffled[prev]
	}

	current := s.playingViewIndex()
	if current < 0 {
		current = max(s.selected, 0)
	}
	prev := current - 1
	if prev < 0 {
		prev = len(s.view) - 1
	}
	return prev
}

// advanceAfterEnd resolves a finished track according to the repeat mode.
func (s *Session) advanceAfterEnd() {
	switch s.repeat {
	case RepeatOne:
		if s.transport.track != nil {
			s.transport.load(*s.transport.track)
		}
	case RepeatAll:
		if index := s.nextViewIndex(true); index >= 0 {
			s.playIndex(index)
		} else {
			s.transport.stop()
		}
	default:
		if index := s.nextViewIndex(false); index >= 0 {
			s.playIndex(index)
		} else {
			s.transport.stop()
		}
	}
}

func (s *Session) toggleMark() {
	if s.selected < 0 || s.selected >= len(s.view) {
		return
	}
	id := s.view[s.selected].ID
	if s.marked[id] {
		delete(s.marked, id)
		s.markedOrder = slices.DeleteFunc(s.markedOrder, func(m uuid.UUID) bool { return m == id })
		return
	}
	s.marked[id] = true
	s.markedOrder = append(s.markedOrder, id)
}

// createPlaylistFromInput turns the popup input and the marked tracks into a
// new playlist. Missing prerequisites keep the popup open with the reason in
// the status line.
func (s *Session) createPlaylistFromInput() {
	if !s.inputVisible {
		return
	}
	switch {
	case s.inputText == "" && len(s.markedOrder) == 0:
		s.status = "need a name and at least 1 marked track"
		return
	case s.inputText == "":
		s.status = "need a name"
		return
	case len(s.markedOrder) == 0:
		s.status = "need at least 1 marked track"
		return
	}

	name := s.inputText
	if err := s.store.Create(name); err != nil {
		s.status = fmt.Sprintf("cannot create %q: %v", name, err)
		return
	}
	for _, id := range s.markedOrder {
		track, known := s.byID[id]
		if !known {
			continue
		}
		_ = s.store.AddTrack(name, playlist.Entry{ID: track.ID, Path: track.Path})
	}

	s.marked = make(map[uuid.UUID]bool)
	s.markedOrder = nil
	s.inputVisible = false
	s.inputText = ""
}

// selectPlaylist moves the active playlist selection by delta with
// wraparound, index 0 being the synthetic All Songs playlist.
func (s *Session) selectPlaylist(delta int) {
	total := s.store.Len() + 1
	s.activePlaylist = ((s.activePlaylist+delta)%total + total) % total
	s.rebuildView()
}

func (s *Session) activePlaylistName() string {
	if s.activePlaylist == 0 {
		return AllSongs
	}
	names := s.store.Names()
	if s.activePlaylist-1 >= len(names) {
		return AllSongs
	}
	return names[s.activePlaylist-1]
}

func (s *Session) moveActivePlaylist(delta int) {
	if s.activePlaylist == 0 {
		return
	}
	name := s.activePlaylistName()
	if err := s.store.Move(name, delta); err != nil {
		return
	}
	// Follow the playlist to its new slot.
	if index := slices.Index(s.store.Names(), name); index >= 0 {
		s.activePlaylist = index + 1
	}
}

func (s *Session) deleteActivePlaylist() {
	if s.activePlaylist == 0 {
		s.status = "cannot delete " + AllSongs
		return
	}
	name := s.activePlaylistName()
	if err := s.store.Delete(name); err != nil {
		s.status = fmt.Sprintf("cannot delete %q: %v", name, err)
		return
	}
	s.activePlaylist = 0
	s.rebuildView()
}
