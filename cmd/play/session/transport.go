package session

import (
	"time"

	"github.com/gigurra/rhythm/cmd/play/audio"
	"github.com/gigurra/rhythm/cmd/play/library"
)

// Phase is the playback state of the transport.
type Phase int

const (
	Stopped Phase = iota
	Playing
	Paused
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// RepeatMode controls what happens when a track ends naturally.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

// Next cycles to the following repeat mode.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatOff
	}
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatOne:
		return "repeat one"
	case RepeatAll:
		return "repeat all"
	default:
		return "off"
	}
}

// Outcome tells the session what a backend event resolved to.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeTrackEnded
	OutcomeError
)

// transport owns the single active playback slot: current track, phase,
// position, volume and mute. Every command it sends to the audio backend gets
// a fresh monotonic sequence number; incoming events carrying anything older
// than the relevant sequence number are discarded, so a late position report
// can never walk the progress display backwards after a seek, volume change
// or stop.
type transport struct {
	phase    Phase
	track    *library.Track
	position time.Duration
	volume   int
	muted    bool

	seq     uint64 // last issued command sequence number
	loadSeq uint64 // seq of the load that started the current track, 0 when none

	send func(audio.Command)
}

func newTransport(send func(audio.Command), volume int) *transport {
	return &transport{
		volume: min(max(volume, 0), 100),
		send:   send,
	}
}

func (t *transport) issue(cmd audio.Command) {
	t.seq++
	cmd.Seq = t.seq
	t.send(cmd)
}

// load starts playback of a track from position zero.
func (t *transport) load(track library.Track) {
	t.issue(audio.Command{Op: audio.OpLoad, Path: track.Path})
	t.loadSeq = t.seq
	t.track = &track
	t.position = 0
	t.phase = Playing
}

func (t *transport) pause() bool {
	if t.phase != Playing {
		return false
	}
	t.issue(audio.Command{Op: audio.OpPause})
	t.phase = Paused
	return true
}

func (t *transport) resume() bool {
	if t.phase != Paused {
		return false
	}
	t.issue(audio.Command{Op: audio.OpResume})
	t.phase = Playing
	return true
}

// stop clears the playback slot. Bumping the sequence number here invalidates
// every in-flight backend report.
func (t *transport) stop() {
	if t.phase == Stopped {
		return
	}
	t.issue(audio.Command{Op: audio.OpStop})
	t.phase = Stopped
	t.track = nil
	t.position = 0
	t.loadSeq = 0
}

// seekBy moves the position by delta, clamped to [0, duration]. It reports
// true when the target reaches the end of the track, in which case the caller
// runs the same logic as a natural end of track.
func (t *transport) seekBy(delta time.Duration) bool {
	if t.track == nil || t.phase == Stopped {
		return false
	}
	target := min(max(t.position+delta, 0), t.track.Duration)
	if target >= t.track.Duration && t.track.Duration > 0 {
		return true
	}
	t.issue(audio.Command{Op: audio.OpSeek, Pos: target})
	t.position = target
	return false
}

// syncVolume pushes the current level to the backend without changing it, so
// the device plays at the level the gauge shows from the first track on.
func (t *transport) syncVolume() {
	t.issue(audio.Command{Op: audio.OpSetVolume, Volume: t.volume})
}

// adjustVolume changes the volume by delta, clamped to [0, 100].
func (t *transport) adjustVolume(delta int) {
	t.volume = min(max(t.volume+delta, 0), 100)
	t.issue(audio.Command{Op: audio.OpSetVolume, Volume: t.volume})
}

func (t *transport) toggleMute() {
	t.muted = !t.muted
	t.issue(audio.Command{Op: audio.OpSetMuted, Muted: t.muted})
}

// applyEvent reconciles one asynchronous backend report with the transport
// state. Position reports are only accepted when tagged with the latest
// issued sequence number; end-of-track and error reports only when tagged
// with the current track's load sequence number.
func (t *transport) applyEvent(ev audio.Event) (Outcome, error) {
	switch ev.Kind {
	case audio.EventPosition:
		if ev.Seq != t.seq || t.phase != Playing || t.track == nil {
			return OutcomeNone, nil
		}
		pos := ev.Pos
		if t.track.Duration > 0 {
			pos = min(pos, t.track.Duration)
		}
		// Seeks set the position directly and bump the sequence number, so an
		// accepted report may only ever move the position forward.
		if pos < t.position {
			return OutcomeNone, nil
		}
		t.position = pos
		return OutcomeNone, nil

	case audio.EventEnded:
		if t.loadSeq == 0 || ev.Seq != t.loadSeq || t.phase == Stopped {
			return OutcomeNone, nil
		}
		return OutcomeTrackEnded, nil

	case audio.EventError:
		if t.loadSeq == 0 || ev.Seq != t.loadSeq {
			return OutcomeNone, nil
		}
		t.phase = Stopped
		t.track = nil
		t.position = 0
		t.loadSeq = 0
		return OutcomeError, ev.Err
	}

	return OutcomeNone, nil
}
