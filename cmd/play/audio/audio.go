// Package audio drives the physical audio output. The session talks to it
// exclusively through sequence-numbered commands and events: commands flow in
// on a queue, position/end-of-track/error events flow out on another, and no
// mutable state is shared across the boundary.
package audio

import "time"

// Op identifies a backend command.
type Op int

const (
	OpLoad Op = iota // start playback of a new file
	OpPlay
	OpPause
	OpResume
	OpStop
	OpSeek
	OpSetVolume
	OpSetMuted
)

// Command is one instruction to the backend. Seq is chosen by the session and
// increases monotonically; the backend tags its outgoing events with the
// highest Seq it has processed so the session can discard stale reports.
type Command struct {
	Seq    uint64
	Op     Op
	Path   string        // OpLoad
	Pos    time.Duration // OpSeek
	Volume int           // OpSetVolume, 0-100
	Muted  bool          // OpSetMuted
}

// EventKind identifies a backend event.
type EventKind int

const (
	// EventPosition reports playback progress. Seq is the latest command
	// sequence number the backend has processed.
	EventPosition EventKind = iota
	// EventEnded reports natural end of track. Seq is the sequence number of
	// the OpLoad that started the track.
	EventEnded
	// EventError reports a decode or output failure. Seq as for EventEnded.
	EventError
)

// Event is one asynchronous report from the backend.
type Event struct {
	Seq  uint64
	Kind EventKind
	Pos  time.Duration
	Err  error
}

// Backend is the playback device as seen by the session.
type Backend interface {
	// Send enqueues a command without blocking.
	Send(cmd Command)
	// Events returns the outgoing event queue. The session drains it
	// non-blockingly once per tick.
	Events() <-chan Event
	// Close stops playback and releases the output device.
	Close()
}
