//go:build !((linux && cgo) || windows || darwin)

package audio

// Available indicates whether audio playback is supported in this build.
// Output on linux requires CGO for the native sound libraries.
const Available = false

// nopBackend swallows commands and never emits events. The player UI still
// works, just silently.
type nopBackend struct {
	events chan Event
}

// NewBackend creates a no-op audio backend for builds without audio support.
func NewBackend() Backend {
	return &nopBackend{events: make(chan Event)}
}

func (b *nopBackend) Send(cmd Command) {}

func (b *nopBackend) Events() <-chan Event {
	return b.events
}

func (b *nopBackend) Close() {}
