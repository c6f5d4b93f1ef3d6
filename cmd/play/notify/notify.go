// Package notify delivers desktop notifications for playback events.
// Delivery is strictly best-effort: failures are logged and swallowed.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/rhythm/cmd/play/library"
)

const appTitle = "rhythm"

// Desktop sends playback notifications through the OS notification service.
type Desktop struct {
	enabled bool
}

// NewDesktop creates a desktop notifier. When disabled every call is a no-op.
func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled}
}

func (d *Desktop) TrackChanged(track library.Track) {
	d.send("Now playing: " + track.Title + " - " + track.Artist)
}

func (d *Desktop) PlaybackPaused() {
	d.send("Playback paused")
}

func (d *Desktop) PlaybackResumed() {
	d.send("Playback resumed")
}

func (d *Desktop) PlaybackError(msg string) {
	d.send("Playback error: " + msg)
}

func (d *Desktop) send(message string) {
	if !d.enabled {
		return
	}
	if err := beeep.Notify(appTitle, message, ""); err != nil {
		slog.Debug("failed to deliver notification", "message", message, "error", err)
	}
}
