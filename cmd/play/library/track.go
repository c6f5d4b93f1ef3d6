package library

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Track is an immutable record describing one audio file discovered by a scan.
// Its ID is a v5 UUID derived from the file path, so re-scanning the same file
// always yields the same identity.
type Track struct {
	ID       uuid.UUID
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// IDForPath returns the deterministic track id for a file path.
func IDForPath(path string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(path))
}

// FormatDuration renders a duration as mm:ss for display.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
