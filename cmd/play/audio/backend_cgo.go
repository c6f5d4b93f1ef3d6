//go:build (linux && cgo) || windows || darwin

package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Available indicates whether audio playback is supported in this build.
const Available = true

const positionInterval = 100 * time.Millisecond

// beepBackend plays audio through the beep speaker. All beep state is owned
// by the run goroutine; the session only ever touches the channels.
type beepBackend struct {
	commands chan Command
	events   chan Event
	ended    chan uint64
	quit     chan struct{}

	initialized bool
	sampleRate  beep.SampleRate
	streamer    beep.StreamSeekCloser
	format      beep.Format
	volumeFx    *effects.Volume
	ctrl        *beep.Ctrl

	lastSeq uint64 // highest command seq processed
	loadSeq uint64 // seq of the load that started the current track
	level   int    // 0-100
	muted   bool
	paused  bool
}

// NewBackend creates the beep-based audio backend and starts its worker.
func NewBackend() Backend {
	b := &beepBackend{
		commands:   make(chan Command, 16),
		events:     make(chan Event, 64),
		ended:      make(chan uint64, 1),
		quit:       make(chan struct{}),
		sampleRate: beep.SampleRate(44100),
		level:      100,
	}
	go b.run()
	return b
}

func (b *beepBackend) Send(cmd Command) {
	select {
	case b.commands <- cmd:
	default:
		slog.Warn("audio command queue full, dropping command", "op", cmd.Op, "seq", cmd.Seq)
	}
}

func (b *beepBackend) Events() <-chan Event {
	return b.events
}

func (b *beepBackend) Close() {
	close(b.quit)
}

func (b *beepBackend) run() {
	ticker := time.NewTicker(positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.quit:
			b.stop()
			return
		case cmd := <-b.commands:
			b.apply(cmd)
		case seq := <-b.ended:
			b.stop()
			b.emit(Event{Seq: seq, Kind: EventEnded})
		case <-ticker.C:
			b.reportPosition()
		}
	}
}

// emit never blocks; if the session has fallen behind, old reports are
// dropped in favour of keeping the worker responsive.
func (b *beepBackend) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

func (b *beepBackend) apply(cmd Command) {
	b.lastSeq = cmd.Seq

	switch cmd.Op {
	case OpLoad:
		if err := b.load(cmd.Path); err != nil {
			slog.Warn("failed to start playback", "path", cmd.Path, "error", err)
			b.emit(Event{Seq: cmd.Seq, Kind: EventError, Err: err})
			return
		}
		b.loadSeq = cmd.Seq
	case OpPlay, OpResume:
		b.setPaused(false)
	case OpPause:
		b.setPaused(true)
	case OpStop:
		b.stop()
	case OpSeek:
		b.seek(cmd.Pos)
	case OpSetVolume:
		b.level = min(max(cmd.Volume, 0), 100)
		b.applyVolume()
	case OpSetMuted:
		b.muted = cmd.Muted
		b.applyVolume()
	}
}

func (b *beepBackend) load(path string) error {
	b.stop()

	file, err := os.Open(path)
	if err != nil {
		return err
	}

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
		_ = file.Close()
		return err
	}

	if !b.initialized {
		if err := speaker.Init(b.sampleRate, b.sampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			return err
		}
		b.initialized = true
	}

	b.streamer = streamer
	b.format = format

	resampled := beep.Resample(4, format.SampleRate, b.sampleRate, streamer)
	b.volumeFx = &effects.Volume{Streamer: resampled, Base: 2}
	b.ctrl = &beep.Ctrl{Streamer: b.volumeFx}
	b.paused = false
	b.applyVolume()

	seq := b.lastSeq
	speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
		// Runs on the speaker goroutine; hand the end-of-track back to the
		// worker so channel state stays single-owner.
		select {
		case b.ended <- seq:
		default:
		}
	})))

	return nil
}

func (b *beepBackend) stop() {
	if b.ctrl != nil {
		speaker.Clear()
		b.ctrl = nil
		b.volumeFx = nil
	}
	if b.streamer != nil {
		_ = b.streamer.Close()
		b.streamer = nil
	}
	b.paused = false
}

func (b *beepBackend) setPaused(paused bool) {
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = paused
	speaker.Unlock()
	b.paused = paused
}

func (b *beepBackend) seek(pos time.Duration) {
	if b.streamer == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()

	samples := min(max(b.format.SampleRate.N(pos), 0), b.streamer.Len())
	if err := b.streamer.Seek(samples); err != nil {
		slog.Warn("seek failed", "pos", pos, "error", err)
	}
}

func (b *beepBackend) applyVolume() {
	if b.volumeFx == nil {
		return
	}
	speaker.Lock()
	b.volumeFx.Volume = volumeGain(b.level)
	b.volumeFx.Silent = b.muted || b.level == 0
	speaker.Unlock()
}

// volumeGain maps the 0-100 volume level onto the exponential gain scale of
// effects.Volume, with 100 at unity.
func volumeGain(level int) float64 {
	return (float64(level) - 100) / 25
}

func (b *beepBackend) reportPosition() {
	if b.streamer == nil || b.paused {
		return
	}
	speaker.Lock()
	pos := b.format.SampleRate.D(b.streamer.Position())
	speaker.Unlock()

	b.emit(Event{Seq: b.lastSeq, Kind: EventPosition, Pos: pos})
}
