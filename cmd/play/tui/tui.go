// Package tui renders the player and captures keyboard input. It owns no
// playback state of its own: every frame is drawn from a fresh session
// snapshot, and every key press is handed to the session's dispatcher.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/gigurra/rhythm/cmd/play/audio"
	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/gigurra/rhythm/cmd/play/session"
	"github.com/mattn/go-runewidth"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	playingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	gaugeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

const tickInterval = 200 * time.Millisecond

type tickMsg time.Time
type dirChangedMsg struct{}
type rescanMsg []library.Track

// Model is the bubbletea model wrapping the playback session.
type Model struct {
	sess     *session.Session
	backend  audio.Backend
	musicDir string

	width          int
	height         int
	viewportOffset int
}

// Run drives the player UI until the user quits.
func Run(sess *session.Session, backend audio.Backend, musicDir string) error {
	m := Model{
		sess:     sess,
		backend:  backend,
		musicDir: musicDir,
		width:    80,
		height:   24,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), watchMusicDirCmd(m.musicDir))
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchMusicDirCmd blocks until an audio file appears or disappears in the
// music directory, then reports that a rescan is due.
func watchMusicDirCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer func() { _ = watcher.Close() }()

		if err := watcher.Add(dir); err != nil {
			return nil
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !library.SupportedExt(filepath.Ext(event.Name)) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					return dirChangedMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return nil
			}
		}
	}
}

func rescanCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := library.Scan(dir)
		if err != nil {
			return nil
		}
		return rescanMsg(tracks)
	}
}

// drainEvents applies all pending backend reports without blocking.
func (m Model) drainEvents() {
	for {
		select {
		case ev := <-m.backend.Events():
			m.sess.HandleEvent(ev)
		default:
			return
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Pending backend reports are reconciled before the command so the
		// command acts on up-to-date transport state.
		m.drainEvents()
		if m.sess.HandleKey(msg.String()) {
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.drainEvents()
		return m, tickCmd()

	case dirChangedMsg:
		return m, tea.Batch(rescanCmd(m.musicDir), watchMusicDirCmd(m.musicDir))

	case rescanMsg:
		m.sess.SetCatalog([]library.Track(msg))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	snap := m.sess.Snapshot()

	if snap.HelpVisible {
		return m.renderHelp()
	}
	if snap.InputVisible {
		return m.renderPlaylistInput(snap)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n")

	listHeight := max(m.height-6, 1)
	list := m.renderTrackList(snap, listHeight)
	details := renderDetails(snap, max(m.width/4, 24))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, details))
	b.WriteString("\n")

	gaugeWidth := max(m.width*3/4-2, 10)
	b.WriteString(renderProgress(snap, gaugeWidth))
	b.WriteString("  ")
	b.WriteString(renderVolume(snap, max(m.width-gaugeWidth-12, 8)))
	b.WriteString("\n")

	if snap.Status != "" {
		b.WriteString(statusStyle.Render(" " + snap.Status))
	} else {
		b.WriteString(helpStyle.Render(" F1 help • ctrl+space play/stop • ctrl+q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderHeader(snap session.Snapshot) string {
	search := snap.SearchText
	if search == "" {
		search = "(type to search)"
	}
	modes := []string{"Sort: " + snap.Sort.String()}
	if snap.Transport.Shuffle {
		modes = append(modes, "shuffle")
	}
	if snap.Transport.Repeat != session.RepeatOff {
		modes = append(modes, snap.Transport.Repeat.String())
	}
	if snap.Transport.Muted {
		modes = append(modes, "muted")
	}

	playlist := snap.Playlists[snap.ActivePlaylist]
	header := fmt.Sprintf(" Search: %s │ Playlist: %s │ %s",
		search, playlist, strings.Join(modes, " │ "))
	return headerStyle.Render(runewidth.Truncate(header, max(m.width-1, 10), "…"))
}

func (m Model) renderTrackList(snap session.Snapshot, height int) string {
	// Keep the cursor inside the viewport.
	offset := m.viewportOffset
	if snap.Selected >= 0 && snap.Selected < offset {
		offset = snap.Selected
	}
	if snap.Selected >= offset+height {
		offset = snap.Selected - height + 1
	}
	offset = min(max(offset, 0), max(len(snap.Tracks)-height, 0))

	width := max(m.width*3/4, 20)
	var lines []string
	for i := offset; i < min(offset+height, len(snap.Tracks)); i++ {
		track := snap.Tracks[i]

		marker := "  "
		switch {
		case track.Playing && track.Marked:
			marker = "▶+"
		case track.Playing:
			marker = "▶ "
		case track.Marked:
			marker = " +"
		}

		line := fmt.Sprintf("%s%s  %s", marker, track.Title, helpStyle.Render(track.Artist))
		line = runewidth.Truncate(line, width-2, "…")

		switch {
		case i == snap.Selected:
			line = selectedStyle.Render(line)
		case track.Playing:
			line = playingStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, helpStyle.Render("  no tracks match"))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func renderDetails(snap session.Snapshot, width int) string {
	var lines []string
	lines = append(lines, headerStyle.Render("Selected"))
	if snap.Selected >= 0 && snap.Selected < len(snap.Tracks) {
		track := snap.Tracks[snap.Selected]
		lines = append(lines,
			"Title:  "+track.Title,
			"Artist: "+track.Artist,
			"Album:  "+track.Album,
			"Length: "+library.FormatDuration(track.Duration),
		)
	} else {
		lines = append(lines, helpStyle.Render("no track selected"))
	}

	lines = append(lines, "", headerStyle.Render("Playlists"))
	for i, name := range snap.Playlists {
		prefix := "  "
		if i == snap.ActivePlaylist {
			prefix = "» "
		}
		lines = append(lines, prefix+name)
	}

	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width-1, "…")
	}
	return detailStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderProgress(snap session.Snapshot, width int) string {
	label := "no track loaded"
	ratio := 0.0
	if t := snap.Transport.Track; t != nil {
		label = library.FormatDuration(snap.Transport.Position) + "/" + library.FormatDuration(t.Duration)
		if t.Duration > 0 {
			ratio = min(float64(snap.Transport.Position)/float64(t.Duration), 1)
		}
	}
	return " " + renderGauge(label, ratio, width)
}

func renderVolume(snap session.Snapshot, width int) string {
	label := fmt.Sprintf("%d%%", snap.Transport.Volume)
	if snap.Transport.Muted {
		label = "muted"
	}
	return renderGauge(label, float64(snap.Transport.Volume)/100, width)
}

func renderGauge(label string, ratio float64, width int) string {
	filled := int(ratio * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return gaugeStyle.Render(bar) + " " + label
}

func (m Model) renderPlaylistInput(snap session.Snapshot) string {
	content := headerStyle.Render("New playlist") + "\n\n" +
		snap.InputText + "▌\n\n" +
		helpStyle.Render("enter create • esc cancel")
	if snap.Status != "" {
		content += "\n" + statusStyle.Render(snap.Status)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		popupStyle.Render(content))
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Controls"))
	b.WriteString("\n\n")
	b.WriteString("    ↑/↓           Navigate tracks (wraps)\n")
	b.WriteString("    PgUp/PgDn     Page through the list\n")
	b.WriteString("    ctrl+space    Play selected / stop\n")
	b.WriteString("    ctrl+p        Pause / resume\n")
	b.WriteString("    ctrl+o        Mute / unmute\n")
	b.WriteString("    ctrl+l        Next track\n")
	b.WriteString("    ctrl+h        Previous track\n")
	b.WriteString("    ←/→           Seek -5s / +5s\n")
	b.WriteString("    ctrl+←/→      Volume down / up\n")
	b.WriteString("    ctrl+t        Cycle sort criterion\n")
	b.WriteString("    ctrl+r        Cycle repeat mode\n")
	b.WriteString("    ctrl+e        Toggle shuffle\n")
	b.WriteString("    type          Search (backspace deletes)\n")
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Playlists"))
	b.WriteString("\n\n")
	b.WriteString("    ctrl+a        Mark selected track for a new playlist\n")
	b.WriteString("    ctrl+n        New playlist from marked tracks\n")
	b.WriteString("    ctrl+j/k      Next / previous playlist\n")
	b.WriteString("    ctrl+↑/↓      Reorder the playlist list\n")
	b.WriteString("    ctrl+x        Delete selected playlist\n")
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  F1/esc close • ctrl+q quit"))
	b.WriteString("\n")
	return b.String()
}
