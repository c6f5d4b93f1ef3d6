package session

import "unicode"

// Focus tells the dispatcher where text input should land.
type Focus int

const (
	// FocusBrowse routes printable runes to the search field and everything
	// else to shortcuts.
	FocusBrowse Focus = iota
	// FocusInput routes printable runes to the playlist name popup.
	FocusInput
)

// ActionKind enumerates everything a key press can mean.
type ActionKind int

const (
	ActNone ActionKind = iota
	ActQuit

	// Selection
	ActMoveUp
	ActMoveDown
	ActPageUp
	ActPageDown

	// Transport
	ActPlayStop
	ActPauseToggle
	ActMuteToggle
	ActSeekForward
	ActSeekBack
	ActVolumeUp
	ActVolumeDown
	ActNextTrack
	ActPrevTrack

	// Modes
	ActCycleSort
	ActCycleRepeat
	ActToggleShuffle

	// Playlists
	ActOpenPlaylistInput
	ActConfirmInput
	ActMarkTrack
	ActPlaylistDown
	ActPlaylistUp
	ActMovePlaylistUp
	ActMovePlaylistDown
	ActDeletePlaylist

	// UI / text
	ActToggleHelp
	ActClosePopup
	ActRune
	ActBackspace
)

// Action is the decoded meaning of one input event.
type Action struct {
	Kind ActionKind
	Rune rune
}

// Dispatch maps a key name (bubbletea notation) and the current focus to
// exactly one action. It is a pure lookup: whether the action is currently
// legal is decided by Apply, which treats illegal actions as no-ops.
func Dispatch(key string, focus Focus) Action {
	switch key {
	case "ctrl+q", "ctrl+c":
		return Action{Kind: ActQuit}
	case "up":
		return Action{Kind: ActMoveUp}
	case "down":
		return Action{Kind: ActMoveDown}
	case "pgup":
		return Action{Kind: ActPageUp}
	case "pgdown":
		return Action{Kind: ActPageDown}
	case "ctrl+@": // ctrl+space
		return Action{Kind: ActPlayStop}
	case "ctrl+p":
		return Action{Kind: ActPauseToggle}
	case "ctrl+o":
		// Not ctrl+m: that byte is carriage return, terminals report it as
		// enter.
		return Action{Kind: ActMuteToggle}
	case "right":
		return Action{Kind: ActSeekForward}
	case "left":
		return Action{Kind: ActSeekBack}
	case "ctrl+right":
		return Action{Kind: ActVolumeUp}
	case "ctrl+left":
		return Action{Kind: ActVolumeDown}
	case "ctrl+l":
		return Action{Kind: ActNextTrack}
	case "ctrl+h":
		return Action{Kind: ActPrevTrack}
	case "ctrl+t":
		return Action{Kind: ActCycleSort}
	case "ctrl+r":
		return Action{Kind: ActCycleRepeat}
	case "ctrl+e":
		return Action{Kind: ActToggleShuffle}
	case "ctrl+n":
		return Action{Kind: ActOpenPlaylistInput}
	case "enter":
		if focus == FocusInput {
			return Action{Kind: ActConfirmInput}
		}
		return Action{Kind: ActPlayStop}
	case "ctrl+a":
		return Action{Kind: ActMarkTrack}
	case "ctrl+j":
		return Action{Kind: ActPlaylistDown}
	case "ctrl+k":
		return Action{Kind: ActPlaylistUp}
	case "ctrl+up":
		return Action{Kind: ActMovePlaylistUp}
	case "ctrl+down":
		return Action{Kind: ActMovePlaylistDown}
	case "ctrl+x":
		return Action{Kind: ActDeletePlaylist}
	case "f1":
		return Action{Kind: ActToggleHelp}
	case "esc":
		return Action{Kind: ActClosePopup}
	case "backspace":
		return Action{Kind: ActBackspace}
	}

	runes := []rune(key)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) {
		return Action{Kind: ActRune, Rune: runes[0]}
	}

	return Action{Kind: ActNone}
}
