package play

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/rhythm/cmd/common"
	"github.com/gigurra/rhythm/cmd/play/audio"
	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/gigurra/rhythm/cmd/play/notify"
	"github.com/gigurra/rhythm/cmd/play/playlist"
	"github.com/gigurra/rhythm/cmd/play/session"
	"github.com/gigurra/rhythm/cmd/play/tui"
	"github.com/spf13/cobra"
)

type Params struct {
	Dir    string `short:"d" help:"Music directory to play from (default ~/Music)." default:""`
	Volume int    `short:"v" help:"Initial volume, 0-100." default:"85"`
	Notify bool   `short:"n" help:"Send desktop notifications on track changes." default:"true"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "play",
		Short:       "Play music from a local directory",
		Long:        "Interactive terminal music player. Scans a directory for audio files and plays them with search, playlists, shuffle and repeat.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	dir := params.Dir
	if dir == "" {
		dir = library.DefaultMusicDir()
	}

	tracks, err := library.Scan(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(tracks) == 0 {
		slog.Warn("no playable tracks found", "dir", dir)
	}

	if !audio.Available {
		slog.Warn("audio output is not available in this build, playback commands will be ignored")
	}
	backend := audio.NewBackend()
	defer backend.Close()

	configDir := common.ConfigDir()
	store := playlist.Load(configDir)

	sess := session.New(backend.Send, store,
		session.WithVolume(params.Volume),
		session.WithNotifier(notify.NewDesktop(params.Notify)),
	)
	sess.SetCatalog(tracks)

	if err := tui.Run(sess, backend, dir); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}

	if err := store.Save(configDir); err != nil {
		return fmt.Errorf("failed to save playlists: %w", err)
	}
	return nil
}
