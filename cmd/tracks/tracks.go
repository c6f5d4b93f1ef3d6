package tracks

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/rhythm/cmd/common"
	"github.com/gigurra/rhythm/cmd/play/library"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Dir string `short:"d" help:"Music directory to scan (default ~/Music)." default:""`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tracks",
		Short:       "List playable tracks in a directory",
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

	found, err := library.Scan(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	slices.SortStableFunc(found, func(a, b library.Track) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Title", "Artist", "Album", "Length"})
	for _, row := range lo.Map(found, func(tr library.Track, _ int) table.Row {
		return table.Row{tr.Title, tr.Artist, tr.Album, library.FormatDuration(tr.Duration)}
	}) {
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d tracks", len(found))})
	t.Render()

	return nil
}
