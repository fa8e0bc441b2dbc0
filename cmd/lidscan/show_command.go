package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lidscan/internal/config"
	"lidscan/internal/snapshot"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the current snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, snap)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSnapshotTable(snap))
			return nil
		},
	}
}

func loadSnapshot(cfg *config.Config) (snapshot.Snapshot, error) {
	snap, err := snapshot.Load(cfg.Paths.OutputFile)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return snapshot.Snapshot{}, fmt.Errorf("no snapshot at %s; run `lidscan scan` first", cfg.Paths.OutputFile)
		}
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

func renderSnapshotTable(snap snapshot.Snapshot) string {
	titler := cases.Title(language.Und)
	bots := snap.Sorted()
	rows := make([][]string, 0, len(bots))
	for _, bot := range bots {
		rows = append(rows, []string{
			bot.Phone,
			bot.LID,
			string(bot.Source),
			displayOrDash(titler.String(strings.TrimSpace(bot.Platform))),
			displayOrDash(bot.Name),
			displayOrDash(bot.SessionID),
			formatTimestamp(bot.ExtractedAt),
		})
	}
	return renderTable(tableSpec{
		headers: []string{"Phone", "LID", "Source", "Platform", "Name", "Session", "Extracted"},
		rows:    rows,
		footer:  fmt.Sprintf("%d bot(s), written %s", snap.Count, formatTimestamp(snap.Timestamp)),
	})
}

func displayOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}
