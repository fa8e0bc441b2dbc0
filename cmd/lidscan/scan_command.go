package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lidscan/internal/config"
	"lidscan/internal/extract"
	"lidscan/internal/logging"
)

type scanOutput struct {
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	ExitCode    int    `json:"exit_code"`
	Count       int    `json:"count"`
	Direct      int    `json:"direct"`
	Correlated  int    `json:"correlated"`
	Sessions    int    `json:"sessions"`
	OutputFile  string `json:"output_file"`
	LocalDBHint string `json:"local_db_hint,omitempty"`
	StoreSource string `json:"store,omitempty"`
	LogFile     string `json:"log_file,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var sessionsDir string
	var outputFile string
	var timeout time.Duration
	var noStore bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Resolve LIDs and write the snapshot",
		Long: "Correlates linked devices with contacts in the relational store, resolves LIDs from\n" +
			"session credentials, and atomically replaces the snapshot file. The exit status is\n" +
			"0 when identifiers were found, 1 when none were, and 2 when the snapshot could not be written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg, err := applyScanOverrides(cfg, sessionsDir, outputFile, timeout, noStore)
			if err != nil {
				return err
			}
			if err := runCfg.EnsureDirectories(); err != nil {
				return err
			}

			runID := extract.NewRunID()
			logger, logPath, err := logging.NewFromConfig(runCfg, runID, ctx.logLevel())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logging.CleanupOldLogs(logger, runCfg.Paths.LogDir, logging.RunLogPattern, runCfg.Logging.RetentionDays, logPath)

			signalCtx, stop := signal.NotifyContext(commandContextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, runErr := extract.Run(signalCtx, runCfg, logger, runID)
			out := scanOutput{
				RunID:       report.RunID,
				Status:      report.Status.String(),
				ExitCode:    int(report.Status),
				Count:       report.Snapshot.Count,
				Direct:      report.Direct,
				Correlated:  report.Correlated,
				Sessions:    report.Sessions,
				OutputFile:  report.OutputPath,
				LocalDBHint: report.LocalDBHint,
				StoreSource: report.StoreSource,
				LogFile:     logPath,
				DurationMS:  report.Duration.Milliseconds(),
			}
			if runErr != nil {
				out.Error = runErr.Error()
			}

			if ctx.jsonMode() {
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				printScanSummary(cmd, out, report.Status)
			}

			if report.Status == extract.StatusSuccess {
				return nil
			}
			return &exitCodeError{code: int(report.Status), err: runErr}
		},
	}

	cmd.Flags().StringVar(&sessionsDir, "sessions", "", "Sessions directory (overrides paths.sessions_dir)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Snapshot file (overrides paths.output_file)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall run budget (overrides run.timeout_seconds)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Skip name correlation against the contact store")
	return cmd
}

// applyScanOverrides returns a copy of cfg with command-line overrides applied.
func applyScanOverrides(cfg *config.Config, sessionsDir, outputFile string, timeout time.Duration, noStore bool) (*config.Config, error) {
	runCfg := *cfg
	if dir := strings.TrimSpace(sessionsDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve --sessions: %w", err)
		}
		runCfg.Paths.SessionsDir = expanded
	}
	if file := strings.TrimSpace(outputFile); file != "" {
		expanded, err := config.ExpandPath(file)
		if err != nil {
			return nil, fmt.Errorf("resolve --output: %w", err)
		}
		runCfg.Paths.OutputFile = expanded
	}
	if timeout < 0 {
		return nil, fmt.Errorf("--timeout must be positive")
	}
	if timeout > 0 {
		seconds := int((timeout + time.Second - 1) / time.Second)
		runCfg.Run.TimeoutSeconds = seconds
	}
	if noStore {
		runCfg.Store.Disabled = true
	}
	return &runCfg, nil
}

func printScanSummary(cmd *cobra.Command, out scanOutput, status extract.Status) {
	w := cmd.OutOrStdout()
	colorize := shouldColorize(w)
	for _, line := range renderSectionHeader("LID extraction", colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, renderStatusLine("Result", runStatusKind(status), fmt.Sprintf("%s (%d bot(s))", out.Status, out.Count), colorize))
	fmt.Fprintln(w, renderStatusLine("Direct", statusInfo, fmt.Sprintf("%d of %d session(s)", out.Direct, out.Sessions), colorize))
	storeKind, storeMsg := statusInfo, fmt.Sprintf("%d device(s) correlated", out.Correlated)
	if out.StoreSource == "" {
		storeKind, storeMsg = statusWarn, "no contact store used"
	}
	fmt.Fprintln(w, renderStatusLine("Correlation", storeKind, storeMsg, colorize))
	if out.Error != "" {
		fmt.Fprintln(w, renderStatusLine("Snapshot", statusError, out.Error, colorize))
	} else {
		fmt.Fprintln(w, renderStatusLine("Snapshot", statusOK, out.OutputFile, colorize))
	}
	if out.LocalDBHint != "" {
		fmt.Fprintln(w, renderStatusLine("Local DB", statusWarn, out.LocalDBHint+" present; secondary extraction needed", colorize))
	}
	if out.LogFile != "" {
		fmt.Fprintln(w, renderStatusLine("Log", statusInfo, out.LogFile, colorize))
	}
	fmt.Fprintln(w, renderStatusLine("Duration", statusInfo, (time.Duration(out.DurationMS)*time.Millisecond).String(), colorize))
}

func commandContextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
