package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lidscan/internal/config"
	"lidscan/internal/contactstore"
	"lidscan/internal/correlate"
	"lidscan/internal/logging"
	"lidscan/internal/scanner"
	"lidscan/internal/snapshot"
)

// Status is the run outcome. Its ordinal is the process exit code.
type Status int

const (
	// StatusSuccess means at least one identifier was found and persisted.
	StatusSuccess Status = iota
	// StatusEmpty means nothing resolved; an empty snapshot was still written.
	StatusEmpty
	// StatusFatal means the snapshot could not be persisted.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrDeadline reports that the run budget ran out before the snapshot was written.
	ErrDeadline = errors.New("run ended before snapshot write")
	// ErrScan reports a fault while walking the sessions directory.
	ErrScan = errors.New("session scan failed")
)

// contactStore is the subset of *contactstore.Store a run uses.
type contactStore interface {
	correlate.DeviceSource
	correlate.ContactLookup
	Driver() string
	Source() string
	Close() error
}

var (
	openStore    = defaultOpenStore
	scanSessions = defaultScanSessions
)

func defaultOpenStore(ctx context.Context, cfg config.Store) (contactStore, error) {
	store, err := contactstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func defaultScanSessions(ctx context.Context, cfg *config.Config, logger *slog.Logger) (scanner.Result, error) {
	return scanner.New(scanner.OptionsFromConfig(cfg), logger).Scan(ctx, cfg.Paths.SessionsDir)
}

// Report summarizes one run.
type Report struct {
	RunID       string
	Status      Status
	Snapshot    snapshot.Snapshot
	Direct      int
	Correlated  int
	Sessions    int
	OutputPath  string
	LocalDBHint string
	// StoreSource describes the contact store used, empty when none was reachable.
	StoreSource string
	Duration    time.Duration
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Run performs one extraction. A nil error always comes with StatusSuccess or
// StatusEmpty; a fatal run returns the cause.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (Report, error) {
	if runID == "" {
		runID = NewRunID()
	}
	logger = logging.NewComponentLogger(logger, "extract")
	start := time.Now()
	report := Report{RunID: runID, OutputPath: cfg.Paths.OutputFile}

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
	defer cancel()

	logger.Info("extraction started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("sessions_dir", cfg.Paths.SessionsDir),
		logging.String("output_file", cfg.Paths.OutputFile),
		logging.Duration("timeout", cfg.RunTimeout()))

	scan, err := scanSessions(runCtx, cfg, logger)
	if err != nil && runCtx.Err() == nil {
		report.Status = StatusFatal
		report.Duration = time.Since(start)
		logging.ErrorWithContext(logger, "session scan failed; snapshot not written", "scan_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, cfg.Paths.SessionsDir),
			logging.String(logging.FieldErrorHint, "check sessions directory permissions"),
			logging.String(logging.FieldImpact, "previous snapshot left in place"))
		return report, fmt.Errorf("%w: %v", ErrScan, err)
	}
	report.Direct = len(scan.Bots)
	report.Sessions = scan.Sessions
	report.LocalDBHint = scan.LocalDBHint

	// Correlation ends a third of the run budget before the run deadline; the
	// rest is reserved for assembly and the snapshot write.
	runDeadline, _ := runCtx.Deadline()
	corrCtx, cancelCorr := context.WithDeadline(runCtx, runDeadline.Add(-cfg.RunTimeout()/3))
	correlated, source := correlateFromStore(corrCtx, cfg, logger)
	if corrCtx.Err() != nil && runCtx.Err() == nil {
		logging.WarnWithContext(logger, "correlation budget exhausted", "correlation_timeout",
			logging.Int("correlated_count", len(correlated)),
			logging.String(logging.FieldErrorHint, "check contact store latency or raise run.timeout_seconds"),
			logging.String(logging.FieldImpact, "remaining devices not correlated this run"))
	}
	cancelCorr()
	report.Correlated = len(correlated)
	report.StoreSource = source

	if err := runCtx.Err(); err != nil {
		report.Status = StatusFatal
		report.Duration = time.Since(start)
		logging.ErrorWithContext(logger, "run budget exhausted; snapshot not written", "run_deadline",
			logging.Error(err),
			logging.Duration("timeout", cfg.RunTimeout()),
			logging.String(logging.FieldErrorHint, "raise run.timeout_seconds or check store latency"),
			logging.String(logging.FieldImpact, "previous snapshot left in place"))
		return report, fmt.Errorf("%w: %v", ErrDeadline, err)
	}

	// Direct results go last so they win over correlated ones for the same phone.
	bots := make([]snapshot.Bot, 0, len(correlated)+len(scan.Bots))
	bots = append(bots, correlated...)
	bots = append(bots, scan.Bots...)
	report.Snapshot = snapshot.Assemble(bots, time.Now())

	if err := snapshot.Write(cfg.Paths.OutputFile, report.Snapshot); err != nil {
		report.Status = StatusFatal
		report.Duration = time.Since(start)
		logging.ErrorWithContext(logger, "snapshot write failed", "snapshot_write_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, cfg.Paths.OutputFile),
			logging.String(logging.FieldErrorHint, "check that the output directory is writable"))
		return report, err
	}

	report.Status = StatusSuccess
	if report.Snapshot.Count == 0 {
		report.Status = StatusEmpty
	}
	report.Duration = time.Since(start)

	logger.Info("extraction finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.String("status", report.Status.String()),
		logging.Int("count", report.Snapshot.Count),
		logging.Int("direct", report.Direct),
		logging.Int("correlated", report.Correlated),
		logging.String(logging.FieldPath, cfg.Paths.OutputFile),
		logging.Duration("duration", report.Duration))
	if report.Status == StatusEmpty {
		logging.WarnWithContext(logger, "no identifiers found", "run_empty",
			logging.String(logging.FieldImpact, "snapshot written with zero bots"),
			logging.String(logging.FieldErrorHint, "normal on first run; pair a session or check the contact store"))
	}
	return report, nil
}

// correlateFromStore runs the name-correlation pipeline. Any store failure is
// logged and yields no results.
func correlateFromStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]snapshot.Bot, string) {
	if cfg.Store.Disabled {
		logger.Info("contact store disabled; skipping correlation",
			logging.String(logging.FieldEventType, "correlation_skipped"))
		return nil, ""
	}
	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		if errors.Is(err, contactstore.ErrNoSource) {
			logger.Info("no contact store available; skipping correlation",
				logging.String(logging.FieldEventType, "correlation_skipped"))
			return nil, ""
		}
		logging.ErrorWithContext(logger, "contact store connection failed", "store_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check store.url / DATABASE_URL and network reachability"),
			logging.String(logging.FieldImpact, "correlated identifiers missing from this run"))
		return nil, ""
	}
	defer func() {
		_ = store.Close()
	}()

	storeLogger := logger.With(logging.String("store", store.Source()))
	storeLogger.Info("contact store connected",
		logging.String(logging.FieldEventType, "store_connected"),
		logging.String("driver", store.Driver()))

	bots, err := correlate.NewResolver(cfg.Resolver.AlternateServer, storeLogger).ResolveStore(ctx, store, store)
	if err != nil {
		logging.ErrorWithContext(storeLogger, "device listing failed", "store_query_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "correlated identifiers missing from this run"))
		return nil, store.Source()
	}
	return bots, store.Source()
}
