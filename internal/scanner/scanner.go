package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"lidscan/internal/config"
	"lidscan/internal/creds"
	"lidscan/internal/jid"
	"lidscan/internal/logging"
	"lidscan/internal/snapshot"
)

var readDir = os.ReadDir

// RootSessionID names the session formed by a credential file in the root.
const RootSessionID = "main"

// Session is one discovered credential location.
type Session struct {
	ID   string
	Path string
}

// Result is the outcome of one scan.
type Result struct {
	// Bots holds resolved identities ordered by session ID.
	Bots []snapshot.Bot
	// Sessions is the number of sessions discovered.
	Sessions int
	// LocalDBHint is set when nothing resolved and a local session database
	// exists that a secondary extraction path could read.
	LocalDBHint string
}

// Options controls scanner behavior.
type Options struct {
	CredentialsFile string
	Workers         int
	LocalDB         string
	UnknownPlatform string
	Classifier      jid.Classifier
}

// OptionsFromConfig derives scanner options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CredentialsFile: cfg.Scanner.CredentialsFile,
		Workers:         cfg.Scanner.Workers,
		LocalDB:         cfg.Paths.LocalDB,
		UnknownPlatform: cfg.Resolver.UnknownPlatform,
		Classifier:      jid.Classifier{MinDigits: cfg.Resolver.LIDMinDigits},
	}
}

// Scanner discovers and resolves credential sessions.
type Scanner struct {
	opts     Options
	resolver *creds.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a scanner.
func New(opts Options, logger *slog.Logger) *Scanner {
	if opts.CredentialsFile == "" {
		opts.CredentialsFile = "creds.json"
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.UnknownPlatform == "" {
		opts.UnknownPlatform = "Unknown"
	}
	logger = logging.NewComponentLogger(logger, "scanner")
	return &Scanner{
		opts:     opts,
		resolver: creds.NewResolver(opts.Classifier, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Discover lists the sessions under root in name order. A missing root yields
// no sessions and no error.
func (s *Scanner) Discover(root string) ([]Session, error) {
	entries, err := readDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}
	// os.ReadDir already sorts by filename.
	var sessions []Session
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			sessions = append(sessions, Session{
				ID:   name,
				Path: filepath.Join(root, name, s.opts.CredentialsFile),
			})
		case name == s.opts.CredentialsFile:
			// A root credential file ends discovery; later entries are ignored.
			return append(sessions, Session{ID: RootSessionID, Path: filepath.Join(root, name)}), nil
		}
	}
	return sessions, nil
}

// Scan resolves every session under root. Per-session failures are logged and
// skipped. When ctx ends mid-scan, no further sessions start and the partial
// result is returned with the context error.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	logger := s.logger.With(logging.String(logging.FieldPath, root))

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logging.WarnWithContext(logger, "sessions directory not found", "sessions_missing",
			logging.String(logging.FieldErrorHint, "set paths.sessions_dir or LIDSCAN_SESSIONS_DIR"),
			logging.String(logging.FieldImpact, "direct resolution produces no results"))
		result := Result{}
		s.attachHint(&result)
		return result, nil
	}

	sessions, err := s.Discover(root)
	if err != nil {
		return Result{}, err
	}
	logger.Info("sessions discovered",
		logging.String(logging.FieldEventType, "sessions_discovered"),
		logging.Int("session_count", len(sessions)))

	resolved := make([]*snapshot.Bot, len(sessions))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, session := range sessions {
		if ctx.Err() != nil {
			break
		}
		i, session := i, session
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if bot, ok := s.resolveSession(session); ok {
				resolved[i] = &bot
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Sessions: len(sessions)}
	for _, bot := range resolved {
		if bot != nil {
			result.Bots = append(result.Bots, *bot)
		}
	}
	sort.SliceStable(result.Bots, func(i, j int) bool {
		return result.Bots[i].SessionID < result.Bots[j].SessionID
	})
	if len(result.Bots) == 0 {
		s.attachHint(&result)
	}

	logger.Info("session scan complete",
		logging.String(logging.FieldEventType, "scan_complete"),
		logging.Int("session_count", result.Sessions),
		logging.Int("resolved_count", len(result.Bots)))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Scanner) resolveSession(session Session) (snapshot.Bot, bool) {
	logger := s.logger.With(logging.String(logging.FieldSessionID, session.ID))

	rec, err := creds.Load(session.Path)
	if err != nil {
		reason := "credentials unreadable"
		switch {
		case errors.Is(err, creds.ErrNotFound):
			reason = "credentials file missing"
		case errors.Is(err, creds.ErrMalformed):
			reason = "credentials file malformed"
		}
		logging.WarnWithContext(logger, "session skipped", "session_skipped",
			logging.String(logging.FieldReason, reason),
			logging.String(logging.FieldPath, session.Path),
			logging.Error(err))
		return snapshot.Bot{}, false
	}
	if !rec.HasIdentity() {
		logging.WarnWithContext(logger, "session skipped", "session_skipped",
			logging.String(logging.FieldReason, "no identity block"),
			logging.String(logging.FieldErrorHint, "session may not be paired yet"))
		return snapshot.Bot{}, false
	}
	phone := rec.PrimaryNumber()
	if phone == "" {
		logging.WarnWithContext(logger, "session skipped", "session_skipped",
			logging.String(logging.FieldReason, "no primary number"))
		return snapshot.Bot{}, false
	}

	resolution, ok := s.resolver.Resolve(session.ID, rec)
	if !ok {
		return snapshot.Bot{}, false
	}
	return snapshot.Bot{
		Phone:       phone,
		LID:         resolution.LID,
		Platform:    rec.PlatformLabel(s.opts.UnknownPlatform),
		SessionID:   session.ID,
		Source:      snapshot.SourceDirect,
		ExtractedAt: s.now().UTC(),
	}, true
}

func (s *Scanner) attachHint(result *Result) {
	if s.opts.LocalDB == "" {
		return
	}
	info, err := os.Stat(s.opts.LocalDB)
	if err != nil || info.IsDir() {
		return
	}
	result.LocalDBHint = s.opts.LocalDB
	s.logger.Info("local session database present; secondary extraction needed",
		logging.String(logging.FieldEventType, "local_db_hint"),
		logging.String(logging.FieldPath, s.opts.LocalDB))
}
