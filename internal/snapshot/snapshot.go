package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"lidscan/internal/fileutil"
	"lidscan/internal/jid"
)

// Source labels which pipeline produced a Bot.
type Source string

const (
	SourceDirect     Source = "direct"
	SourceCorrelated Source = "correlated"
)

// ErrNotFound reports a missing snapshot file.
var ErrNotFound = errors.New("snapshot not found")

// Bot is one resolved identity, keyed in a Snapshot by Phone.
type Bot struct {
	Phone       string    `json:"phone"`
	LID         string    `json:"lid"`
	Platform    string    `json:"platform,omitempty"`
	Name        string    `json:"name,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	Source      Source    `json:"source"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Valid reports whether the bot carries both identifiers.
func (b Bot) Valid() bool {
	return strings.TrimSpace(b.Phone) != "" && strings.TrimSpace(b.LID) != ""
}

// Snapshot is the persisted result set.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Count     int            `json:"count"`
	Bots      map[string]Bot `json:"bots"`
}

// Assemble builds a snapshot from bots in order. Later entries replace earlier
// ones with the same phone; bots missing either identifier are dropped.
func Assemble(bots []Bot, now time.Time) Snapshot {
	snap := Snapshot{
		Timestamp: now.UTC(),
		Bots:      make(map[string]Bot, len(bots)),
	}
	for _, bot := range bots {
		if !bot.Valid() {
			continue
		}
		snap.Bots[bot.Phone] = bot
	}
	snap.Count = len(snap.Bots)
	return snap
}

// Sorted returns the bots ordered by phone.
func (s Snapshot) Sorted() []Bot {
	out := make([]Bot, 0, len(s.Bots))
	for _, bot := range s.Bots {
		out = append(out, bot)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Phone < out[j].Phone
	})
	return out
}

// LIDFor returns the alternate identifier recorded for phone. The phone may be
// given in any address form.
func (s Snapshot) LIDFor(phone string) (string, bool) {
	key := jid.Normalize(phone)
	if key == "" {
		return "", false
	}
	bot, ok := s.Bots[key]
	if !ok {
		return "", false
	}
	return bot.LID, true
}

// IsOwner reports whether sender is the alternate identifier recorded for
// botPhone. Both inputs may be given in any address form.
func (s Snapshot) IsOwner(botPhone, sender string) bool {
	lid, ok := s.LIDFor(botPhone)
	if !ok {
		return false
	}
	normalizedSender := jid.Normalize(sender)
	return normalizedSender != "" && normalizedSender == jid.Normalize(lid)
}

// Write persists snap to path, replacing any previous snapshot atomically. An
// exclusive lock on path+".lock" is held for the duration of the write.
func Write(path string, snap Snapshot) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("snapshot path cannot be empty")
	}
	if snap.Bots == nil {
		snap.Bots = map[string]Bot{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock snapshot: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Bots == nil {
		snap.Bots = map[string]Bot{}
	}
	return snap, nil
}
