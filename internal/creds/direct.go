package creds

import (
	"log/slog"
	"strings"

	"lidscan/internal/jid"
	"lidscan/internal/logging"
)

// Method labels for each direct resolution strategy.
const (
	MethodLIDField  = "me.lid"
	MethodUserField = "me.user"
	MethodIDDevice  = "me.id.device"
	MethodIDPrimary = "me.id.primary"
)

// Strategy extracts a candidate identifier from an identity block.
type Strategy struct {
	Method  string
	Extract func(me *Identity, c jid.Classifier) (string, bool)
}

// Resolution is a successful direct lookup.
type Resolution struct {
	LID    string
	Method string
}

// Strategies returns the direct resolution chain in precedence order.
func Strategies() []Strategy {
	return []Strategy{
		{Method: MethodLIDField, Extract: fromLIDField},
		{Method: MethodUserField, Extract: fromUserField},
		{Method: MethodIDDevice, Extract: fromIDDevice},
		{Method: MethodIDPrimary, Extract: fromIDPrimary},
	}
}

// An explicit lid is trusted regardless of length.
func fromLIDField(me *Identity, _ jid.Classifier) (string, bool) {
	lid := jid.Normalize(deref(me.LID))
	return lid, lid != ""
}

func fromUserField(me *Identity, c jid.Classifier) (string, bool) {
	user := jid.Normalize(deref(me.User))
	return user, c.IsAlternate(user)
}

func fromIDDevice(me *Identity, c jid.Classifier) (string, bool) {
	id := deref(me.ID)
	if !strings.Contains(id, ":") {
		return "", false
	}
	device := jid.Parse(id).DeviceDigits()
	return device, c.IsAlternate(device)
}

func fromIDPrimary(me *Identity, c jid.Classifier) (string, bool) {
	primary := jid.Normalize(deref(me.ID))
	return primary, c.IsAlternate(primary)
}

// Resolver applies the direct resolution chain.
type Resolver struct {
	classifier jid.Classifier
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver builds a resolver using the default strategy chain.
func NewResolver(classifier jid.Classifier, logger *slog.Logger) *Resolver {
	return &Resolver{
		classifier: classifier,
		strategies: Strategies(),
		logger:     logging.NewComponentLogger(logger, "direct"),
	}
}

// Resolve returns the first identifier produced by the strategy chain. A
// record without an identity block never resolves.
func (r *Resolver) Resolve(sessionID string, rec *Record) (Resolution, bool) {
	logger := r.logger.With(logging.String(logging.FieldSessionID, sessionID))
	if !rec.HasIdentity() {
		logging.WarnWithContext(logger, "lid not found", "lid_missing",
			logging.String(logging.FieldReason, "no identity block"))
		return Resolution{}, false
	}
	for _, strategy := range r.strategies {
		if lid, ok := strategy.Extract(rec.Me, r.classifier); ok {
			logger.Info("lid found",
				logging.String(logging.FieldEventType, "lid_found"),
				logging.String(logging.FieldMethod, strategy.Method),
				logging.String(logging.FieldLID, lid))
			return Resolution{LID: lid, Method: strategy.Method}, true
		}
	}
	logging.WarnWithContext(logger, "lid not found", "lid_missing",
		logging.String(logging.FieldReason, "no field qualified as alternate identifier"),
		logging.Int("min_digits", r.classifier.MinDigits),
		logging.String(logging.FieldErrorHint, "pair the session again so the credentials record a lid"))
	return Resolution{}, false
}
