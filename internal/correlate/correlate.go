package correlate

import (
	"context"
	"log/slog"
	"time"

	"lidscan/internal/contactstore"
	"lidscan/internal/jid"
	"lidscan/internal/logging"
	"lidscan/internal/snapshot"
)

// ContactLookup answers the two contact queries correlation needs.
type ContactLookup interface {
	ContactByJID(ctx context.Context, jid string) (contactstore.Contact, bool, error)
	ContactsByPushName(ctx context.Context, name string) ([]contactstore.Contact, error)
}

// DeviceSource lists linked devices.
type DeviceSource interface {
	Devices(ctx context.Context) ([]contactstore.Device, error)
}

// Resolver correlates devices with alternate-server contacts.
type Resolver struct {
	server string
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver builds a resolver matching contacts addressed on server
// (for example "lid").
func NewResolver(server string, logger *slog.Logger) *Resolver {
	if server == "" {
		server = jid.AlternateServer
	}
	return &Resolver{
		server: server,
		logger: logging.NewComponentLogger(logger, "correlate"),
		now:    time.Now,
	}
}

// ResolveStore lists devices from source and resolves them against lookup.
func (r *Resolver) ResolveStore(ctx context.Context, source DeviceSource, lookup ContactLookup) ([]snapshot.Bot, error) {
	devices, err := source.Devices(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Info("devices loaded",
		logging.String(logging.FieldEventType, "devices_loaded"),
		logging.Int("device_count", len(devices)))
	return r.Resolve(ctx, devices, lookup), nil
}

// Resolve correlates each device. Devices that cannot be correlated, including
// those whose lookups fail, are logged and skipped. Resolution stops early when
// ctx ends.
func (r *Resolver) Resolve(ctx context.Context, devices []contactstore.Device, lookup ContactLookup) []snapshot.Bot {
	var bots []snapshot.Bot
	for _, device := range devices {
		if ctx.Err() != nil {
			logging.WarnWithContext(r.logger, "correlation interrupted", "correlation_interrupted",
				logging.Error(ctx.Err()),
				logging.String(logging.FieldImpact, "remaining devices not correlated"))
			break
		}
		if bot, ok := r.resolveDevice(ctx, device, lookup); ok {
			bots = append(bots, bot)
		}
	}
	return bots
}

func (r *Resolver) resolveDevice(ctx context.Context, device contactstore.Device, lookup ContactLookup) (snapshot.Bot, bool) {
	logger := r.logger.With(logging.String(logging.FieldDeviceJID, device.JID))

	phone := jid.Normalize(device.JID)
	if phone == "" {
		logging.WarnWithContext(logger, "device skipped", "device_skipped",
			logging.String(logging.FieldReason, "no primary number"))
		return snapshot.Bot{}, false
	}
	logger = logger.With(logging.String(logging.FieldPhone, phone))

	self, found, err := lookup.ContactByJID(ctx, device.JID)
	if err != nil {
		logging.WarnWithContext(logger, "device skipped", "device_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check contact store connectivity"))
		return snapshot.Bot{}, false
	}
	if !found || !self.HasName() {
		logging.WarnWithContext(logger, "device skipped", "device_skipped",
			logging.String(logging.FieldReason, "no push name for device"))
		return snapshot.Bot{}, false
	}

	name := self.Name()
	candidates, err := lookup.ContactsByPushName(ctx, name)
	if err != nil {
		logging.WarnWithContext(logger, "device skipped", "device_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check contact store connectivity"))
		return snapshot.Bot{}, false
	}

	var matches []contactstore.Contact
	for _, candidate := range candidates {
		if jid.HasServer(candidate.JID, r.server) {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		logging.WarnWithContext(logger, "device skipped", "device_skipped",
			logging.String(logging.FieldReason, "no alternate contact shares the push name"))
		return snapshot.Bot{}, false
	}
	if len(matches) > 1 {
		logging.WarnWithContext(logger, "push name is ambiguous; using first match", "correlation_ambiguous",
			logging.Int("candidate_count", len(matches)),
			logging.String(logging.FieldLID, matches[0].JID),
			logging.String(logging.FieldImpact, "identifier may belong to a different account with the same name"),
			logging.String(logging.FieldErrorHint, "verify the snapshot entry or resolve from credentials instead"))
	}

	chosen := matches[0]
	logger.Info("lid correlated",
		logging.String(logging.FieldEventType, "lid_correlated"),
		logging.String(logging.FieldLID, chosen.JID))
	return snapshot.Bot{
		Phone:       phone,
		LID:         chosen.JID,
		Name:        name,
		Source:      snapshot.SourceCorrelated,
		ExtractedAt: r.now().UTC(),
	}, true
}
