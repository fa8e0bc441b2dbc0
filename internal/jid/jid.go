package jid

import "strings"

const (
	// DefaultServer is the account domain used for primary phone identifiers.
	DefaultServer = "s.whatsapp.net"
	// AlternateServer is the domain that marks an alternate identifier.
	AlternateServer = "lid"
	// DefaultMinDigits is the length a normalized number must exceed to be
	// treated as an alternate identifier.
	DefaultMinDigits = 13
)

// JID is a loosely parsed address of the form user[:device]@server. No part is
// validated; missing parts are empty.
type JID struct {
	User   string
	Device string
	Server string
}

// Parse splits raw into its user, device, and server segments.
func Parse(raw string) JID {
	raw = strings.TrimSpace(raw)
	var out JID
	local := raw
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		local = raw[:at]
		out.Server = raw[at+1:]
	}
	if colon := strings.IndexByte(local, ':'); colon >= 0 {
		out.User = local[:colon]
		out.Device = local[colon+1:]
	} else {
		out.User = local
	}
	return out
}

// DeviceDigits returns the digits of the device segment.
func (j JID) DeviceDigits() string {
	return digitsOnly(j.Device)
}

// Normalize reduces raw to the digits of its user segment: the text before the
// first '@', then before the first ':', with every non-digit removed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	local, _, _ := strings.Cut(raw, "@")
	user, _, _ := strings.Cut(local, ":")
	return digitsOnly(user)
}

// HasServer reports whether raw is addressed to server. The comparison ignores
// case and surrounding whitespace.
func HasServer(raw, server string) bool {
	server = strings.TrimPrefix(strings.TrimSpace(server), "@")
	if server == "" {
		return false
	}
	_, domain, ok := strings.Cut(strings.TrimSpace(raw), "@")
	if !ok {
		return false
	}
	return strings.EqualFold(domain, server)
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Classifier separates alternate identifiers from phone numbers by length.
type Classifier struct {
	// MinDigits is exclusive: a number must be strictly longer to qualify.
	MinDigits int
}

// DefaultClassifier returns a classifier using DefaultMinDigits.
func DefaultClassifier() Classifier {
	return Classifier{MinDigits: DefaultMinDigits}
}

// IsAlternate reports whether normalized is long enough to be an alternate
// identifier. Empty input never qualifies.
func (c Classifier) IsAlternate(normalized string) bool {
	if normalized == "" {
		return false
	}
	limit := c.MinDigits
	if limit <= 0 {
		limit = DefaultMinDigits
	}
	return len(normalized) > limit
}
