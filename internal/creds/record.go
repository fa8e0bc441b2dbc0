package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"lidscan/internal/jid"
)

var (
	// ErrNotFound reports a missing credential file.
	ErrNotFound = errors.New("credentials not found")
	// ErrMalformed reports a credential file that is not valid JSON.
	ErrMalformed = errors.New("credentials malformed")
)

// Identity is the "me" block of a credential record. Every field is optional.
type Identity struct {
	ID   *string `json:"id,omitempty"`
	LID  *string `json:"lid,omitempty"`
	User *string `json:"user,omitempty"`
	Name *string `json:"name,omitempty"`
}

// Record is one session's parsed credentials. Fields the resolver does not use
// are ignored during decoding.
type Record struct {
	Me       *Identity `json:"me,omitempty"`
	Platform *string   `json:"platform,omitempty"`
}

// Load reads and decodes the credential file at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return Parse(data)
}

// Parse decodes a credential record from JSON.
func Parse(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &rec, nil
}

// HasIdentity reports whether the record carries a "me" block.
func (r *Record) HasIdentity() bool {
	return r != nil && r.Me != nil
}

// PrimaryNumber returns the normalized phone number from me.id.
func (r *Record) PrimaryNumber() string {
	if !r.HasIdentity() {
		return ""
	}
	return jid.Normalize(deref(r.Me.ID))
}

// PlatformLabel returns the recorded platform or fallback when absent.
func (r *Record) PlatformLabel(fallback string) string {
	if r != nil {
		if p := strings.TrimSpace(deref(r.Platform)); p != "" {
			return p
		}
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
