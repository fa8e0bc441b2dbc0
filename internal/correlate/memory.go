package correlate

import (
	"context"
	"sort"

	"lidscan/internal/contactstore"
)

// MemoryLookup serves contact queries from a fixed slice, in the order a
// store would return them.
type MemoryLookup struct {
	Contacts []contactstore.Contact
}

// ContactByJID returns the first contact whose JID equals jid.
func (m MemoryLookup) ContactByJID(_ context.Context, jid string) (contactstore.Contact, bool, error) {
	for _, c := range m.Contacts {
		if c.JID == jid {
			return c, true, nil
		}
	}
	return contactstore.Contact{}, false, nil
}

// ContactsByPushName returns contacts with the given name ordered by JID.
func (m MemoryLookup) ContactsByPushName(_ context.Context, name string) ([]contactstore.Contact, error) {
	var out []contactstore.Contact
	for _, c := range m.Contacts {
		if c.PushName != nil && *c.PushName == name {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].JID < out[j].JID })
	return out, nil
}
