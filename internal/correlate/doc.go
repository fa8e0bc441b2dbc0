// Package correlate recovers a device's alternate identifier by matching
// display names in the contact store.
//
// A device's own contact row supplies its push name; the first other contact
// sharing that push name and addressed on the alternate server is taken to be
// the same account seen through its alternate identifier.
package correlate
