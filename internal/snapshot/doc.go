// Package snapshot assembles resolved bot identities into a phone-keyed
// result set and persists it as a JSON document.
//
// The document is written atomically under an advisory file lock so a reader
// never observes a half-written snapshot and two concurrent runs never
// interleave their writes. Loaded snapshots double as a lookup index for
// callers that need to map a bot's phone number to its alternate identifier
// or check whether a sender address belongs to a bot.
package snapshot
