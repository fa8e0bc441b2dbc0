// Package jid normalizes messaging addresses into digits-only numbers.
//
// Addresses arrive in several shapes depending on which source produced them:
// "923011234567@s.whatsapp.net", "923011234567:12@s.whatsapp.net" for a linked
// device, or "123456789012345@lid" for an alternate identifier. Normalize
// reduces every shape to the same digits-only key so results from the
// credential scanner and the contact store can be compared and merged.
//
// Classifier decides whether a normalized number looks like an alternate
// identifier (LID) rather than a phone number. The length threshold is
// observed behaviour, not a protocol guarantee, so callers take it from
// configuration.
package jid
