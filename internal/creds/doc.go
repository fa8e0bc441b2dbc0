// Package creds parses persisted session credentials and pulls an alternate
// identifier (LID) straight out of their identity block.
//
// Direct resolution is an ordered list of strategies; the first one that
// yields a qualifying identifier wins.
package creds
