// Package scanner walks a sessions directory, loads each session's credential
// file, and resolves its alternate identifier directly from the credentials.
//
// Every immediate subdirectory of the root is a session named after the
// directory. A credential file sitting directly in the root adds a session
// called "main" and ends discovery. Sessions resolve concurrently on a bounded
// worker pool; results come back ordered by session ID regardless of
// completion order.
package scanner
