// Package contactstore reads device and contact rows from the relational
// store a messaging client keeps in sync with its account.
//
// Postgres is used when a connection URL is configured; otherwise the local
// SQLite session database is opened when present. Both drivers share one
// query set written with '?' placeholders and rebound for the active driver.
package contactstore
