package testsupport

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// FixtureContact is one contact row; a nil PushName is stored as NULL.
type FixtureContact struct {
	JID      string
	PushName *string
}

// ContactFixture describes the rows of a local contact database.
type ContactFixture struct {
	Devices  []string
	Contacts []FixtureContact
}

const fixtureSchema = `
CREATE TABLE IF NOT EXISTS whatsmeow_device (
	jid TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS whatsmeow_contacts (
	our_jid TEXT NOT NULL DEFAULT '',
	their_jid TEXT NOT NULL,
	push_name TEXT,
	PRIMARY KEY (our_jid, their_jid)
);`

// WriteContactDB creates a SQLite database at path holding fixture.
func WriteContactDB(t testing.TB, path string, fixture ContactFixture) {
	t.Helper()

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	for _, device := range fixture.Devices {
		if _, err := db.Exec("INSERT INTO whatsmeow_device (jid) VALUES (?)", device); err != nil {
			t.Fatalf("insert device %s: %v", device, err)
		}
	}
	for _, contact := range fixture.Contacts {
		if _, err := db.Exec("INSERT INTO whatsmeow_contacts (their_jid, push_name) VALUES (?, ?)", contact.JID, contact.PushName); err != nil {
			t.Fatalf("insert contact %s: %v", contact.JID, err)
		}
	}
}
