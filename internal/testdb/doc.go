//go:build integration

// Package testdb holds helpers for integration tests that need a real
// PostgreSQL database. Tests are skipped unless DATABASE_URL (or
// LEITNER_TEST_DB_URL) is set.
//
// Typical use:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        deckID := testdb.InsertDeck(t, tx, ownerID, "Spanish")
//	        ...
//	    })
//	}
//
// Everything done inside WithTx is rolled back when the callback returns.
package testdb
