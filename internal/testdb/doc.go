// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests run against the database named by DATABASE_URL (or TASKAPI_TEST_DB_URL)
// and are skipped when neither is set. Each test runs in its own transaction
// which is rolled back when the test completes, so tests can share the same
// tables without cleanup:
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        taskStore := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
