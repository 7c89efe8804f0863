// Package testdb manages throwaway SurrealDB namespaces for tests.
//
// New connects to TEST_DB_HOST (skipping the test when it is unset), creates
// a unique namespace and applies the embedded migrations:
//
//	tdb := testdb.New(t)
//	defer tdb.Close()
//
// TEST_DB_PORT, TEST_DB_USER and TEST_DB_PASSWORD default to 8000/root/root.
package testdb
