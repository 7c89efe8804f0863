// Package repository implements the SurrealDB data access layer for Idea Hub.
//
// Each repository wraps a database.Database and owns the SurrealQL for one
// table. Records are returned as model structs with ids rendered as
// "table:key"; methods accept either that form or the bare key.
//
// Lookups return (nil, nil) when the record does not exist so that the
// service layer decides which not-found error to surface. Writes that must
// never create a record use the WHERE form:
//
//	UPDATE workspace SET name = $name WHERE id = type::record($id) RETURN AFTER
//
// Statements that must commit together go through database.AtomicBatch or
// database.TxBuilder.
package repository
