// Package database is the persistence client for the Idea Hub API.
//
// Database wraps SurrealDB behind three calls:
//   - Query: every statement's {status, result} entry
//   - QueryOne: the first record of the first statement, or ErrNotFound
//   - Execute: mutations where the result is not needed
//
// Multi-statement writes that must succeed together use AtomicBatch, which
// wraps its statements in BEGIN/COMMIT TRANSACTION and namespaces variables
// so two statements can both bind $id:
//
//	err := database.NewAtomicBatch().
//		Add("DELETE comment WHERE parent = type::record($id)", vars).
//		Add("DELETE type::record($id)", vars).
//		Execute(ctx, db)
//
// Schema changes live in the migrations package and are applied in name
// order by ApplyMigrations, which records each file in schema_migration.
//
// Use errors.Is with ErrNotFound, ErrDuplicate, ErrConnection, ErrQuery and
// ErrLimitExceeded; the SurrealDB error text is wrapped, never replaced.
package database
