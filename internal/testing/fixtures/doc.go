// Package fixtures provides test data factories for store-backed tests.
//
// Each factory method creates an entity with sensible defaults, customised
// through option functions, and returns the populated model:
//
//	f := fixtures.New(tdb.DB)
//	author := f.CreateUser(t)
//	idea := f.CreateIdea(t, author, fixtures.WithVisibility(model.VisibilityPrivate))
//	comment := f.CreateComment(t, idea, author)
//
// Fixture users share DefaultPassword.
package fixtures
