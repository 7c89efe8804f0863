// Package model defines the entities, request bodies and error values shared
// by every layer of the Idea Hub API.
//
// # Entities
//
//   - User: account with profile counters; the password hash never serialises
//   - Idea: shared project idea with visibility and publication status
//   - Comment: threaded comment on an idea, nested through Replies
//   - Workspace: per-user editing space holding opaque document/whiteboard JSON
//   - Collaborator: user allowed to help on an idea (MaxCollaboratorsPerIdea)
//   - Notification: message addressed to a single user
//   - Service: service registry entry
//
// JSON field names are camelCase; ids are SurrealDB record ids in "table:key" form.
//
// # Requests
//
// Request bodies carry go-playground validator tags for presence and format.
// Domain rules (lengths, enums) live in a Validate() []FieldError method.
//
// # Errors
//
// ProblemDetails is the single error value handlers produce. RouteBody
// renders it as the /api failure envelope:
//
//	{"success": false, "message": "<detail>", "error": "<title>"}
package model
