// Package helpers provides HTTP and assertion utilities for handler tests.
//
// Build authenticated requests and check either response envelope:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	resp := helpers.NewRequest(t, http.MethodPost, "/api/ideas").
//	    WithAuth(jwtHelper, user).
//	    WithBody(map[string]any{"title": "CLI for notes"}).
//	    Do(mux)
//	helpers.AssertStatus(t, resp, http.StatusCreated)
//
//	helpers.AssertRouteError(t, resp, http.StatusUnauthorized)   // {"success":false,...}
//	helpers.AssertFunctionError(t, resp, http.StatusMethodNotAllowed) // {"error":"..."}
//
// Store-backed tests can assert on records directly:
//
//	helpers.AssertRecordNotExists(t, tdb.DB, comment.ID)
package helpers
