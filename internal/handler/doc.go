// Package handler provides the HTTP handlers of the Idea Hub API.
//
// Each handler struct wraps the service interface it consumes, declared
// next to it, and is built with NewXxxHandler.
//
// # Two envelopes
//
// /api routes answer through the routes renderer:
//
//	{"success": true, "data": ..., "pagination": {...}}
//	{"success": false, "message": "...", "error": "..."}
//
// /functions endpoints answer through the functions renderer:
//
//	{"data": ..., "count": 3}
//	{"error": "..."}
//
// Handlers build a Response with OK, Created or Page, attach extra
// top-level keys with With, and report failures with fail, which maps the
// error through MapServiceError and logs it once.
//
// # Callers
//
// OptionalAuth runs for every request, so callerID(r) is the signed-in
// user or "". Operations that need a caller check it before touching a
// service and fail with service.ErrUnauthorized.
//
// # Example Usage
//
//	ideas := NewIdeaHandler(ideaService)
//	mux.HandleFunc("GET /api/ideas", ideas.List)
//	mux.HandleFunc("/functions/ideas-list", ideas.ListPublic)
package handler
