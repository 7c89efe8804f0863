// Package middleware provides the HTTP middleware chain of the Idea Hub API.
//
// The server wraps its mux as
//
//	Chain(mux, RequestID, Logger, Recovery, CORS(origins), Compress, OptionalAuth(tokens))
//
// so every handler can read the caller with GetUserID, which returns ""
// for anonymous requests. Routes that always need a caller are wrapped in
// Auth as well; it reuses the claims OptionalAuth resolved.
//
// The logging and gzip writers pass Flush and Unwrap through, so event
// streams work behind the whole chain.
//
// RateLimit guards the credential endpoints. MemoryLimiter serves a single
// instance; RedisLimiter shares counters between instances through the same
// Redis that holds refresh tokens.
package middleware
