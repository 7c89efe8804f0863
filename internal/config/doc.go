// Package config loads Idea Hub API configuration from environment variables.
//
// All settings have development defaults. DATABASE_URL, when present, is the
// single connection string for the store and overrides the DB_* parts:
//
//	DATABASE_URL=ws://root:root@localhost:8000/ideahub/main
//
// Optional backends are switched on by their URL:
//
//	REDIS_URL   refresh tokens move from SurrealDB to Redis
//	MEILI_URL   idea search uses Meilisearch instead of substring matching
//
// Call Validate after Load; it reports every problem at once.
package config
