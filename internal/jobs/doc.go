// Package jobs runs background work alongside the HTTP server.
//
//   - TokenCleanup: deletes expired refresh tokens on an interval
//   - RegistryHeartbeat: keeps this process's service registry entry UP
//
// Each job has Start/Stop and a RunOnce for tests and manual triggers.
// Failures are logged and never stop the loop. main stops every job before
// the store is closed.
package jobs
