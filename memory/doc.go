// Package memory provides core.PreferenceStore backends for long-term user
// preference statements:
//
//   - Mem0Store: the hosted Mem0 memory API (primary backend)
//   - InMemoryStore: process-local, for tests and credential-free demos
//   - SQLiteStore: durable single-node storage via mattn/go-sqlite3
//   - RedisStore: shared storage via go-redis (one list per user)
//   - UnavailableStore: always fails; used when credentials are missing
//
// All backends are safe for concurrent use and report failures wrapped in
// core.ErrProviderUnavailable so the orchestrator can recover inline.
package memory
