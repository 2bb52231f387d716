// Package session houses concrete implementations of core.SessionStore. The
// interface and the Session type live in core so the runner and the shells do
// not depend on a concrete backend.
package session
