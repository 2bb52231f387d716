// Package runner binds sessions to the conversation orchestrator. It is the
// single adapter every presentation shell (CLI chat loop, scripted demo, web
// dashboard) goes through.
//
// # Responsibilities
//   - Session lookup and lazy creation through a core.SessionStore
//   - Rejecting empty input before the orchestrator is invoked
//   - Serializing turns within one session
//   - Appending the user turn and the assistant turn with its ToolCallRecord
//
// Turns of different sessions run concurrently.
package runner
