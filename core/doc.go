// Package core provides the foundational domain types and interfaces used by
// ginny. It defines:
//
//   - Turns, ToolCallRecords and the Transcript that keeps them aligned
//   - Role based Content / Parts exchanged with model adapters
//   - The PreferenceStore and WeatherProvider connector contracts
//   - ToolContext (scoped execution surface for tools)
//   - The recoverable error taxonomy (ErrProviderUnavailable, ErrEmptyInput, ErrReplyGeneration)
//
// Implementation concerns (HTTP connectors, storage backends, the tool loop)
// live in sibling packages so custom backends can be plugged in.
package core
