// Package agent contains the conversation orchestrator behind every ginny
// shell. One call to Orchestrator.HandleTurn:
//
//  1. reads the user's stored preferences (recorded as mem0_memory)
//  2. lets the PreferencePolicy persist an introduced identity
//  3. runs the model tool loop with the mem0_memory and weather tools
//  4. returns the reply with the ToolCallRecord of everything invoked
//
// Tool failures, including panics, are recorded and fed back to the model;
// they never abort the turn. A failed reply generation yields Apology and an
// empty record.
package agent
