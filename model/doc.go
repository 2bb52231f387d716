// Package model defines the vendor neutral request/response types and the
// Model interface the orchestrator drives, plus a scripted in-memory Model
// for tests and offline demos. Provider adapters live in sub packages
// (model/anthropic, model/openai).
package model
