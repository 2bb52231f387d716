// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing model contents (text, function calls and
// function responses) and sessions with a pre-populated transcript. They are
// not intended for production usage.
package testutil
