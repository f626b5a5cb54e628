// Package testutil contains helpers used across tests to reduce boilerplate
// when recording and asserting on emitted events. These helpers are
// intentionally minimal and not intended for production usage.
package testutil
