// Package storage defines the secure storage contract used by the session
// manager to persist the bearer token between process runs.
package storage
