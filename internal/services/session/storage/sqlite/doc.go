// Package sqlite provides the on-disk secure store for session secrets.
//
// Values are sealed with a key derived from FAMILYHUB_STORAGE_SECRET before
// they reach the database file, and each row is bound to its key so a sealed
// value cannot be replayed under another name.
package sqlite
