// Package session owns the authentication lifecycle of the client.
//
// A Manager is the single authority on whether the user is signed in. It
// decodes bearer tokens, persists them through a storage.SecretStore, and
// installs them on the shared Credential that every outbound request reads
// its Authorization header from. Decode failures and expired tokens are
// handled here as an implicit logout and are never surfaced as alerts.
package session
