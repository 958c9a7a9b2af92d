// Package fakebackend is an in-process familyhub API for tests.
//
// It serves the REST routes and the room WebSocket the client talks to,
// keeping accounts, families, activities and chat rooms in memory. Tokens
// are HS256 JWTs signed with a per-server key.
package fakebackend
