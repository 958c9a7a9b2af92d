// Package backend is the REST client every request to the familyhub API goes
// through.
//
// The client reads the Authorization header from an Authorizer on every
// request, so signing in or out takes effect for the next call without
// touching shared headers. Calls that need the network are gated by a
// connectivity probe and fail fast with NO_CONNECTIVITY when it is
// unreachable. Non-2xx responses are mapped to server error codes from
// internal/platform/errors.
package backend
