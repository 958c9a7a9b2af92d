// Package timeouts defines shared timeout constants used by the client.
// Centralizing these values keeps the REST, probe and socket paths in step.
package timeouts

import "time"

// Request caps a single REST call to the backend.
const Request = 10 * time.Second

// Probe caps the pre-flight connectivity check.
const Probe = 3 * time.Second

// SocketDial caps opening the chat WebSocket.
const SocketDial = 10 * time.Second

// SendRetry is the fixed delay before the single chat send retry.
const SendRetry = 1 * time.Second

// Shutdown limits how long commands wait for telemetry flush and socket
// teardown on exit.
const Shutdown = 5 * time.Second
