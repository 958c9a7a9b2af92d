// Package chat holds the family chat room client.
//
// The client subpackage owns one WebSocket connection per room together with
// the ordered in-memory message list and the grouping rules used to render
// it. The REST history endpoint is reached through internal/services/backend.
package chat
