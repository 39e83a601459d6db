// Package feed implements the connection to the upstream streaming feed.
//
// The feed client:
//   - Dials one authenticated WebSocket session per login
//   - Queues transport events (open, message, close, error) in arrival
//     order for a single consumer
//   - Sends addsymbol/removesymbol subscription commands
//   - Normalizes the three inbound frame shapes (handshake, snapshot
//     list, trade) into one Message type, discarding anything else
package feed
