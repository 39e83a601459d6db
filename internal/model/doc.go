// Package model defines shared data types for the watchlist core.
//
// Conventions:
//   - Prices and volumes: decimal strings exactly as sent by the feed
//   - Quote.Name is the stable join key; Quote.ID is the transport key
//   - Color is derived display state, never authoritative data
package model
