// Package credstore persists feed credentials across restarts.
package credstore
