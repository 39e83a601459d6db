// Package display renders the live watchlist table. It is the passive
// boundary toward the UI collaborator: it only ever reads the snapshot
// view and never mutates core state.
package display
