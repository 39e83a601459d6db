// Package session owns the credential lifecycle and the public action
// surface (login, logout, add symbol, remove symbol). Credential changes
// synchronously tear down the old feed connection before opening a new
// one, so no two sessions ever run concurrently.
package session
