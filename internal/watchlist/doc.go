// Package watchlist implements the reconciliation core.
//
// Three pieces:
//   - Registry: id to name resolution for trade updates
//   - Store: latest quote per symbol with snapshot/delta merge and
//     derived price-direction coloring
//   - Engine: the single consumer that applies feed events in arrival
//     order and tracks session status
package watchlist
