package model

import "strconv"

// Color indicates the price direction of a quote relative to its
// previous update. Derived, never authoritative.
type Color string

const (
	ColorNeutral Color = "neutral"
	ColorUp      Color = "up"
	ColorDown    Color = "down"
)

// Quote is the latest known state of one watched instrument.
//
// Name is the stable display key. ID is the feed's transport key and may
// be reassigned by the feed across renames; Name is what joins updates
// to rows. Numeric fields are kept as the feed's decimal strings so the
// display layer can parse them without loss.
type Quote struct {
	Name   string // Primary key (e.g., "NIFTY 50")
	ID     string // Feed transport id (e.g., "200000001")
	Time   string // Exchange timestamp as sent by the feed
	LTP    string // Last traded price
	LTQ    string // Last traded quantity
	ATP    string // Average traded price
	Volume string // Total traded volume
	Open   string
	High   string
	Low    string
	Close  string // Previous session close
	Color  Color  // Price direction since the previous update
}

// PreviousClose returns the baseline price for change computation:
// the previous close if it parses to a non-zero number, else the open.
func (q Quote) PreviousClose() (float64, bool) {
	if v, err := strconv.ParseFloat(q.Close, 64); err == nil && v != 0 {
		return v, true
	}
	if v, err := strconv.ParseFloat(q.Open, 64); err == nil && v != 0 {
		return v, true
	}
	return 0, false
}

// Change returns the absolute price change since the previous close.
func (q Quote) Change() (float64, bool) {
	prev, ok := q.PreviousClose()
	if !ok {
		return 0, false
	}
	ltp, err := strconv.ParseFloat(q.LTP, 64)
	if err != nil {
		return 0, false
	}
	return ltp - prev, true
}

// ChangePercent returns the percentage price change since the previous
// close. The baseline is guaranteed non-zero when ok is true.
func (q Quote) ChangePercent() (float64, bool) {
	prev, ok := q.PreviousClose()
	if !ok {
		return 0, false
	}
	change, ok := q.Change()
	if !ok {
		return 0, false
	}
	return change / prev * 100, true
}

// Credentials authenticate a feed session. Absence means logged out.
type Credentials struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Valid reports whether both fields are present. Empty credentials are
// treated as a logout, not an error.
func (c Credentials) Valid() bool {
	return c.User != "" && c.Pass != ""
}
