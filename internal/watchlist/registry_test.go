package watchlist

import "testing"

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()

	r.Register("200000001", "NIFTY 50")

	if got := r.Resolve("200000001"); got != "NIFTY 50" {
		t.Errorf("Resolve = %q, want %q", got, "NIFTY 50")
	}
}

func TestRegistry_ResolveUnknownFallsBackToID(t *testing.T) {
	r := NewRegistry()

	if got := r.Resolve("999"); got != "999" {
		t.Errorf("Resolve = %q, want raw id %q", got, "999")
	}
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry()

	r.Register("101", "INFY")
	r.Register("101", "INFY-RENAMED")

	if got := r.Resolve("101"); got != "INFY-RENAMED" {
		t.Errorf("Resolve = %q, want %q", got, "INFY-RENAMED")
	}
}

func TestRegistry_IgnoresEmpty(t *testing.T) {
	r := NewRegistry()

	r.Register("", "INFY")
	r.Register("101", "")

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()

	r.Register("101", "INFY")
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if got := r.Resolve("101"); got != "101" {
		t.Errorf("Resolve = %q, want raw id after clear", got)
	}
}
