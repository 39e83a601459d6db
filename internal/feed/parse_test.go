package feed

import (
	"testing"
)

func TestParse_Handshake(t *testing.T) {
	data := []byte(`{"message": "TrueData Real Time Data Service", "success": true}`)

	msg := Parse(data)
	if msg.Kind != KindHandshake {
		t.Fatalf("Kind = %v, want KindHandshake", msg.Kind)
	}
	if msg.Handshake.Text != HandshakeText {
		t.Errorf("Text = %q, want %q", msg.Handshake.Text, HandshakeText)
	}
	if !msg.Handshake.Success {
		t.Error("Success = false, want true")
	}
}

func TestParse_Handshake_Failure(t *testing.T) {
	data := []byte(`{"message": "TrueData Real Time Data Service", "success": false}`)

	msg := Parse(data)
	if msg.Kind != KindHandshake {
		t.Fatalf("Kind = %v, want KindHandshake", msg.Kind)
	}
	if msg.Handshake.Success {
		t.Error("Success = true, want false")
	}
}

func TestParse_Snapshot(t *testing.T) {
	data := []byte(`{"symbollist": [
		["NIFTY 50", "200000001", "12:00:00", "22500.50", "100", "22480.10", "1250000", "22400.00", "22550.00", "22350.00", "22420.00"],
		["GOLD-I", "950000123", "12:00:01", 72100.5, 2, 72050.25, 54000, 71900, 72200, 71850, 71950]
	]}`)

	msg := Parse(data)
	if msg.Kind != KindSnapshot {
		t.Fatalf("Kind = %v, want KindSnapshot", msg.Kind)
	}
	if len(msg.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(msg.Records))
	}

	rec := msg.Records[0]
	if rec.Name != "NIFTY 50" {
		t.Errorf("Name = %q, want %q", rec.Name, "NIFTY 50")
	}
	if rec.ID != "200000001" {
		t.Errorf("ID = %q, want %q", rec.ID, "200000001")
	}
	if rec.LTP != "22500.50" {
		t.Errorf("LTP = %q, want %q", rec.LTP, "22500.50")
	}
	if rec.Close != "22420.00" {
		t.Errorf("Close = %q, want %q", rec.Close, "22420.00")
	}

	// Numeric elements keep their exact wire representation.
	if msg.Records[1].LTP != "72100.5" {
		t.Errorf("numeric LTP = %q, want %q", msg.Records[1].LTP, "72100.5")
	}
	if msg.Records[1].ID != "950000123" {
		t.Errorf("numeric ID = %q, want %q", msg.Records[1].ID, "950000123")
	}
}

func TestParse_Snapshot_ObjectFallback(t *testing.T) {
	data := []byte(`{"symbollist": [
		{"symbol": "INFY", "symbolid": 101, "timestamp": "12:00:00", "ltp": 1500.00, "volume": 9000}
	]}`)

	msg := Parse(data)
	if msg.Kind != KindSnapshot {
		t.Fatalf("Kind = %v, want KindSnapshot", msg.Kind)
	}
	if len(msg.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(msg.Records))
	}

	rec := msg.Records[0]
	if rec.Name != "INFY" {
		t.Errorf("Name = %q, want %q", rec.Name, "INFY")
	}
	if rec.ID != "101" {
		t.Errorf("ID = %q, want %q", rec.ID, "101")
	}
	if rec.LTP != "1500.00" {
		t.Errorf("LTP = %q, want %q", rec.LTP, "1500.00")
	}
}

func TestParse_Snapshot_SkipsMalformedRecords(t *testing.T) {
	// One bad record must not abort the batch.
	data := []byte(`{"symbollist": [
		42,
		["INFY", "101", "12:00:00", "1500.00"],
		{"unexpected": true},
		["TCS"]
	]}`)

	msg := Parse(data)
	if msg.Kind != KindSnapshot {
		t.Fatalf("Kind = %v, want KindSnapshot", msg.Kind)
	}
	if len(msg.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(msg.Records))
	}
	if msg.Records[0].Name != "INFY" {
		t.Errorf("Name = %q, want %q", msg.Records[0].Name, "INFY")
	}
	// Missing trailing fields stay empty.
	if msg.Records[0].LTQ != "" {
		t.Errorf("LTQ = %q, want empty", msg.Records[0].LTQ)
	}
}

func TestParse_Trade(t *testing.T) {
	data := []byte(`{"trade": ["101", "12:00:01", "1510.50", "5", "1505.00", "9500", "1490.00", "1515.00", "1488.00", "1495.00"]}`)

	msg := Parse(data)
	if msg.Kind != KindTrade {
		t.Fatalf("Kind = %v, want KindTrade", msg.Kind)
	}
	if msg.Trade.ID != "101" {
		t.Errorf("ID = %q, want %q", msg.Trade.ID, "101")
	}
	if msg.Trade.LTP != "1510.50" {
		t.Errorf("LTP = %q, want %q", msg.Trade.LTP, "1510.50")
	}
	if msg.Trade.Close != "1495.00" {
		t.Errorf("Close = %q, want %q", msg.Trade.Close, "1495.00")
	}
	if msg.Trade.Name != "" {
		t.Errorf("Name = %q, want empty (trades carry no name)", msg.Trade.Name)
	}
}

func TestParse_Trade_TooShort(t *testing.T) {
	data := []byte(`{"trade": ["101", "12:00:01", "1510.50"]}`)

	msg := Parse(data)
	if msg.Kind != KindUnknown {
		t.Errorf("Kind = %v, want KindUnknown for short trade", msg.Kind)
	}
}

func TestParse_Unknown(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty object", `{}`},
		{"unrelated fields", `{"heartbeat": 1}`},
		{"not json", `garbled {{{`},
		{"trade not array", `{"trade": {"id": "101"}}`},
		{"json array top level", `[1, 2, 3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := Parse([]byte(tc.data))
			if msg.Kind != KindUnknown {
				t.Errorf("Kind = %v, want KindUnknown", msg.Kind)
			}
		})
	}
}

func TestParse_DispatchPriority(t *testing.T) {
	// A frame carrying both a banner and a symbollist is a handshake.
	data := []byte(`{"message": "TrueData Real Time Data Service", "success": true, "symbollist": []}`)

	msg := Parse(data)
	if msg.Kind != KindHandshake {
		t.Errorf("Kind = %v, want KindHandshake", msg.Kind)
	}
}
