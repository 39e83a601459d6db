package feed

import (
	"bytes"
	"encoding/json"
)

// MessageKind identifies the normalized shape of an inbound frame.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindHandshake
	KindSnapshot
	KindTrade
)

// minTradeFields is the minimum element count for a trade record.
const minTradeFields = 5

// Record is one normalized quote update. Snapshot records carry a Name;
// trade records carry only the transport ID. Empty fields mean the feed
// omitted the position, not a zero value.
type Record struct {
	Name   string
	ID     string
	Time   string
	LTP    string
	LTQ    string
	ATP    string
	Volume string
	Open   string
	High   string
	Low    string
	Close  string
}

// Handshake is the service banner frame.
type Handshake struct {
	Text    string
	Success bool
}

// Message is a classified inbound frame. Exactly one payload field is
// meaningful, selected by Kind.
type Message struct {
	Kind      MessageKind
	Handshake Handshake
	Records   []Record // snapshot frames; malformed entries already skipped
	Trade     Record   // trade frames
}

// frame is the raw wire envelope. The three shapes are distinguished by
// which field is present.
type frame struct {
	Message    string            `json:"message"`
	Success    bool              `json:"success"`
	SymbolList []json.RawMessage `json:"symbollist"`
	Trade      json.RawMessage   `json:"trade"`
}

// recordObject is the field-name fallback shape for a snapshot record.
type recordObject struct {
	Symbol    string      `json:"symbol"`
	SymbolID  json.Number `json:"symbolid"`
	Timestamp string      `json:"timestamp"`
	LTP       json.Number `json:"ltp"`
	LTQ       json.Number `json:"ltq"`
	ATP       json.Number `json:"atp"`
	Volume    json.Number `json:"volume"`
	Open      json.Number `json:"open"`
	High      json.Number `json:"high"`
	Low       json.Number `json:"low"`
	Close     json.Number `json:"close"`
}

// Parse classifies a raw frame into one normalized Message.
//
// Dispatch priority: handshake, then snapshot list, then trade, then
// unknown. Malformed snapshot records are skipped individually; a trade
// below the minimum field count degrades to KindUnknown. Parse never
// fails hard on garbled input so the caller can always discard and move on.
func Parse(data []byte) Message {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Message{Kind: KindUnknown}
	}

	switch {
	case f.Message != "":
		return Message{
			Kind:      KindHandshake,
			Handshake: Handshake{Text: f.Message, Success: f.Success},
		}

	case f.SymbolList != nil:
		records := make([]Record, 0, len(f.SymbolList))
		for _, raw := range f.SymbolList {
			rec, ok := parseSnapshotRecord(raw)
			if !ok {
				continue
			}
			records = append(records, rec)
		}
		return Message{Kind: KindSnapshot, Records: records}

	case f.Trade != nil:
		rec, ok := parseTradeRecord(f.Trade)
		if !ok {
			return Message{Kind: KindUnknown}
		}
		return Message{Kind: KindTrade, Trade: rec}

	default:
		return Message{Kind: KindUnknown}
	}
}

// parseSnapshotRecord normalizes one symbollist entry. The positional
// array form is tried first, then the field-name object form.
// Order: [name, id, time, ltp, ltq, atp, volume, open, high, low, close].
func parseSnapshotRecord(raw json.RawMessage) (Record, bool) {
	if fields, ok := parseArray(raw); ok {
		// Name and id are the bare minimum for a usable row.
		if len(fields) < 2 || fields[0] == "" {
			return Record{}, false
		}
		rec := Record{Name: fields[0], ID: at(fields, 1)}
		fillNumeric(&rec, fields[2:])
		return rec, true
	}

	var obj recordObject
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Symbol == "" {
		return Record{}, false
	}
	return Record{
		Name:   obj.Symbol,
		ID:     obj.SymbolID.String(),
		Time:   obj.Timestamp,
		LTP:    obj.LTP.String(),
		LTQ:    obj.LTQ.String(),
		ATP:    obj.ATP.String(),
		Volume: obj.Volume.String(),
		Open:   obj.Open.String(),
		High:   obj.High.String(),
		Low:    obj.Low.String(),
		Close:  obj.Close.String(),
	}, true
}

// parseTradeRecord normalizes a trade array.
// Order: [id, time, ltp, ltq, atp, volume, open, high, low, close].
func parseTradeRecord(raw json.RawMessage) (Record, bool) {
	fields, ok := parseArray(raw)
	if !ok || len(fields) < minTradeFields || fields[0] == "" {
		return Record{}, false
	}
	rec := Record{ID: fields[0]}
	fillNumeric(&rec, fields[1:])
	return rec, true
}

// fillNumeric assigns the trailing positional fields, tolerating short
// payloads. Missing positions stay empty so a merge keeps prior values.
func fillNumeric(rec *Record, fields []string) {
	dst := []*string{
		&rec.Time, &rec.LTP, &rec.LTQ, &rec.ATP, &rec.Volume,
		&rec.Open, &rec.High, &rec.Low, &rec.Close,
	}
	for i := 0; i < len(dst) && i < len(fields); i++ {
		*dst[i] = fields[i]
	}
}

// parseArray decodes a JSON array of strings and numbers into canonical
// string form. Numbers keep their exact wire representation.
func parseArray(raw json.RawMessage) ([]string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return nil, false
	}

	fields := make([]string, len(elems))
	for i, el := range elems {
		switch v := el.(type) {
		case string:
			fields[i] = v
		case json.Number:
			fields[i] = v.String()
		case nil:
			fields[i] = ""
		default:
			return nil, false
		}
	}
	return fields, true
}

// at returns fields[i] or "" when out of range.
func at(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
