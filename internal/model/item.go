package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Item is the domain model for a todo entry.
type Item struct {
	Identifier   int       `json:"identifier"`
	Title        string    `json:"title"`
	ModifiedDate time.Time `json:"modifiedDate"`
	Complete     bool      `json:"complete"`
}

// Document is the persisted shape: a single "list" key wrapping every item.
type Document struct {
	List []Item `json:"list"`
}

// referenceDate is the epoch of the numeric dates written by the mobile app.
var referenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxDateSeconds bounds numeric dates to what time.Duration can hold.
const maxDateSeconds = float64(math.MaxInt64 / int64(time.Second))

type itemWire struct {
	Identifier   int             `json:"identifier"`
	Title        string          `json:"title"`
	ModifiedDate json.RawMessage `json:"modifiedDate"`
	Complete     bool            `json:"complete"`
}

// MarshalJSON writes modifiedDate as an RFC 3339 UTC string.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Identifier   int    `json:"identifier"`
		Title        string `json:"title"`
		ModifiedDate string `json:"modifiedDate"`
		Complete     bool   `json:"complete"`
	}{
		Identifier:   it.Identifier,
		Title:        it.Title,
		ModifiedDate: it.ModifiedDate.UTC().Format(time.RFC3339Nano),
		Complete:     it.Complete,
	})
}

// UnmarshalJSON accepts modifiedDate either as an RFC 3339 string or as a
// number of seconds since 2001-01-01 UTC.
func (it *Item) UnmarshalJSON(b []byte) error {
	var w itemWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ts, err := parseDate(w.ModifiedDate)
	if err != nil {
		return fmt.Errorf("item %d: %w", w.Identifier, err)
	}
	*it = Item{
		Identifier:   w.Identifier,
		Title:        w.Title,
		ModifiedDate: ts,
		Complete:     w.Complete,
	}
	return nil
}

func parseDate(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, fmt.Errorf("modifiedDate: missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, fmt.Errorf("modifiedDate: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("modifiedDate: %w", err)
		}
		return ts.UTC(), nil
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, fmt.Errorf("modifiedDate: %w", err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("modifiedDate: not a finite number")
	}
	if math.Abs(secs) >= maxDateSeconds {
		return time.Time{}, fmt.Errorf("modifiedDate: %g seconds is out of range", secs)
	}
	whole, frac := math.Modf(secs)
	return referenceDate.Add(time.Duration(whole) * time.Second).
		Add(time.Duration(math.Round(frac * float64(time.Second)))), nil
}
