// Package event defines the game event record emitted by every state
// transition and the append-only log that collects them. The frontend reads
// the log tail; nothing in the core ever removes an entry.
package event

import (
	"encoding/json"
	"fmt"
)

// Type tags an event with the action family that produced it.
type Type string

const (
	TypeSave        Type = "save"
	TypeImpulseBuy  Type = "impulse_buy"
	TypeMindfulBuy  Type = "mindful_buy"
	TypeResist      Type = "resist"
	TypeBake        Type = "bake"
	TypeInvest      Type = "invest"
	TypePaySupplier Type = "pay_supplier"
	TypeMissPayment Type = "miss_payment"
	TypeMissionDone Type = "mission_done"
	TypeUpgrade     Type = "upgrade"
	TypeNewDay      Type = "new_day"
	TypeStress      Type = "stress"
)

// Event is an immutable notification record. Data carries an auxiliary
// payload for frontend consumption and is never read back by the core.
type Event struct {
	Type    Type           `json:"type"`
	Message string         `json:"message"`
	Emoji   string         `json:"emoji"`
	Data    map[string]any `json:"data"`
}

// New constructs an event with an empty payload.
func New(t Type, message, emoji string) Event {
	return Event{Type: t, Message: message, Emoji: emoji, Data: map[string]any{}}
}

// WithData constructs an event carrying a payload.
func WithData(t Type, message, emoji string, data map[string]any) Event {
	return Event{Type: t, Message: message, Emoji: emoji, Data: data}
}

func (e Event) String() string {
	return fmt.Sprintf("%s  %s", e.Emoji, e.Message)
}

// Log is an ordered append-only event sequence. It grows without bound in
// memory; external views read only the tail via Recent.
type Log struct {
	entries []Event
	saved   int // count of entries already flushed to storage
}

// Append adds an event to the end of the log.
func (l *Log) Append(e Event) {
	l.entries = append(l.entries, e)
}

// Len returns the total number of logged events.
func (l *Log) Len() int {
	return len(l.entries)
}

// Recent returns up to n trailing entries, oldest first.
func (l *Log) Recent(n int) []Event {
	start := 0
	if len(l.entries) > n {
		start = len(l.entries) - n
	}
	out := make([]Event, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Unsaved returns the entries appended since the last MarkSaved call.
func (l *Log) Unsaved() []Event {
	out := make([]Event, len(l.entries)-l.saved)
	copy(out, l.entries[l.saved:])
	return out
}

// MarkSaved records that every current entry has been flushed.
func (l *Log) MarkSaved() {
	l.saved = len(l.entries)
}

// MarshalJSON serializes the full entry sequence.
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.entries)
}

// UnmarshalJSON restores the entry sequence. Restored entries count as saved.
func (l *Log) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return err
	}
	l.saved = len(l.entries)
	return nil
}
