package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Selection is the user's choice inside one option group.
// It is one of Single (radio), Multiple (checkbox) or Counted (counter).
type Selection interface {
	isSelection()
}

// Single is a radio selection: exactly one item id
type Single struct {
	ItemID string
}

// Multiple is a checkbox selection: a set of item ids
type Multiple struct {
	ItemIDs []string
}

// Counted is a counter selection: item id -> count
type Counted struct {
	Counts map[string]int
}

func (Single) isSelection()   {}
func (Multiple) isSelection() {}
func (Counted) isSelection()  {}

// Total returns the summed count across all items of the group
func (c Counted) Total() int {
	total := 0
	for _, qty := range c.Counts {
		total += qty
	}
	return total
}

// SelectionSet maps option group id to its selection.
// On the wire each value is a string, an array of strings or an object of counts.
type SelectionSet map[string]Selection

// Clone returns a deep copy of the set
func (s SelectionSet) Clone() SelectionSet {
	if s == nil {
		return nil
	}
	out := make(SelectionSet, len(s))
	for groupID, sel := range s {
		switch v := sel.(type) {
		case Single:
			out[groupID] = v
		case Multiple:
			out[groupID] = Multiple{ItemIDs: append([]string(nil), v.ItemIDs...)}
		case Counted:
			counts := make(map[string]int, len(v.Counts))
			for id, qty := range v.Counts {
				counts[id] = qty
			}
			out[groupID] = Counted{Counts: counts}
		}
	}
	return out
}

// Normalize returns the set with duplicate checkbox ids removed and empty groups dropped:
// a blank radio id, an empty checkbox list and a counter without any positive count.
// Two sets describing the same configuration normalize to equal sets.
func (s SelectionSet) Normalize() SelectionSet {
	out := make(SelectionSet, len(s))
	for groupID, sel := range s {
		switch v := sel.(type) {
		case Single:
			if v.ItemID != "" {
				out[groupID] = v
			}
		case Multiple:
			if ids := DistinctIDs(v.ItemIDs); len(ids) > 0 {
				out[groupID] = Multiple{ItemIDs: ids}
			}
		case Counted:
			counts := make(map[string]int, len(v.Counts))
			for id, qty := range v.Counts {
				if qty > 0 {
					counts[id] = qty
				}
			}
			if len(counts) > 0 {
				out[groupID] = Counted{Counts: counts}
			}
		}
	}
	return out
}

// DistinctIDs returns ids without blanks or repeats, keeping first-seen order
func DistinctIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// UnmarshalJSON decodes the three wire shapes into their variants
func (s *SelectionSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode selections: %w", err)
	}

	out := make(SelectionSet, len(raw))
	for groupID, value := range raw {
		trimmed := bytes.TrimSpace(value)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}

		switch trimmed[0] {
		case '"':
			var itemID string
			if err := json.Unmarshal(trimmed, &itemID); err != nil {
				return fmt.Errorf("invalid radio selection for %s: %w", groupID, err)
			}
			if itemID == "" {
				continue
			}
			out[groupID] = Single{ItemID: itemID}
		case '[':
			var itemIDs []string
			if err := json.Unmarshal(trimmed, &itemIDs); err != nil {
				return fmt.Errorf("invalid checkbox selection for %s: %w", groupID, err)
			}
			out[groupID] = Multiple{ItemIDs: itemIDs}
		case '{':
			var counts map[string]int
			if err := json.Unmarshal(trimmed, &counts); err != nil {
				return fmt.Errorf("invalid counter selection for %s: %w", groupID, err)
			}
			out[groupID] = Counted{Counts: counts}
		default:
			return fmt.Errorf("unsupported selection shape for %s", groupID)
		}
	}

	*s = out
	return nil
}

// MarshalJSON encodes each variant back to its wire shape
func (s SelectionSet) MarshalJSON() ([]byte, error) {
	raw := make(map[string]interface{}, len(s))
	for groupID, sel := range s {
		switch v := sel.(type) {
		case Single:
			raw[groupID] = v.ItemID
		case Multiple:
			ids := v.ItemIDs
			if ids == nil {
				ids = []string{}
			}
			raw[groupID] = ids
		case Counted:
			counts := v.Counts
			if counts == nil {
				counts = map[string]int{}
			}
			raw[groupID] = counts
		}
	}
	return json.Marshal(raw)
}
