package pokejournal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// EventIDs is a list of event ids stored on a showdown. Nothing guarantees
// the ids point at existing or active events; membership tests are all a
// consumer may rely on.
type EventIDs []int64

// ParseEventIDs decodes a stored event id list. It never fails: malformed
// JSON or a non-array value yields an empty list, and entries that are not
// integral numbers (or numeric strings) are dropped.
func ParseEventIDs(raw string) EventIDs {
	items, err := decodeItems(strings.NewReader(raw))
	if err != nil {
		return EventIDs{}
	}

	ids := make(EventIDs, 0, len(items))
	for _, item := range items {
		if id, ok := eventIDFrom(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// decodeItems reads exactly one JSON array from r. Anything after the array
// other than whitespace makes the whole input malformed.
func decodeItems(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, errors.New("event ids must be an array")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after event id array")
	}
	return items, nil
}

func eventIDFrom(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		return parseEventID(t.String())
	case string:
		return parseEventID(strings.TrimSpace(t))
	}
	return 0, false
}

func parseEventID(s string) (int64, bool) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Contains reports whether id is in the list.
func (ids EventIDs) Contains(id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Intersects reports whether any id in the list is in set.
func (ids EventIDs) Intersects(set map[int64]struct{}) bool {
	for _, v := range ids {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// String returns the stored JSON form of the list.
func (ids EventIDs) String() string {
	if len(ids) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]int64(ids))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// EventIDList is a request field holding event ids. Clients send either a
// JSON array of numbers or a string containing a serialized array. A string
// that is not exactly one array is rejected; inside it, entries that are not
// ids are dropped like in stored data.
type EventIDList struct {
	IDs EventIDs
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *EventIDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty event id list")
	}

	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items, err := decodeItems(strings.NewReader(raw))
		if err != nil {
			return fmt.Errorf("malformed event id list %q: %w", raw, err)
		}
		ids := make(EventIDs, 0, len(items))
		for _, item := range items {
			if id, ok := eventIDFrom(item); ok {
				ids = append(ids, id)
			}
		}
		l.IDs = ids
		return nil
	case '[':
		items, err := decodeItems(bytes.NewReader(data))
		if err != nil {
			return err
		}
		ids := make(EventIDs, 0, len(items))
		for _, item := range items {
			id, ok := eventIDFrom(item)
			if !ok {
				return fmt.Errorf("invalid event id %v", item)
			}
			ids = append(ids, id)
		}
		l.IDs = ids
		return nil
	}

	return fmt.Errorf("event ids must be an array or a JSON string")
}

// MarshalJSON implements json.Marshaler.
func (l EventIDList) MarshalJSON() ([]byte, error) {
	return []byte(l.IDs.String()), nil
}
