package portalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the one shape list endpoints are normalised to, whether the
// backend paginated (`{results, count}`) or sent a bare array.
type Page[T any] struct {
	Results  []T    `json:"results"`
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

func DecodePage[T any](raw json.RawMessage) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{Results: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
		return Page[T]{Results: items, Count: len(items)}, nil
	}

	var env struct {
		Results  json.RawMessage `json:"results"`
		Count    *int            `json:"count"`
		Next     *string         `json:"next"`
		Previous *string         `json:"previous"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Page[T]{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if env.Results == nil {
		return Page[T]{}, ErrUnexpectedEnvelope
	}

	items := []T{}
	if !bytes.Equal(bytes.TrimSpace(env.Results), []byte("null")) {
		if err := json.Unmarshal(env.Results, &items); err != nil {
			return Page[T]{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
	}

	page := Page[T]{Results: items, Count: len(items)}
	if env.Count != nil {
		page.Count = *env.Count
	}
	if env.Next != nil {
		page.Next = *env.Next
	}
	if env.Previous != nil {
		page.Previous = *env.Previous
	}

	return page, nil
}

func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return out, nil
}
