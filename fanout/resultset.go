/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fanout

import (
	"bytes"
	"encoding/json"

	"echoai.dev/backend/providers"
)

// ResultSet maps each dispatched provider to its Result, preserving dispatch
// order. It is built incrementally by the Coordinator and read-only
// afterwards.
type ResultSet struct {
	names   []providers.Name
	results map[providers.Name]providers.Result
}

// NewResultSet creates an empty set with the given capacity hint.
func NewResultSet(capacity int) *ResultSet {
	return &ResultSet{
		names:   make([]providers.Name, 0, capacity),
		results: make(map[providers.Name]providers.Result, capacity),
	}
}

// Set records a provider's result. The first Set for a name fixes its
// position; later calls overwrite the value in place.
func (rs *ResultSet) Set(name providers.Name, result providers.Result) {
	if _, ok := rs.results[name]; !ok {
		rs.names = append(rs.names, name)
	}
	rs.results[name] = result
}

// Get returns the result for name and whether it is present.
func (rs *ResultSet) Get(name providers.Name) (providers.Result, bool) {
	r, ok := rs.results[name]
	return r, ok
}

// Names returns the providers in dispatch order.
func (rs *ResultSet) Names() []providers.Name {
	return rs.names
}

// Len returns the number of entries.
func (rs *ResultSet) Len() int {
	return len(rs.names)
}

// MarshalJSON renders the set as a JSON object of provider name to flattened
// response string, in dispatch order. encoding/json would sort map keys, so
// the object is built by hand.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range rs.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(name))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rs.results[name].Render(name))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
