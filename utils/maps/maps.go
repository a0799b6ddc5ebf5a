/*
 * Copyright 2025 The Ruleact Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package maps provides map decoding and dot-path navigation helpers.
package maps

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Map2Struct takes an input structure and uses reflection to translate it to
// the output structure. output must be a pointer to a map or struct.
func Map2Struct(input interface{}, output interface{}) error {
	return mapstructure.Decode(input, output)
}

// GetValue navigates a dot-separated path through nested maps.
// Returns false when any segment is absent or not a map.
func GetValue(m map[string]interface{}, path string) (interface{}, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	var current interface{} = m
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValue writes a value at a dot-separated path, creating intermediate maps.
// An intermediate segment holding a non-map value is replaced with a map.
func SetValue(m map[string]interface{}, path string, value interface{}) {
	if m == nil || path == "" {
		return
	}
	keys := strings.Split(path, ".")
	current := m
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
