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

// Package template resolves {{path}} placeholders against an execution
// context. The grammar is restricted to `{{` identifier (`.` identifier)*
// `}}` over a fixed read-only root-name view, it never reflects into
// arbitrary host objects and resolution never fails: an unresolved path is
// left as the literal placeholder text.
package template

import (
	"strings"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/maps"
	"github.com/ruleact/ruleact/utils/str"
)

const (
	varPrefix = "{{"
	varSuffix = "}}"
)

// HasVar reports whether the string contains a placeholder.
func HasVar(s string) bool {
	open := strings.Index(s, varPrefix)
	return open >= 0 && strings.Index(s[open:], varSuffix) > 0
}

// Resolve substitutes placeholders throughout a value, recursing through
// plain maps and slices. Non-string leaves are returned unchanged.
func Resolve(value interface{}, ectx *types.ExecutionContext) interface{} {
	switch v := value.(type) {
	case string:
		return ResolveString(v, ectx)
	case types.Configuration:
		return types.Configuration(resolveMap(v, ectx))
	case map[string]interface{}:
		return resolveMap(v, ectx)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = Resolve(item, ectx)
		}
		return out
	default:
		return value
	}
}

// ResolveParameters returns a resolved copy of the action parameters.
func ResolveParameters(params types.Configuration, ectx *types.ExecutionContext) types.Configuration {
	if params == nil {
		return nil
	}
	return types.Configuration(resolveMap(params, ectx))
}

func resolveMap(m map[string]interface{}, ectx *types.ExecutionContext) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = Resolve(v, ectx)
	}
	return out
}

// ResolveString substitutes every placeholder in the string. A string that is
// exactly one placeholder resolves to the typed value, keeping non-string
// results intact. Mixed strings render resolved values with str.ToString.
func ResolveString(s string, ectx *types.ExecutionContext) interface{} {
	if !HasVar(s) {
		return s
	}
	var sb strings.Builder
	rest := s
	first := true
	for {
		open := strings.Index(rest, varPrefix)
		if open < 0 {
			break
		}
		close_ := strings.Index(rest[open:], varSuffix)
		if close_ < 0 {
			break
		}
		path := rest[open+len(varPrefix) : open+close_]
		literal := rest[open : open+close_+len(varSuffix)]

		value, ok := lookup(path, ectx)
		// The whole string is one placeholder: keep the typed value.
		if first && open == 0 && open+close_+len(varSuffix) == len(s) {
			if ok {
				return value
			}
			return s
		}
		sb.WriteString(rest[:open])
		if ok {
			sb.WriteString(str.ToString(value))
		} else {
			sb.WriteString(literal)
		}
		rest = rest[open+close_+len(varSuffix):]
		first = false
	}
	sb.WriteString(rest)
	return sb.String()
}

// lookup resolves a dot path against the fixed root-name set, falling back to
// dot-navigation into the entity for bare paths.
func lookup(path string, ectx *types.ExecutionContext) (interface{}, bool) {
	path = strings.TrimSpace(path)
	if !validPath(path) || ectx == nil {
		return nil, false
	}
	root, rest, _ := cutPath(path)
	switch root {
	case types.EntityIdKey:
		return scalarOnly(ectx.EntityId, rest)
	case types.EntityTypeKey:
		return scalarOnly(ectx.EntityType, rest)
	case types.UserIdKey:
		return scalarOnly(ectx.UserId, rest)
	case types.CorrelationIdKey:
		return scalarOnly(ectx.CorrelationId, rest)
	case types.TimestampKey:
		return scalarOnly(ectx.Timestamp, rest)
	case types.EntityKey:
		if rest == "" {
			return ectx.Entity, true
		}
		return maps.GetValue(ectx.Entity, rest)
	default:
		return maps.GetValue(ectx.Entity, path)
	}
}

func scalarOnly(value interface{}, rest string) (interface{}, bool) {
	if rest != "" {
		return nil, false
	}
	return value, true
}

func cutPath(path string) (root, rest string, found bool) {
	if i := strings.Index(path, "."); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return path, "", false
}

// validPath accepts identifier (`.` identifier)* where an identifier is a
// letter or underscore followed by letters, digits or underscores.
func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if !validIdentifier(segment) {
			return false
		}
	}
	return true
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
