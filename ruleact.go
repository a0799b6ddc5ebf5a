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

// Package ruleact provides a lightweight, embedded business rule and action
// execution engine.
//
// # Usage
//
// Rules are plain data: an ordered list of actions, each naming a registered
// action type, its parameters and an optional guard condition. Rules are
// organized into named groups that run under an execution mode.
//
// Create an engine over your rule store:
//
//	ruleEngine := ruleact.New("erp", store)
//
// Create a group:
//
//	group, err := ruleEngine.Groups.Create(types.RuleGroup{
//		Name:          "order intake",
//		ExecutionMode: types.ExecutionModeAll,
//		RuleIds:       []string{"discount", "notify-sales"},
//	})
//
// Execute it against an entity:
//
//	ectx := types.NewExecutionContext("ORDER", "ord-42", map[string]interface{}{
//		"total": 1250.0,
//		"customer": map[string]interface{}{"tier": "gold"},
//	})
//	outcomes, err := ruleEngine.ExecuteGroup(context.Background(), group.Id, ectx)
//
// Inspect rule health:
//
//	stats := ruleEngine.Metrics.GetRuleStatistics("discount")
//
// Get Engine Instance
//
//	ruleEngine, ok := ruleact.Get("erp")
package ruleact

import (
	"sync"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/engine"
)

var DefaultRuleact = &Ruleact{}

// Ruleact is a pool of named engine instances.
type Ruleact struct {
	engines sync.Map
}

// New creates an engine over the given rule store and stores it in the pool
// under id. An existing engine with the same id is returned as-is.
func (r *Ruleact) New(id string, ruleStore types.RuleStore, opts ...types.Option) *engine.Engine {
	if v, ok := r.engines.Load(id); ok {
		return v.(*engine.Engine)
	}
	ruleEngine := engine.New(ruleStore, opts...)
	if id != "" {
		r.engines.Store(id, ruleEngine)
	}
	return ruleEngine
}

// Get returns the engine stored under id.
func (r *Ruleact) Get(id string) (*engine.Engine, bool) {
	v, ok := r.engines.Load(id)
	if ok {
		return v.(*engine.Engine), ok
	}
	return nil, false
}

// Del stops and removes the engine stored under id.
func (r *Ruleact) Del(id string) {
	v, ok := r.engines.Load(id)
	if ok {
		v.(*engine.Engine).Stop()
		r.engines.Delete(id)
	}
}

// Stop releases all engine instances in the pool.
func (r *Ruleact) Stop() {
	r.engines.Range(func(key, value any) bool {
		if item, ok := value.(*engine.Engine); ok {
			item.Stop()
		}
		r.engines.Delete(key)
		return true
	})
}

// New creates an engine in the default pool.
func New(id string, ruleStore types.RuleStore, opts ...types.Option) *engine.Engine {
	return DefaultRuleact.New(id, ruleStore, opts...)
}

// Get returns the engine stored under id in the default pool.
func Get(id string) (*engine.Engine, bool) {
	return DefaultRuleact.Get(id)
}

// Del stops and removes the engine stored under id in the default pool.
func Del(id string) {
	DefaultRuleact.Del(id)
}

// Stop releases all engine instances in the default pool.
func Stop() {
	DefaultRuleact.Stop()
}
