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

package types

import (
	"context"
	"sync"
	"time"
)

// ActionHandler is implemented per action kind and registered at startup.
// Implementations are reused across executions and must be safe for
// concurrent use.
//
// Register custom handlers with the executor or the default registry:
//
//	engine.Registry.Register(&MyHandler{})
type ActionHandler interface {
	// New creates a new instance of the handler.
	New() ActionHandler
	// Type returns the action type the handler serves. Types must be unique.
	Type() string
	// RequiredParameters declares the parameter names that must be present
	// before the handler is invoked.
	RequiredParameters() []string
	// Init prepares the handler, called once when the handler is bound to an
	// executor. Shared clients are set up here.
	Init(config Config) error
	// Execute performs the effect against resolved parameters and the
	// execution context. The context carries the per-action deadline.
	Execute(ctx context.Context, params Configuration, ectx *ExecutionContext) (interface{}, error)
	// Destroy releases handler resources.
	Destroy()
}

// HandlerRegistry is an open registry of action handlers: new action kinds
// register without modifying dispatch logic.
type HandlerRegistry interface {
	// Register adds a handler. Returns an error if the type already exists.
	Register(handler ActionHandler) error
	// Unregister removes a handler by action type.
	Unregister(actionType string) error
	// NewHandler creates a fresh handler instance for the action type.
	NewHandler(actionType string) (ActionHandler, error)
	// Types returns all registered action types.
	Types() []string
}

// SafeHandlerSlice is a thread-safe handler list, used as the package-level
// collection point for built-in handlers before they reach a registry.
type SafeHandlerSlice struct {
	handlers []ActionHandler
	sync.Mutex
}

// Add appends handlers to the slice.
func (p *SafeHandlerSlice) Add(handlers ...ActionHandler) {
	p.Lock()
	defer p.Unlock()
	p.handlers = append(p.handlers, handlers...)
}

// Handlers returns the collected handlers.
func (p *SafeHandlerSlice) Handlers() []ActionHandler {
	p.Lock()
	defer p.Unlock()
	return p.handlers
}

// RuleStore resolves rule ids to rule definitions. It is an external
// collaborator, the engine consumes it for existence checks and for the
// action lists of group members.
type RuleStore interface {
	// GetRule returns the rule and true, or false when the id does not resolve.
	GetRule(id string) (*Rule, bool)
}

// GroupStore keys rule groups for process lifetime. The default store is
// in-memory. Concurrent writers to the same group race, last write wins.
// Multi-instance deployment needs a compare-and-swap capable implementation
// at this boundary.
type GroupStore interface {
	Get(id string) (RuleGroup, bool)
	Put(group RuleGroup)
	Delete(id string) bool
	List() []RuleGroup
}

// MetricsRecorder receives execution telemetry from the executor and the
// group runner.
type MetricsRecorder interface {
	// RecordRuleExecution records one run of a rule's action batch.
	RecordRuleExecution(ruleId string, elapsed time.Duration, matched bool, success bool)
	// RecordActionExecution records one handler invocation.
	RecordActionExecution(actionType string, elapsed time.Duration, success bool)
}
