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

package engine

import (
	"errors"
	"sort"
	"sync"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/components/action"
)

// Registry is the default registry for action handlers.
var Registry = new(ActionHandlerRegistry)

// init registers the built-in handlers to the default registry.
func init() {
	for _, handler := range action.Registry.Handlers() {
		_ = Registry.Register(handler)
	}
}

// ActionHandlerRegistry is a thread-safe registry of action handlers keyed by
// action type. New action kinds register without modifying dispatch logic.
type ActionHandlerRegistry struct {
	handlers map[string]types.ActionHandler
	sync.RWMutex
}

// Register adds a handler to the registry.
// Returns an error if the action type already exists.
func (r *ActionHandlerRegistry) Register(handler types.ActionHandler) error {
	r.Lock()
	defer r.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string]types.ActionHandler)
	}
	if _, ok := r.handlers[handler.Type()]; ok {
		return errors.New("the action handler already exists. actionType=" + handler.Type())
	}
	r.handlers[handler.Type()] = handler
	return nil
}

// Unregister removes a handler by its action type.
func (r *ActionHandlerRegistry) Unregister(actionType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.handlers[actionType]; !ok {
		return &types.UnknownActionTypeError{ActionType: actionType}
	}
	delete(r.handlers, actionType)
	return nil
}

// NewHandler creates a fresh handler instance for the action type.
func (r *ActionHandlerRegistry) NewHandler(actionType string) (types.ActionHandler, error) {
	r.RLock()
	defer r.RUnlock()
	handler, ok := r.handlers[actionType]
	if !ok {
		return nil, &types.UnknownActionTypeError{ActionType: actionType}
	}
	return handler.New(), nil
}

// Types returns all registered action types, sorted.
func (r *ActionHandlerRegistry) Types() []string {
	r.RLock()
	defer r.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for actionType := range r.handlers {
		out = append(out, actionType)
	}
	sort.Strings(out)
	return out
}
