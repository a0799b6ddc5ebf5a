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
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/str"
	"github.com/ruleact/ruleact/utils/template"
)

// ActionExecutor interprets ordered, conditionally-guarded action lists
// against an execution context. Handlers run under a per-action timeout and
// per-action failures are isolated, one action never blocks or aborts its
// siblings.
type ActionExecutor struct {
	config   types.Config
	registry types.HandlerRegistry

	// bound holds one initialized handler instance per action type
	bound   map[string]types.ActionHandler
	boundMu sync.RWMutex

	// compiled guard conditions, keyed by expression text
	programs   map[string]*vm.Program
	programsMu sync.RWMutex
}

// NewActionExecutor creates an executor over the given registry. A nil
// registry falls back to the default Registry with the built-in handlers.
func NewActionExecutor(config types.Config, registry types.HandlerRegistry) *ActionExecutor {
	if registry == nil {
		registry = Registry
	}
	return &ActionExecutor{
		config:   config,
		registry: registry,
		bound:    make(map[string]types.ActionHandler),
		programs: make(map[string]*vm.Program),
	}
}

// RegisterHandler adds a handler to the executor's registry.
func (x *ActionExecutor) RegisterHandler(handler types.ActionHandler) error {
	return x.registry.Register(handler)
}

// HandlerTypes returns the action types the executor can dispatch.
func (x *ActionExecutor) HandlerTypes() []string {
	return x.registry.Types()
}

// Execute runs a single action to completion. The handler is resolved from
// the registry, required parameters are checked, templates are resolved and
// the invocation races the action timeout. This is the only contract that
// surfaces failure directly, it has no siblings to protect.
func (x *ActionExecutor) Execute(ctx context.Context, actionDef types.RuleAction, ectx *types.ExecutionContext) (interface{}, error) {
	handler, err := x.handler(actionDef.Type)
	if err != nil {
		return nil, err
	}
	for _, name := range handler.RequiredParameters() {
		if _, ok := actionDef.Parameters[name]; !ok {
			return nil, &types.MissingParameterError{ActionType: actionDef.Type, Parameter: name}
		}
	}
	timeout := x.actionTimeout(actionDef.Parameters)
	params := template.ResolveParameters(actionDef.Parameters, ectx)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result interface{}
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if caught := recover(); caught != nil {
				done <- outcome{err: fmt.Errorf("handler panic: %v", caught)}
			}
		}()
		result, execErr := handler.Execute(cctx, params, ectx)
		done <- outcome{result: result, err: execErr}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, &types.HandlerError{ActionType: actionDef.Type, Err: out.err}
		}
		return out.result, nil
	case <-cctx.Done():
		if ctx.Err() != nil {
			// the caller's context ended, not the action timer
			return nil, ctx.Err()
		}
		return nil, &types.TimeoutError{ActionType: actionDef.Type, Timeout: timeout}
	}
}

// ExecuteActions runs the batch in ascending Order and returns one result per
// input action, indexed by original input position. Guarded actions whose
// condition is falsy or fails are skipped without invoking the handler.
// Handler and timeout failures are recorded in the action's result entry and
// the batch continues.
func (x *ActionExecutor) ExecuteActions(ctx context.Context, actions []types.RuleAction, ectx *types.ExecutionContext) []types.ActionResult {
	order := make([]int, len(actions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return actions[order[i]].Order < actions[order[j]].Order
	})

	results := make([]types.ActionResult, len(actions))
	for _, i := range order {
		actionDef := actions[i]
		result := types.ActionResult{
			ActionId:   actionDef.Id,
			ActionType: actionDef.Type,
		}
		if actionDef.Condition != "" && !x.evalCondition(actionDef.Condition, ectx) {
			result.Success = true
			result.Skipped = true
			results[i] = result
			continue
		}

		start := time.Now()
		out, err := x.Execute(ctx, actionDef, ectx)
		result.ExecutionTime = time.Since(start)
		if err != nil {
			result.Error = err.Error()
			x.logger().Printf("action failed. actionId=%s actionType=%s err=%s",
				actionDef.Id, actionDef.Type, err)
		} else {
			result.Success = true
			result.Result = out
		}
		if x.config.Metrics != nil {
			x.config.Metrics.RecordActionExecution(actionDef.Type, result.ExecutionTime, result.Success)
		}
		results[i] = result
	}
	return results
}

// handler returns the initialized shared instance for the action type,
// creating and initializing it on first use.
func (x *ActionExecutor) handler(actionType string) (types.ActionHandler, error) {
	x.boundMu.RLock()
	handler, ok := x.bound[actionType]
	x.boundMu.RUnlock()
	if ok {
		return handler, nil
	}

	x.boundMu.Lock()
	defer x.boundMu.Unlock()
	if handler, ok = x.bound[actionType]; ok {
		return handler, nil
	}
	handler, err := x.registry.NewHandler(actionType)
	if err != nil {
		return nil, err
	}
	if err = handler.Init(x.config); err != nil {
		return nil, &types.HandlerError{ActionType: actionType, Err: err}
	}
	x.bound[actionType] = handler
	return handler, nil
}

// evalCondition evaluates a guard against the entity fields merged with the
// identifying context fields. Evaluation errors are swallowed and treated as
// false, a guard must never crash a batch.
func (x *ActionExecutor) evalCondition(condition string, ectx *types.ExecutionContext) bool {
	program, err := x.conditionProgram(condition)
	if err != nil {
		x.logger().Printf("condition compile failed, treating as false. condition=%s err=%s", condition, err)
		return false
	}
	out, err := expr.Run(program, ectx.Vars())
	if err != nil {
		x.logger().Printf("condition evaluation failed, treating as false. condition=%s err=%s", condition, err)
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func (x *ActionExecutor) conditionProgram(condition string) (*vm.Program, error) {
	x.programsMu.RLock()
	program, ok := x.programs[condition]
	x.programsMu.RUnlock()
	if ok {
		return program, nil
	}
	program, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	x.programsMu.Lock()
	x.programs[condition] = program
	x.programsMu.Unlock()
	return program, nil
}

// actionTimeout reads the `timeout` parameter in milliseconds, falling back
// to the configured default.
func (x *ActionExecutor) actionTimeout(params types.Configuration) time.Duration {
	if params != nil {
		if ms, ok := str.ToFloat64(params[types.TimeoutKey]); ok && ms > 0 {
			return time.Duration(ms * float64(time.Millisecond))
		}
	}
	if x.config.DefaultActionTimeout > 0 {
		return x.config.DefaultActionTimeout
	}
	return time.Millisecond * 5000
}

func (x *ActionExecutor) logger() types.Logger {
	return types.NewLogger(x.config.Logger)
}

// Destroy releases every bound handler.
func (x *ActionExecutor) Destroy() {
	x.boundMu.Lock()
	defer x.boundMu.Unlock()
	for _, handler := range x.bound {
		handler.Destroy()
	}
	x.bound = make(map[string]types.ActionHandler)
}
