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
	"time"

	"github.com/ruleact/ruleact/api/types"
)

// Engine ties the group service, the action executor and the metrics service
// together and drives rule group execution.
type Engine struct {
	Config   types.Config
	Groups   *GroupService
	Executor *ActionExecutor
	Metrics  *MetricsService

	ruleStore types.RuleStore
}

// RuleOutcome is what executing one rule of a group produced.
type RuleOutcome struct {
	RuleId  string
	Results []types.ActionResult
}

// Matched reports whether at least one action of the rule actually ran.
func (o RuleOutcome) Matched() bool {
	for _, result := range o.Results {
		if !result.Skipped {
			return true
		}
	}
	return false
}

// Succeeded reports whether every action that actually ran succeeded.
func (o RuleOutcome) Succeeded() bool {
	for _, result := range o.Results {
		if !result.Skipped && !result.Success {
			return false
		}
	}
	return true
}

// New creates an engine over the given rule store. The metrics service is
// created here and installed as the config's recorder unless the caller
// already supplied one.
func New(ruleStore types.RuleStore, opts ...types.Option) *Engine {
	config := types.NewConfig(opts...)
	metricsService := NewMetricsService(config)
	if config.Metrics == nil {
		config.Metrics = metricsService
	}
	return &Engine{
		Config:    config,
		Groups:    NewGroupService(config, ruleStore, nil),
		Executor:  NewActionExecutor(config, nil),
		Metrics:   metricsService,
		ruleStore: ruleStore,
	}
}

// ExecuteRule runs all actions of a single rule and records its statistics.
func (e *Engine) ExecuteRule(ctx context.Context, ruleId string, ectx *types.ExecutionContext) (RuleOutcome, error) {
	rule, ok := e.ruleStore.GetRule(ruleId)
	if !ok {
		return RuleOutcome{}, types.NewRuleNotFound(ruleId)
	}
	return e.executeRule(ctx, rule, ectx), nil
}

// ExecuteGroup resolves the group's member rules and runs them in member
// order under the group's execution mode:
//
//   - ALL runs every rule and concatenates the results.
//   - FIRST_MATCH stops after the first rule where at least one action ran.
//   - ANY stops after the first rule where at least one action ran and every
//     action that ran succeeded.
//
// A member id that no longer resolves to a rule aborts the run with a not
// found error.
func (e *Engine) ExecuteGroup(ctx context.Context, groupId string, ectx *types.ExecutionContext) ([]RuleOutcome, error) {
	group, ok := e.Groups.Get(groupId)
	if !ok {
		return nil, types.NewGroupNotFound(groupId)
	}

	var outcomes []RuleOutcome
	for _, ruleId := range group.RuleIds {
		rule, ok := e.ruleStore.GetRule(ruleId)
		if !ok {
			return outcomes, types.NewRuleNotFound(ruleId)
		}
		outcome := e.executeRule(ctx, rule, ectx)
		outcomes = append(outcomes, outcome)

		switch group.ExecutionMode {
		case types.ExecutionModeFirstMatch:
			if outcome.Matched() {
				return outcomes, nil
			}
		case types.ExecutionModeAny:
			if outcome.Matched() && outcome.Succeeded() {
				return outcomes, nil
			}
		}
	}
	return outcomes, nil
}

func (e *Engine) executeRule(ctx context.Context, rule *types.Rule, ectx *types.ExecutionContext) RuleOutcome {
	start := time.Now()
	results := e.Executor.ExecuteActions(ctx, rule.Actions, ectx)
	elapsed := time.Since(start)

	outcome := RuleOutcome{RuleId: rule.Id, Results: results}
	e.Metrics.RecordRuleExecution(rule.Id, elapsed, outcome.Matched(), outcome.Succeeded())
	e.Metrics.RecordCategoryExecution(rule.Category)
	for _, result := range results {
		if !result.Skipped && !result.Success {
			e.Metrics.RecordError(rule.Id, result.ActionType, result.Error)
		}
	}
	return outcome
}

// Stop releases shared handler instances and halts any scheduled metrics
// rollover.
func (e *Engine) Stop() {
	e.Executor.Destroy()
	e.Metrics.Stop()
}
