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
	"errors"
	"testing"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/components/action"
	"github.com/ruleact/ruleact/test/assert"
)

// setFieldRule builds a one-action rule that writes value to field, with an
// optional guard condition.
func setFieldRule(id, field string, value interface{}, condition string) types.Rule {
	return types.Rule{
		Id:       id,
		Name:     id,
		Category: "test",
		Actions: []types.RuleAction{
			{
				Id:        id + "-a1",
				Type:      action.TypeSetField,
				Condition: condition,
				Parameters: types.Configuration{
					"field": field,
					"value": value,
				},
			},
		},
	}
}

// failingRule builds a one-action rule whose action always fails on a
// missing required parameter.
func failingRule(id string) types.Rule {
	return types.Rule{
		Id:      id,
		Name:    id,
		Actions: []types.RuleAction{{Id: id + "-a1", Type: action.TypeSetField}},
	}
}

func newTestEngine(t *testing.T, rules ...types.Rule) *Engine {
	t.Helper()
	ruleStore := NewMemoryRuleStore()
	for _, rule := range rules {
		ruleStore.PutRule(rule)
	}
	return New(ruleStore)
}

func createGroup(t *testing.T, e *Engine, mode types.ExecutionMode, ruleIds ...string) types.RuleGroup {
	t.Helper()
	group, err := e.Groups.Create(types.RuleGroup{
		Name:          "test group",
		ExecutionMode: mode,
		RuleIds:       ruleIds,
	})
	assert.Nil(t, err)
	return group
}

func TestExecuteGroupModes(t *testing.T) {
	t.Run("AllRunsEveryRule", func(t *testing.T) {
		e := newTestEngine(t,
			setFieldRule("r1", "a", 1, ""),
			setFieldRule("r2", "b", 2, ""),
		)
		group := createGroup(t, e, types.ExecutionModeAll, "r1", "r2")
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{})
		outcomes, err := e.ExecuteGroup(context.Background(), group.Id, ectx)
		assert.Nil(t, err)
		assert.Equal(t, 2, len(outcomes))
		assert.Equal(t, 1, ectx.Entity["a"])
		assert.Equal(t, 2, ectx.Entity["b"])
	})

	t.Run("FirstMatchStopsAtFirstMatchedRule", func(t *testing.T) {
		e := newTestEngine(t,
			setFieldRule("r1", "a", 1, "total > 100"),
			setFieldRule("r2", "b", 2, ""),
			setFieldRule("r3", "c", 3, ""),
		)
		group := createGroup(t, e, types.ExecutionModeFirstMatch, "r1", "r2", "r3")
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"total": 50.0,
		})
		outcomes, err := e.ExecuteGroup(context.Background(), group.Id, ectx)
		assert.Nil(t, err)
		// r1 was all-skipped, r2 matched, r3 never ran
		assert.Equal(t, 2, len(outcomes))
		assert.False(t, outcomes[0].Matched())
		assert.True(t, outcomes[1].Matched())
		_, ran := ectx.Entity["c"]
		assert.False(t, ran)
	})

	t.Run("AnySkipsFailedRules", func(t *testing.T) {
		e := newTestEngine(t,
			failingRule("r1"),
			setFieldRule("r2", "b", 2, ""),
			setFieldRule("r3", "c", 3, ""),
		)
		group := createGroup(t, e, types.ExecutionModeAny, "r1", "r2", "r3")
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{})
		outcomes, err := e.ExecuteGroup(context.Background(), group.Id, ectx)
		assert.Nil(t, err)
		// r1 failed, r2 succeeded and stopped the run
		assert.Equal(t, 2, len(outcomes))
		assert.False(t, outcomes[0].Succeeded())
		assert.True(t, outcomes[1].Succeeded())
		_, ran := ectx.Entity["c"]
		assert.False(t, ran)
	})
}

func TestExecuteGroupErrors(t *testing.T) {
	t.Run("UnknownGroup", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.ExecuteGroup(context.Background(), "nope", types.NewExecutionContext("ORDER", "ord-1", nil))
		var notFound *types.NotFoundError
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, types.KindRuleGroup, notFound.Kind)
	})

	t.Run("MemberRuleVanished", func(t *testing.T) {
		ruleStore := NewMemoryRuleStore()
		ruleStore.PutRule(setFieldRule("r1", "a", 1, ""))
		e := New(ruleStore)
		group := createGroup(t, e, types.ExecutionModeAll, "r1")
		// the rule disappears between group creation and execution
		ruleStore.DeleteRule("r1")
		_, err := e.ExecuteGroup(context.Background(), group.Id, types.NewExecutionContext("ORDER", "ord-1", nil))
		var notFound *types.NotFoundError
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, types.KindRule, notFound.Kind)
	})
}

func TestExecuteRuleRecordsMetrics(t *testing.T) {
	e := newTestEngine(t, setFieldRule("r1", "a", 1, ""), failingRule("r2"))
	ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{})

	outcome, err := e.ExecuteRule(context.Background(), "r1", ectx)
	assert.Nil(t, err)
	assert.True(t, outcome.Succeeded())

	_, err = e.ExecuteRule(context.Background(), "r2", ectx)
	assert.Nil(t, err)

	assert.Equal(t, int64(1), e.Metrics.GetRuleStatistics("r1").ExecutionCount)
	assert.Equal(t, int64(0), e.Metrics.GetRuleStatistics("r1").ErrorCount)
	assert.Equal(t, int64(1), e.Metrics.GetRuleStatistics("r2").ErrorCount)
	snapshot := e.Metrics.GetEngineMetrics()
	assert.Equal(t, int64(2), snapshot.TotalExecutions)
	assert.Equal(t, int64(1), snapshot.ExecutionsByCategory["test"])
	assert.Equal(t, 1, len(snapshot.RecentErrors))

	_, err = e.ExecuteRule(context.Background(), "nope", ectx)
	var notFound *types.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
