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

package ruleact

import (
	"context"
	"testing"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/components/action"
	"github.com/ruleact/ruleact/engine"
	"github.com/ruleact/ruleact/test/assert"
)

func TestEnginePool(t *testing.T) {
	defer Stop()

	ruleStore := engine.NewMemoryRuleStore()
	ruleStore.PutRule(types.Rule{
		Id:       "discount",
		Name:     "gold tier discount",
		Category: "sales",
		Actions: []types.RuleAction{
			{
				Id:        "a1",
				Type:      action.TypeCalculate,
				Condition: `customer.tier == "gold"`,
				Parameters: types.Configuration{
					"expression":  "total * 0.9",
					"precision":   2,
					"targetField": "discounted",
				},
			},
		},
	})

	ruleEngine := New("erp", ruleStore)
	// the same id returns the same instance
	again, ok := Get("erp")
	assert.True(t, ok)
	assert.True(t, ruleEngine == again)

	group, err := ruleEngine.Groups.Create(types.RuleGroup{
		Name:          "order intake",
		ExecutionMode: types.ExecutionModeAll,
		RuleIds:       []string{"discount"},
	})
	assert.Nil(t, err)

	ectx := types.NewExecutionContext("ORDER", "ord-42", map[string]interface{}{
		"total":    100.0,
		"customer": map[string]interface{}{"tier": "gold"},
	})
	outcomes, err := ruleEngine.ExecuteGroup(context.Background(), group.Id, ectx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcomes))
	assert.True(t, outcomes[0].Matched())
	assert.True(t, outcomes[0].Succeeded())
	assert.Equal(t, 90.0, ectx.Entity["discounted"])

	assert.Equal(t, int64(1), ruleEngine.Metrics.GetRuleStatistics("discount").ExecutionCount)

	Del("erp")
	_, ok = Get("erp")
	assert.False(t, ok)
}
