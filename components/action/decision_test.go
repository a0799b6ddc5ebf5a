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

package action

import (
	"context"
	"strings"
	"testing"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/test/assert"
)

func TestDecisionHandlers(t *testing.T) {
	ectx := types.NewExecutionContext("INVOICE", "inv-9", nil)
	ectx.UserId = "controller-1"

	t.Run("Approve", func(t *testing.T) {
		handler := initHandler(t, &ApproveHandler{})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"comment": "within budget",
		}, ectx)
		assert.Nil(t, err)
		envelope := out.(map[string]interface{})
		assert.Equal(t, "APPROVED", envelope["status"])
		assert.Equal(t, "within budget", envelope["comment"])
		assert.Equal(t, "controller-1", envelope["decidedBy"])
		assert.Equal(t, "inv-9", envelope["entityId"])
		assert.True(t, strings.HasPrefix(envelope["decisionId"].(string), "apr_"))
	})

	t.Run("Reject", func(t *testing.T) {
		handler := initHandler(t, &RejectHandler{})
		out, err := handler.Execute(context.Background(), types.Configuration{}, ectx)
		assert.Nil(t, err)
		envelope := out.(map[string]interface{})
		assert.Equal(t, "REJECTED", envelope["status"])
		assert.True(t, strings.HasPrefix(envelope["decisionId"].(string), "rej_"))
	})

	t.Run("Escalate", func(t *testing.T) {
		handler := initHandler(t, &EscalateHandler{})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"assignee": "cfo",
			"reason":   "amount above threshold",
		}, ectx)
		assert.Nil(t, err)
		envelope := out.(map[string]interface{})
		assert.Equal(t, "ESCALATED", envelope["status"])
		assert.Equal(t, "cfo", envelope["assignee"])
		assert.Equal(t, "amount above threshold", envelope["reason"])
	})
}
