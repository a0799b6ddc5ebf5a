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

func TestRegistryHoldsBuiltins(t *testing.T) {
	byType := make(map[string]bool)
	for _, handler := range Registry.Handlers() {
		byType[handler.Type()] = true
	}
	for _, actionType := range []string{
		TypeSetField, TypeSendNotification, TypeSendEmail, TypeTriggerWorkflow,
		TypeCallApi, TypeExecuteScript, TypeCalculate, TypeApprove, TypeReject,
		TypeEscalate, TypeLogEvent, TypeUpdateDatabase,
	} {
		assert.True(t, byType[actionType], actionType)
	}
}

func TestLogEventHandler(t *testing.T) {
	handler := initHandler(t, &LogEventHandler{})
	ectx := types.NewExecutionContext("ORDER", "ord-1", nil)

	out, err := handler.Execute(context.Background(), types.Configuration{
		"message": "order received",
		"level":   "warn",
	}, ectx)
	assert.Nil(t, err)
	envelope := out.(map[string]interface{})
	assert.Equal(t, "WARN", envelope["level"])
	assert.True(t, strings.HasPrefix(envelope["eventId"].(string), "evt_"))

	out, err = handler.Execute(context.Background(), types.Configuration{
		"message": "no level given",
	}, ectx)
	assert.Nil(t, err)
	assert.Equal(t, "INFO", out.(map[string]interface{})["level"])
}

func TestTriggerWorkflowHandler(t *testing.T) {
	handler := initHandler(t, &TriggerWorkflowHandler{})
	out, err := handler.Execute(context.Background(), types.Configuration{
		"workflowId": "invoice-approval",
		"input":      map[string]interface{}{"amount": 1200.0},
	}, types.NewExecutionContext("INVOICE", "inv-9", nil))
	assert.Nil(t, err)
	envelope := out.(map[string]interface{})
	assert.Equal(t, "invoice-approval", envelope["workflowId"])
	assert.True(t, strings.HasPrefix(envelope["workflowInstanceId"].(string), "wf_"))
	assert.Equal(t, map[string]interface{}{"amount": 1200.0}, envelope["input"])
}

func TestSendEmailHandlerSimulated(t *testing.T) {
	// no smtp.server property, delivery is simulated
	handler := initHandler(t, &SendEmailHandler{})
	out, err := handler.Execute(context.Background(), types.Configuration{
		"to":      "ops@example.com",
		"subject": "stock low",
		"message": "reorder item 42",
	}, types.NewExecutionContext("ITEM", "item-42", nil))
	assert.Nil(t, err)
	envelope := out.(map[string]interface{})
	assert.Equal(t, "ops@example.com", envelope["to"])
	assert.True(t, strings.HasPrefix(envelope["emailId"].(string), "eml_"))
}

func TestSendNotificationHandlerSimulated(t *testing.T) {
	// no mqtt.server property, delivery is simulated
	handler := initHandler(t, &SendNotificationHandler{})
	defer handler.Destroy()
	out, err := handler.Execute(context.Background(), types.Configuration{
		"recipient": "ops",
		"subject":   "stock low",
		"message":   "reorder item 42",
	}, types.NewExecutionContext("ITEM", "item-42", nil))
	assert.Nil(t, err)
	envelope := out.(map[string]interface{})
	assert.Equal(t, "ops", envelope["recipient"])
	assert.True(t, strings.HasPrefix(envelope["notificationId"].(string), "ntf_"))
	_, published := envelope["topic"]
	assert.False(t, published)
}

func TestUpdateDatabaseHandler(t *testing.T) {
	handler := initHandler(t, &UpdateDatabaseHandler{})
	defer handler.Destroy()
	ectx := types.NewExecutionContext("ORDER", "ord-1", nil)

	t.Run("SimulatedWithoutDsn", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), types.Configuration{
			"sql": "UPDATE orders SET status = 'SHIPPED' WHERE id = 1",
		}, ectx)
		assert.Nil(t, err)
		envelope := out.(map[string]interface{})
		assert.Equal(t, true, envelope["simulated"])
		assert.Equal(t, int64(0), envelope["rowsAffected"])
	})

	t.Run("SelectRejected", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), types.Configuration{
			"sql": "SELECT * FROM orders",
		}, ectx)
		assert.NotNil(t, err)
	})

	t.Run("EmptyStatementRejected", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), types.Configuration{
			"sql": "  ",
		}, ectx)
		assert.NotNil(t, err)
	})
}
