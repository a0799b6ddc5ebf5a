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
	"testing"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/test/assert"
)

// initHandler creates and initializes a fresh instance of the handler.
func initHandler(t *testing.T, prototype types.ActionHandler, opts ...types.Option) types.ActionHandler {
	t.Helper()
	handler := prototype.New()
	assert.Nil(t, handler.Init(types.NewConfig(opts...)))
	return handler
}

func TestSetFieldHandler(t *testing.T) {
	handler := initHandler(t, &SetFieldHandler{})
	defer handler.Destroy()

	t.Run("TopLevelField", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"status": "OPEN",
		})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"field": "status",
			"value": "CLOSED",
		}, ectx)
		assert.Nil(t, err)
		envelope := out.(map[string]interface{})
		assert.Equal(t, "status", envelope["field"])
		assert.Equal(t, "OPEN", envelope["oldValue"])
		assert.Equal(t, "CLOSED", envelope["newValue"])
		assert.Equal(t, "CLOSED", ectx.Entity["status"])
	})

	t.Run("NestedPathCreatesIntermediates", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{})
		_, err := handler.Execute(context.Background(), types.Configuration{
			"field": "shipping.address.city",
			"value": "Lyon",
		}, ectx)
		assert.Nil(t, err)
		shipping := ectx.Entity["shipping"].(map[string]interface{})
		address := shipping["address"].(map[string]interface{})
		assert.Equal(t, "Lyon", address["city"])
	})

	t.Run("EmptyFieldRejected", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), types.Configuration{
			"field": "",
			"value": 1,
		}, types.NewExecutionContext("ORDER", "ord-1", nil))
		assert.NotNil(t, err)
	})
}
