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

func TestCalculateHandler(t *testing.T) {
	handler := initHandler(t, &CalculateHandler{})
	defer handler.Destroy()

	t.Run("EntityVariables", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"price":    10.0,
			"quantity": 3.0,
		})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"expression": "price * quantity",
		}, ectx)
		assert.Nil(t, err)
		assert.Equal(t, 30.0, out.(map[string]interface{})["result"])
	})

	t.Run("ExplicitVariablesWin", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"rate": 0.5,
		})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"expression": "100 * rate",
			"variables":  map[string]interface{}{"rate": 0.2},
		}, ectx)
		assert.Nil(t, err)
		assert.Equal(t, 20.0, out.(map[string]interface{})["result"])
	})

	t.Run("PrecisionAndTargetField", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"total": 99.0,
		})
		out, err := handler.Execute(context.Background(), types.Configuration{
			"expression":  "total / 7",
			"precision":   2,
			"targetField": "perDay",
		}, ectx)
		assert.Nil(t, err)
		assert.Equal(t, 14.14, out.(map[string]interface{})["result"])
		assert.Equal(t, 14.14, ectx.Entity["perDay"])
	})

	t.Run("InjectionStripped", func(t *testing.T) {
		// everything outside arithmetic is removed before evaluation
		_, err := handler.Execute(context.Background(), types.Configuration{
			"expression": "os.exit(1)",
		}, types.NewExecutionContext("ORDER", "ord-1", nil))
		assert.NotNil(t, err)
	})

	t.Run("EmptyAfterSanitizing", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), types.Configuration{
			"expression": "abc",
		}, types.NewExecutionContext("ORDER", "ord-1", nil))
		assert.NotNil(t, err)
	})
}
