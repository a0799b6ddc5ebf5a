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
	"time"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/test/assert"
)

func TestExecuteScriptHandler(t *testing.T) {
	handler := initHandler(t, &ExecuteScriptHandler{})
	defer handler.Destroy()

	t.Run("ContextBindings", func(t *testing.T) {
		ectx := types.NewExecutionContext("ORDER", "ord-1", map[string]interface{}{
			"total": 100.0,
		})
		ectx.UserId = "u7"
		out, err := handler.Execute(context.Background(), types.Configuration{
			"script": "entityId + ':' + entityType + ':' + userId + ':' + entity.total",
		}, ectx)
		assert.Nil(t, err)
		assert.Equal(t, "ord-1:ORDER:u7:100", out)
	})

	t.Run("ScriptErrorFailsAction", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), types.Configuration{
			"script": "undefinedFn()",
		}, types.NewExecutionContext("ORDER", "ord-1", nil))
		assert.NotNil(t, err)
	})

	t.Run("ActionDeadlineBoundsScript", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
		defer cancel()
		start := time.Now()
		_, err := handler.Execute(ctx, types.Configuration{
			"script": "while (true) {}",
		}, types.NewExecutionContext("ORDER", "ord-1", nil))
		assert.NotNil(t, err)
		assert.True(t, time.Since(start) < time.Second*2)
	})
}
