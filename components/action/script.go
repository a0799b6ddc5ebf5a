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
	"fmt"
	"time"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/components/js"
)

func init() {
	Registry.Add(&ExecuteScriptHandler{})
}

// ExecuteScriptHandler runs untrusted script text in an isolated goja
// sandbox. The binding set exposes only context-derived fields, the script
// reaches no file, network or process primitive. The value of the script's
// final expression becomes the action result, script exceptions surface as
// action failures.
type ExecuteScriptHandler struct {
	baseHandler
	engine *js.GojaEngine
}

func (x *ExecuteScriptHandler) Type() string {
	return TypeExecuteScript
}

func (x *ExecuteScriptHandler) New() types.ActionHandler {
	return &ExecuteScriptHandler{}
}

func (x *ExecuteScriptHandler) RequiredParameters() []string {
	return []string{"script"}
}

func (x *ExecuteScriptHandler) Init(config types.Config) error {
	x.config = config
	x.engine = js.NewGojaEngine(config.ScriptMaxExecutionTime)
	return nil
}

func (x *ExecuteScriptHandler) Execute(ctx context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	script := paramString(params, "script")

	vars := map[string]interface{}{
		types.EntityIdKey:      ectx.EntityId,
		types.EntityTypeKey:    ectx.EntityType,
		types.UserIdKey:        ectx.UserId,
		types.CorrelationIdKey: ectx.CorrelationId,
		types.TimestampKey:     ectx.Timestamp.UnixMilli(),
		types.EntityKey:        ectx.Entity,
	}

	// the shorter of the action deadline and the script bound wins
	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	out, err := x.engine.Execute(script, vars, timeout)
	if err != nil {
		return nil, fmt.Errorf("script execution error: %w", err)
	}
	return out, nil
}
