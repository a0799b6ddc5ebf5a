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
	"time"

	"github.com/ruleact/ruleact/api/types"
)

func init() {
	Registry.Add(&LogEventHandler{})
}

// LogEventHandler writes a resolved message through the engine logger and
// returns a generated event id.
type LogEventHandler struct {
	baseHandler
}

func (x *LogEventHandler) Type() string {
	return TypeLogEvent
}

func (x *LogEventHandler) New() types.ActionHandler {
	return &LogEventHandler{}
}

func (x *LogEventHandler) RequiredParameters() []string {
	return []string{"message"}
}

func (x *LogEventHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	level := strings.ToUpper(paramString(params, "level"))
	if level == "" {
		level = "INFO"
	}
	eventId := newId("evt")
	x.logger().Printf("[%s] %s entityType=%s entityId=%s correlationId=%s",
		level, paramString(params, "message"), ectx.EntityType, ectx.EntityId, ectx.CorrelationId)
	return map[string]interface{}{
		"eventId":   eventId,
		"level":     level,
		"timestamp": time.Now(),
	}, nil
}
