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
	"time"

	"github.com/ruleact/ruleact/api/types"
)

func init() {
	Registry.Add(&TriggerWorkflowHandler{})
}

// TriggerWorkflowHandler starts a workflow with resolved input and emits a
// generated instance id. The workflow engine itself is an external
// collaborator, the handler produces the trigger envelope.
type TriggerWorkflowHandler struct {
	baseHandler
}

func (x *TriggerWorkflowHandler) Type() string {
	return TypeTriggerWorkflow
}

func (x *TriggerWorkflowHandler) New() types.ActionHandler {
	return &TriggerWorkflowHandler{}
}

func (x *TriggerWorkflowHandler) RequiredParameters() []string {
	return []string{"workflowId"}
}

func (x *TriggerWorkflowHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	workflowId := paramString(params, "workflowId")
	instanceId := newId("wf")
	x.logger().Printf("workflow triggered. workflowId=%s instanceId=%s entityId=%s",
		workflowId, instanceId, ectx.EntityId)
	return map[string]interface{}{
		"workflowInstanceId": instanceId,
		"workflowId":         workflowId,
		"input":              params["input"],
		"startedAt":          time.Now(),
	}, nil
}
