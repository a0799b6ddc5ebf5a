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
	Registry.Add(&ApproveHandler{}, &RejectHandler{}, &EscalateHandler{})
}

func decisionEnvelope(idPrefix, status string, params types.Configuration, ectx *types.ExecutionContext) map[string]interface{} {
	return map[string]interface{}{
		"decisionId": newId(idPrefix),
		"status":     status,
		"comment":    paramString(params, "comment"),
		"decidedBy":  ectx.UserId,
		"entityId":   ectx.EntityId,
		"timestamp":  time.Now(),
	}
}

// ApproveHandler records an approval decision for the entity and returns the
// decision envelope with a generated id.
type ApproveHandler struct {
	baseHandler
}

func (x *ApproveHandler) Type() string {
	return TypeApprove
}

func (x *ApproveHandler) New() types.ActionHandler {
	return &ApproveHandler{}
}

func (x *ApproveHandler) RequiredParameters() []string {
	return nil
}

func (x *ApproveHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	envelope := decisionEnvelope("apr", "APPROVED", params, ectx)
	x.logger().Printf("entity approved. entityId=%s decisionId=%s", ectx.EntityId, envelope["decisionId"])
	return envelope, nil
}

// RejectHandler records a rejection decision, mirrors ApproveHandler.
type RejectHandler struct {
	baseHandler
}

func (x *RejectHandler) Type() string {
	return TypeReject
}

func (x *RejectHandler) New() types.ActionHandler {
	return &RejectHandler{}
}

func (x *RejectHandler) RequiredParameters() []string {
	return nil
}

func (x *RejectHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	envelope := decisionEnvelope("rej", "REJECTED", params, ectx)
	x.logger().Printf("entity rejected. entityId=%s decisionId=%s", ectx.EntityId, envelope["decisionId"])
	return envelope, nil
}

// EscalateHandler routes the entity to an assignee with a resolved reason.
type EscalateHandler struct {
	baseHandler
}

func (x *EscalateHandler) Type() string {
	return TypeEscalate
}

func (x *EscalateHandler) New() types.ActionHandler {
	return &EscalateHandler{}
}

func (x *EscalateHandler) RequiredParameters() []string {
	return []string{"assignee"}
}

func (x *EscalateHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	envelope := decisionEnvelope("esc", "ESCALATED", params, ectx)
	envelope["assignee"] = paramString(params, "assignee")
	envelope["reason"] = paramString(params, "reason")
	x.logger().Printf("entity escalated. entityId=%s assignee=%s", ectx.EntityId, envelope["assignee"])
	return envelope, nil
}
