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

// Package action provides the built-in action handlers of the rule action
// engine: field mutation, notifications, workflow triggers, external calls,
// sandboxed scripts, restricted arithmetic and decision envelopes.
//
// Each handler registers itself with the package Registry and is picked up
// by the engine's default handler registry. Handlers receive their
// parameters already template-resolved, `{{path}}` placeholders are
// substituted against the execution context before dispatch.
package action

import (
	"github.com/ruleact/ruleact/api/types"
)

// Registry collects the built-in handlers of this package.
var Registry = new(types.SafeHandlerSlice)

// Built-in action types.
const (
	TypeSetField         = "SET_FIELD"
	TypeSendNotification = "SEND_NOTIFICATION"
	TypeSendEmail        = "SEND_EMAIL"
	TypeTriggerWorkflow  = "TRIGGER_WORKFLOW"
	TypeCallApi          = "CALL_API"
	TypeExecuteScript    = "EXECUTE_SCRIPT"
	TypeCalculate        = "CALCULATE"
	TypeApprove          = "APPROVE"
	TypeReject           = "REJECT"
	TypeEscalate         = "ESCALATE"
	TypeLogEvent         = "LOG_EVENT"
	TypeUpdateDatabase   = "UPDATE_DATABASE"
)
