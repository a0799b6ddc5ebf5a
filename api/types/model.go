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

package types

import (
	"time"
)

// Configuration holds named action parameters or component configuration.
type Configuration map[string]interface{}

// Copy returns a shallow copy of the configuration.
func (c Configuration) Copy() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ExecutionMode is a rule group's declared combination policy.
type ExecutionMode string

const (
	// ExecutionModeAll runs the actions of every rule in the group.
	ExecutionModeAll ExecutionMode = "ALL"
	// ExecutionModeAny stops after the first rule whose non-skipped actions all succeeded.
	ExecutionModeAny ExecutionMode = "ANY"
	// ExecutionModeFirstMatch stops after the first rule with at least one non-skipped action.
	ExecutionModeFirstMatch ExecutionMode = "FIRST_MATCH"
)

// IsValid reports whether the mode is one of the defined modes.
func (m ExecutionMode) IsValid() bool {
	switch m {
	case ExecutionModeAll, ExecutionModeAny, ExecutionModeFirstMatch:
		return true
	default:
		return false
	}
}

// ExecutionModes lists the defined combination policies.
func ExecutionModes() []ExecutionMode {
	return []ExecutionMode{ExecutionModeAll, ExecutionModeAny, ExecutionModeFirstMatch}
}

// RuleGroup aggregates rule ids under a name and an execution mode.
// Membership is unique, duplicates are rejected by validation.
type RuleGroup struct {
	// Id group id, assigned on create
	Id string
	// Name display name, required
	Name string
	// ExecutionMode combination policy, required
	ExecutionMode ExecutionMode
	// RuleIds member rule ids, each must resolve in the RuleStore
	RuleIds []string
}

// Copy returns a copy with its own RuleIds slice.
func (g RuleGroup) Copy() RuleGroup {
	out := g
	if g.RuleIds != nil {
		out.RuleIds = make([]string, len(g.RuleIds))
		copy(out.RuleIds, g.RuleIds)
	}
	return out
}

// RuleGroupPatch is a partial update applied to a stored group.
// Nil fields keep the stored value. The merged result is re-validated in full.
type RuleGroupPatch struct {
	Name          *string
	ExecutionMode *ExecutionMode
	RuleIds       []string
}

// RuleAction is a declarative effect: a handler type, named parameters,
// an execution priority and an optional guard condition.
type RuleAction struct {
	// Id action id
	Id string
	// Type selects the registered handler
	Type string
	// Parameters named values, may include `timeout` in milliseconds
	Parameters Configuration
	// Order ascending execution priority within a batch
	Order int
	// Condition optional boolean expression, evaluated against the execution
	// context before dispatch. Falsy or erroring conditions skip the action.
	Condition string
}

// Rule is a named unit whose actions a group aggregates.
// The engine only requires id resolution plus the action list.
type Rule struct {
	Id       string
	Name     string
	Category string
	Actions  []RuleAction
}

// ExecutionContext is the per-invocation bundle of identifying fields plus the
// mutable domain entity that actions read and write.
type ExecutionContext struct {
	EntityId      string
	EntityType    string
	UserId        string
	CorrelationId string
	Timestamp     time.Time
	// Entity the mutable domain payload
	Entity map[string]interface{}
}

// NewExecutionContext creates a context for the given entity with the
// timestamp set to now. A nil entity map is replaced with an empty one.
func NewExecutionContext(entityType, entityId string, entity map[string]interface{}) *ExecutionContext {
	if entity == nil {
		entity = make(map[string]interface{})
	}
	return &ExecutionContext{
		EntityId:   entityId,
		EntityType: entityType,
		Timestamp:  time.Now(),
		Entity:     entity,
	}
}

// Vars returns the evaluation environment: entity fields merged with the
// identifying context fields. Entity fields win no conflicts, the identifying
// keys overwrite same-named entity fields.
func (c *ExecutionContext) Vars() map[string]interface{} {
	evn := make(map[string]interface{}, len(c.Entity)+6)
	for k, v := range c.Entity {
		evn[k] = v
	}
	evn[EntityKey] = c.Entity
	evn[EntityIdKey] = c.EntityId
	evn[EntityTypeKey] = c.EntityType
	evn[UserIdKey] = c.UserId
	evn[CorrelationIdKey] = c.CorrelationId
	evn[TimestampKey] = c.Timestamp
	return evn
}

// Context root names resolvable by templates and conditions.
const (
	EntityIdKey      = "entityId"
	EntityTypeKey    = "entityType"
	UserIdKey        = "userId"
	CorrelationIdKey = "correlationId"
	TimestampKey     = "timestamp"
	EntityKey        = "entity"
)

// TimeoutKey is the reserved parameter carrying the per-action timeout in milliseconds.
const TimeoutKey = "timeout"

// ActionResult is the recorded outcome of one action in a batch.
// A batch always returns one entry per input action, in input order.
type ActionResult struct {
	ActionId   string
	ActionType string
	// Success true when the handler settled without error, or the action was skipped
	Success bool
	// Skipped true when the guard condition evaluated falsy or failed
	Skipped bool
	// Result the handler's return value, nil when skipped or failed
	Result interface{}
	// Error the failure message, empty on success
	Error string
	// ExecutionTime handler wall time, zero when skipped
	ExecutionTime time.Duration
}

// ValidationMessage is one violation or warning found by group validation.
type ValidationMessage struct {
	// Code machine-readable violation code
	Code string
	// Field the offending field or rule id
	Field string
	// Message human-readable description
	Message string
}

// Validation codes.
const (
	CodeMissingName          = "MISSING_NAME"
	CodeInvalidExecutionMode = "INVALID_EXECUTION_MODE"
	CodeRuleNotFound         = "RULE_NOT_FOUND"
	CodeDuplicateRuleIds     = "DUPLICATE_RULE_IDS"
	CodeNameTooLong          = "NAME_TOO_LONG"
	CodeGroupTooLarge        = "GROUP_TOO_LARGE"
)

// ValidationResult aggregates every violation found, never just the first.
// Warnings are non-blocking.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationMessage
	Warnings []ValidationMessage
}
