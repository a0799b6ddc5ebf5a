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
	"strings"
	"time"
)

// Not-found kinds.
const (
	KindRuleGroup = "rule group"
	KindRule      = "rule"
)

// NotFoundError reports an absent group or rule.
type NotFoundError struct {
	Kind string
	Id   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found. id=" + e.Id
}

// NewGroupNotFound creates a NotFoundError for a rule group id.
func NewGroupNotFound(id string) *NotFoundError {
	return &NotFoundError{Kind: KindRuleGroup, Id: id}
}

// NewRuleNotFound creates a NotFoundError for a rule id.
func NewRuleNotFound(id string) *NotFoundError {
	return &NotFoundError{Kind: KindRule, Id: id}
}

// ValidationError carries every violation found in a group definition.
// Mutations failing validation are blocked atomically, no partial state persists.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("rule group validation failed:")
	for _, m := range e.Result.Errors {
		sb.WriteString(" [")
		sb.WriteString(m.Code)
		if m.Field != "" {
			sb.WriteString(" ")
			sb.WriteString(m.Field)
		}
		sb.WriteString("] ")
		sb.WriteString(m.Message)
	}
	return sb.String()
}

// UnknownActionTypeError reports an action type with no registered handler.
type UnknownActionTypeError struct {
	ActionType string
}

func (e *UnknownActionTypeError) Error() string {
	return "action type not registered. actionType=" + e.ActionType
}

// MissingParameterError reports an absent required parameter.
type MissingParameterError struct {
	ActionType string
	Parameter  string
}

func (e *MissingParameterError) Error() string {
	return "required parameter missing. actionType=" + e.ActionType + " parameter=" + e.Parameter
}

// TimeoutError reports a handler that did not settle before its deadline.
type TimeoutError struct {
	ActionType string
	Timeout    time.Duration
}

func (e *TimeoutError) Error() string {
	return "action execution timeout. actionType=" + e.ActionType + " timeout=" + e.Timeout.String()
}

// HandlerError wraps a failure raised inside a handler.
type HandlerError struct {
	ActionType string
	Err        error
}

func (e *HandlerError) Error() string {
	return "action handler error. actionType=" + e.ActionType + " err=" + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
