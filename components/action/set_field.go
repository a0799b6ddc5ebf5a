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
	"errors"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/maps"
)

func init() {
	Registry.Add(&SetFieldHandler{})
}

// SetFieldHandler writes a resolved value to a dot-path field of the entity.
// Later actions in the same batch observe the mutation.
type SetFieldHandler struct {
	baseHandler
}

func (x *SetFieldHandler) Type() string {
	return TypeSetField
}

func (x *SetFieldHandler) New() types.ActionHandler {
	return &SetFieldHandler{}
}

func (x *SetFieldHandler) RequiredParameters() []string {
	return []string{"field", "value"}
}

// Execute returns the field path with its old and new value.
func (x *SetFieldHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	field := paramString(params, "field")
	if field == "" {
		return nil, errors.New("field can not be empty")
	}
	oldValue, _ := maps.GetValue(ectx.Entity, field)
	newValue := params["value"]
	maps.SetValue(ectx.Entity, field, newValue)
	return map[string]interface{}{
		"field":    field,
		"oldValue": oldValue,
		"newValue": newValue,
	}, nil
}
