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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/maps"
	"github.com/ruleact/ruleact/utils/str"
)

func init() {
	Registry.Add(&CalculateHandler{})
}

// arithmetic characters allowed after variable substitution
const arithmeticChars = "0123456789+-*/(). "

// CalculateHandler evaluates a restricted arithmetic expression against
// resolved variables merged with entity fields. Variable names are
// substituted by value first, every character outside digits and `+-*/(). `
// is stripped before evaluation. An optional precision rounds the result, an
// optional targetField writes it back into the entity.
type CalculateHandler struct {
	baseHandler
}

func (x *CalculateHandler) Type() string {
	return TypeCalculate
}

func (x *CalculateHandler) New() types.ActionHandler {
	return &CalculateHandler{}
}

func (x *CalculateHandler) RequiredParameters() []string {
	return []string{"expression"}
}

func (x *CalculateHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	expression := paramString(params, "expression")

	substituted := substituteVariables(expression, variableEnv(params, ectx))
	sanitized := sanitizeExpression(substituted)
	if strings.TrimSpace(sanitized) == "" {
		return nil, errors.New("expression is empty after sanitizing. expression=" + expression)
	}

	program, err := expr.Compile(sanitized)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return nil, err
	}
	result, ok := str.ToFloat64(out)
	if !ok {
		return nil, errors.New("expression did not evaluate to a number. expression=" + sanitized)
	}

	if precision, ok := str.ToFloat64(params["precision"]); ok && precision >= 0 {
		factor := math.Pow(10, precision)
		result = math.Round(result*factor) / factor
	}

	envelope := map[string]interface{}{
		"expression": expression,
		"result":     result,
	}
	if targetField := paramString(params, "targetField"); targetField != "" {
		maps.SetValue(ectx.Entity, targetField, result)
		envelope["targetField"] = targetField
	}
	return envelope, nil
}

// variableEnv merges entity fields with the `variables` parameter, explicit
// variables win.
func variableEnv(params types.Configuration, ectx *types.ExecutionContext) map[string]interface{} {
	env := make(map[string]interface{}, len(ectx.Entity))
	for k, v := range ectx.Entity {
		env[k] = v
	}
	if variables, ok := params["variables"].(map[string]interface{}); ok {
		for k, v := range variables {
			env[k] = v
		}
	}
	return env
}

// substituteVariables replaces numeric variable names by value, longest name
// first so a name never clobbers a longer one containing it.
func substituteVariables(expression string, env map[string]interface{}) string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	for _, name := range names {
		value, ok := str.ToFloat64(env[name])
		if !ok {
			continue
		}
		expression = strings.ReplaceAll(expression, name, strconv.FormatFloat(value, 'f', -1, 64))
	}
	return expression
}

// sanitizeExpression strips every character outside the arithmetic set.
func sanitizeExpression(expression string) string {
	var sb strings.Builder
	for _, r := range expression {
		if strings.ContainsRune(arithmeticChars, r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
