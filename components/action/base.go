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
	"github.com/gofrs/uuid/v5"
	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/str"
)

// baseHandler carries the engine configuration into handlers.
type baseHandler struct {
	config types.Config
}

// Init stores the configuration. Handlers needing clients override this.
func (b *baseHandler) Init(config types.Config) error {
	b.config = config
	return nil
}

// Destroy releases nothing by default.
func (b *baseHandler) Destroy() {
}

func (b *baseHandler) logger() types.Logger {
	return types.NewLogger(b.config.Logger)
}

// newId generates a prefixed identifier, e.g. ntf_5f3a....
func newId(prefix string) string {
	id, _ := uuid.NewV4()
	return prefix + "_" + id.String()
}

// paramString renders the named parameter as a string, empty when absent.
func paramString(params types.Configuration, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	return str.ToString(v)
}
