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

package str

import (
	"testing"

	"github.com/ruleact/ruleact/test/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "42.5", ToString(42.5))
	assert.Equal(t, "42", ToString(int64(42)))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, `{"a":1}`, ToString(map[string]interface{}{"a": 1}))
}

func TestToFloat64(t *testing.T) {
	v, ok := ToFloat64(42)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	v, ok = ToFloat64("3.14")
	assert.True(t, ok)
	assert.Equal(t, 3.14, v)

	_, ok = ToFloat64("abc")
	assert.False(t, ok)

	_, ok = ToFloat64(nil)
	assert.False(t, ok)
}
