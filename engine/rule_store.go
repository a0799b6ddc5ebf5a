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

package engine

import (
	"sync"

	"github.com/ruleact/ruleact/api/types"
)

// MemoryRuleStore is an in-memory rule catalog keyed by rule id.
type MemoryRuleStore struct {
	sync.RWMutex
	rules map[string]*types.Rule
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{rules: make(map[string]*types.Rule)}
}

func (s *MemoryRuleStore) GetRule(id string) (*types.Rule, bool) {
	s.RLock()
	defer s.RUnlock()
	rule, ok := s.rules[id]
	return rule, ok
}

func (s *MemoryRuleStore) PutRule(rule types.Rule) {
	s.Lock()
	defer s.Unlock()
	s.rules[rule.Id] = &rule
}

func (s *MemoryRuleStore) DeleteRule(id string) bool {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	delete(s.rules, id)
	return true
}
