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

	"github.com/gofrs/uuid/v5"
	"github.com/ruleact/ruleact/api/types"
)

// Validation thresholds. Exceeding them warns, it does not block.
const (
	maxGroupNameLength = 100
	maxGroupSize       = 50
)

// GroupService groups rule ids under a name and execution mode, validates
// group integrity against the rule store and supports membership mutation.
// Validation is separated from mutation so callers can preview consequences
// without side effects, create and update share one source of truth.
type GroupService struct {
	config    types.Config
	ruleStore types.RuleStore
	store     types.GroupStore
	// serializes read-modify-write mutations against the store
	mu sync.Mutex
}

// NewGroupService creates a group service over the rule store. A nil group
// store falls back to the in-memory store.
func NewGroupService(config types.Config, ruleStore types.RuleStore, store types.GroupStore) *GroupService {
	if store == nil {
		store = NewMemoryGroupStore()
	}
	return &GroupService{config: config, ruleStore: ruleStore, store: store}
}

// Create validates the definition, assigns a fresh id, stores and returns the
// group. A failing validation reports all violations found, not just the
// first, and nothing is stored.
func (s *GroupService) Create(data types.RuleGroup) (types.RuleGroup, error) {
	group := data.Copy()
	if result := s.Validate(group); !result.Valid {
		return types.RuleGroup{}, &types.ValidationError{Result: result}
	}
	id, _ := uuid.NewV4()
	group.Id = id.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Put(group)
	return group.Copy(), nil
}

// Update merges the patch into the stored group, preserving the id, and
// re-validates the merged result in full. A patch introducing a duplicate
// fails even if some duplication pre-existed.
func (s *GroupService) Update(id string, patch types.RuleGroupPatch) (types.RuleGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.store.Get(id)
	if !ok {
		return types.RuleGroup{}, types.NewGroupNotFound(id)
	}
	merged := group.Copy()
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.ExecutionMode != nil {
		merged.ExecutionMode = *patch.ExecutionMode
	}
	if patch.RuleIds != nil {
		merged.RuleIds = make([]string, len(patch.RuleIds))
		copy(merged.RuleIds, patch.RuleIds)
	}
	if result := s.Validate(merged); !result.Valid {
		return types.RuleGroup{}, &types.ValidationError{Result: result}
	}
	s.store.Put(merged)
	return merged.Copy(), nil
}

// Delete removes the group.
func (s *GroupService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Delete(id) {
		return types.NewGroupNotFound(id)
	}
	return nil
}

// Get returns a copy of the stored group.
func (s *GroupService) Get(id string) (types.RuleGroup, bool) {
	group, ok := s.store.Get(id)
	if !ok {
		return types.RuleGroup{}, false
	}
	return group.Copy(), true
}

// List returns copies of all stored groups.
func (s *GroupService) List() []types.RuleGroup {
	groups := s.store.List()
	out := make([]types.RuleGroup, len(groups))
	for i, group := range groups {
		out[i] = group.Copy()
	}
	return out
}

// AddRuleToGroup adds a rule id to the group membership. Adding an existing
// id is a no-op, the membership stays unique. The target rule must resolve in
// the rule store.
func (s *GroupService) AddRuleToGroup(groupId, ruleId string) (types.RuleGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.store.Get(groupId)
	if !ok {
		return types.RuleGroup{}, types.NewGroupNotFound(groupId)
	}
	if _, ok = s.ruleStore.GetRule(ruleId); !ok {
		return types.RuleGroup{}, types.NewRuleNotFound(ruleId)
	}
	for _, existing := range group.RuleIds {
		if existing == ruleId {
			return group.Copy(), nil
		}
	}
	group = group.Copy()
	group.RuleIds = append(group.RuleIds, ruleId)
	s.store.Put(group)
	return group.Copy(), nil
}

// RemoveRuleFromGroup removes a rule id from the group membership. Removing
// an absent id is a no-op.
func (s *GroupService) RemoveRuleFromGroup(groupId, ruleId string) (types.RuleGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.store.Get(groupId)
	if !ok {
		return types.RuleGroup{}, types.NewGroupNotFound(groupId)
	}
	kept := make([]string, 0, len(group.RuleIds))
	for _, existing := range group.RuleIds {
		if existing != ruleId {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(group.RuleIds) {
		return group.Copy(), nil
	}
	group = group.Copy()
	group.RuleIds = kept
	s.store.Put(group)
	return group.Copy(), nil
}

// Validate checks a group definition without side effects and aggregates
// every violation found. Warnings are non-blocking.
func (s *GroupService) Validate(group types.RuleGroup) types.ValidationResult {
	var result types.ValidationResult

	if group.Name == "" {
		result.Errors = append(result.Errors, types.ValidationMessage{
			Code:    types.CodeMissingName,
			Field:   "name",
			Message: "group name can not be empty",
		})
	} else if len(group.Name) > maxGroupNameLength {
		result.Warnings = append(result.Warnings, types.ValidationMessage{
			Code:    types.CodeNameTooLong,
			Field:   "name",
			Message: "group name is longer than 100 characters",
		})
	}

	if !group.ExecutionMode.IsValid() {
		result.Errors = append(result.Errors, types.ValidationMessage{
			Code:    types.CodeInvalidExecutionMode,
			Field:   "executionMode",
			Message: "executionMode must be one of ALL, ANY, FIRST_MATCH",
		})
	}

	seen := make(map[string]bool, len(group.RuleIds))
	var duplicates []string
	for _, ruleId := range group.RuleIds {
		if seen[ruleId] {
			duplicates = append(duplicates, ruleId)
			continue
		}
		seen[ruleId] = true
		if _, ok := s.ruleStore.GetRule(ruleId); !ok {
			result.Errors = append(result.Errors, types.ValidationMessage{
				Code:    types.CodeRuleNotFound,
				Field:   ruleId,
				Message: "rule does not exist. ruleId=" + ruleId,
			})
		}
	}
	for _, ruleId := range duplicates {
		result.Errors = append(result.Errors, types.ValidationMessage{
			Code:    types.CodeDuplicateRuleIds,
			Field:   ruleId,
			Message: "duplicate rule id. ruleId=" + ruleId,
		})
	}

	if len(group.RuleIds) > maxGroupSize {
		result.Warnings = append(result.Warnings, types.ValidationMessage{
			Code:    types.CodeGroupTooLarge,
			Field:   "ruleIds",
			Message: "group holds more than 50 rules",
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// MemoryGroupStore is the default in-memory group store. Groups live for the
// process lifetime, there is no implied persistence. Writers race last write
// wins, a multi-instance deployment needs a compare-and-swap capable store.
type MemoryGroupStore struct {
	groups map[string]types.RuleGroup
	sync.RWMutex
}

// NewMemoryGroupStore creates an empty in-memory store.
func NewMemoryGroupStore() *MemoryGroupStore {
	return &MemoryGroupStore{groups: make(map[string]types.RuleGroup)}
}

func (s *MemoryGroupStore) Get(id string) (types.RuleGroup, bool) {
	s.RLock()
	defer s.RUnlock()
	group, ok := s.groups[id]
	return group, ok
}

func (s *MemoryGroupStore) Put(group types.RuleGroup) {
	s.Lock()
	defer s.Unlock()
	s.groups[group.Id] = group
}

func (s *MemoryGroupStore) Delete(id string) bool {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.groups[id]; !ok {
		return false
	}
	delete(s.groups, id)
	return true
}

func (s *MemoryGroupStore) List() []types.RuleGroup {
	s.RLock()
	defer s.RUnlock()
	out := make([]types.RuleGroup, 0, len(s.groups))
	for _, group := range s.groups {
		out = append(out, group)
	}
	return out
}
