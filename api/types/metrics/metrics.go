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

// Package metrics holds the statistics records of the rule action engine:
// per-rule and per-action-type execution statistics, the engine-wide atomic
// counters and the aggregate snapshot returned to observability sinks.
package metrics

import (
	"sync/atomic"
	"time"
)

// RuleStatistics holds the live execution statistics of one rule.
// Records are created lazily on first execution and mutated thereafter.
type RuleStatistics struct {
	RuleId         string
	ExecutionCount int64
	MatchCount     int64
	ErrorCount     int64
	// SuccessRate is (ExecutionCount-ErrorCount)/ExecutionCount, 1.0 cold
	SuccessRate float64
	// AverageExecutionTime is a running mean in milliseconds
	AverageExecutionTime float64
	LastExecuted         time.Time
}

// NewRuleStatistics creates the cold-start record for a rule id.
// A never-executed rule reports zero counters and a success rate of 1.0.
func NewRuleStatistics(ruleId string) *RuleStatistics {
	return &RuleStatistics{RuleId: ruleId, SuccessRate: 1.0}
}

// Record applies one execution to the statistics. The mean is updated
// incrementally, avg' = (avg*(n-1)+x)/n, never recomputed from history.
func (s *RuleStatistics) Record(elapsed time.Duration, matched bool, success bool) {
	s.ExecutionCount++
	if matched {
		s.MatchCount++
	}
	if !success {
		s.ErrorCount++
	}
	n := float64(s.ExecutionCount)
	x := float64(elapsed.Microseconds()) / 1000.0
	s.AverageExecutionTime = (s.AverageExecutionTime*(n-1) + x) / n
	s.SuccessRate = float64(s.ExecutionCount-s.ErrorCount) / n
	s.LastExecuted = time.Now()
}

// ActionStatistics holds engine-wide telemetry for one action type.
type ActionStatistics struct {
	ActionType           string
	ExecutionCount       int64
	ErrorCount           int64
	AverageExecutionTime float64
}

// Record applies one handler invocation to the statistics.
func (s *ActionStatistics) Record(elapsed time.Duration, success bool) {
	s.ExecutionCount++
	if !success {
		s.ErrorCount++
	}
	n := float64(s.ExecutionCount)
	x := float64(elapsed.Microseconds()) / 1000.0
	s.AverageExecutionTime = (s.AverageExecutionTime*(n-1) + x) / n
}

// ExecutionError is one entry of the recent-error feed.
type ExecutionError struct {
	RuleId     string
	ActionType string
	Message    string
	Timestamp  time.Time
}

// EngineCounters holds the engine-wide execution counters.
type EngineCounters struct {
	Total   int64 // Total number of rule executions
	Failed  int64 // Number of failed rule executions
	Success int64 // Number of successful rule executions
}

// NewEngineCounters creates a new instance of EngineCounters.
func NewEngineCounters() *EngineCounters {
	return &EngineCounters{}
}

// IncrementTotal increases the total count of executions.
func (m *EngineCounters) IncrementTotal() {
	atomic.AddInt64(&m.Total, 1)
}

// IncrementFailed increases the count of failed executions.
func (m *EngineCounters) IncrementFailed() {
	atomic.AddInt64(&m.Failed, 1)
}

// IncrementSuccess increases the count of successful executions.
func (m *EngineCounters) IncrementSuccess() {
	atomic.AddInt64(&m.Success, 1)
}

// Get returns a copy of the current counters.
func (m *EngineCounters) Get() EngineCounters {
	return EngineCounters{
		Total:   atomic.LoadInt64(&m.Total),
		Failed:  atomic.LoadInt64(&m.Failed),
		Success: atomic.LoadInt64(&m.Success),
	}
}

// Reset resets all counters to zero.
func (m *EngineCounters) Reset() {
	atomic.StoreInt64(&m.Total, 0)
	atomic.StoreInt64(&m.Failed, 0)
	atomic.StoreInt64(&m.Success, 0)
}

// EngineMetrics is the aggregate snapshot returned to observability sinks.
// All slices and maps are copies owned by the caller.
type EngineMetrics struct {
	TotalExecutions int64
	// TotalRules distinct rule ids seen since the last reset
	TotalRules int
	// ActiveRules rules executed within the past hour
	ActiveRules int
	// AverageExecutionTime running mean over all rule executions, milliseconds
	AverageExecutionTime float64
	// ErrorRate failed/total, 0 when nothing has executed
	ErrorRate    float64
	PopularRules []RuleStatistics
	RecentErrors []ExecutionError
	// ExecutionsByCategory rule executions keyed by rule category
	ExecutionsByCategory map[string]int64
	// ExecutionsByHour rule executions keyed by hour of day, 0-23
	ExecutionsByHour map[int]int64
}
