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
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/api/types/metrics"
)

const (
	// recentErrorCapacity bounds the recent-error feed
	recentErrorCapacity = 50
	// popularRulesInSnapshot is the popular-rule count of the aggregate snapshot
	popularRulesInSnapshot = 10
	// activeRuleWindow is how recently a rule must have executed to count active
	activeRuleWindow = time.Hour
)

// MetricsService records per-rule and engine-wide execution statistics and
// exposes ranked and health views for operational visibility. All methods are
// safe for concurrent use, per-rule records mutate under a lock and the
// engine totals live on atomic counters.
type MetricsService struct {
	config types.Config

	mu           sync.RWMutex
	rules        map[string]*metrics.RuleStatistics
	actions      map[string]*metrics.ActionStatistics
	recentErrors []metrics.ExecutionError
	byCategory   map[string]int64
	byHour       map[int]int64
	// running mean over all rule executions, milliseconds
	averageExecutionTime float64

	counters metrics.EngineCounters

	cronMu    sync.Mutex
	scheduler *cron.Cron
}

var _ types.MetricsRecorder = (*MetricsService)(nil)

// NewMetricsService creates an empty metrics service.
func NewMetricsService(config types.Config) *MetricsService {
	return &MetricsService{
		config:     config,
		rules:      make(map[string]*metrics.RuleStatistics),
		actions:    make(map[string]*metrics.ActionStatistics),
		byCategory: make(map[string]int64),
		byHour:     make(map[int]int64),
	}
}

// RecordRuleExecution records one run of a rule's action batch. A cold-start
// record is created lazily on first sight.
func (m *MetricsService) RecordRuleExecution(ruleId string, elapsed time.Duration, matched bool, success bool) {
	m.counters.IncrementTotal()
	if success {
		m.counters.IncrementSuccess()
	} else {
		m.counters.IncrementFailed()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.rules[ruleId]
	if !ok {
		record = metrics.NewRuleStatistics(ruleId)
		m.rules[ruleId] = record
	}
	record.Record(elapsed, matched, success)

	total := m.counters.Get().Total
	n := float64(total)
	x := float64(elapsed.Microseconds()) / 1000.0
	m.averageExecutionTime = (m.averageExecutionTime*(n-1) + x) / n
	m.byHour[time.Now().Hour()]++
}

// RecordActionExecution records one handler invocation, engine-wide
// per-action-type telemetry.
func (m *MetricsService) RecordActionExecution(actionType string, elapsed time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.actions[actionType]
	if !ok {
		record = &metrics.ActionStatistics{ActionType: actionType}
		m.actions[actionType] = record
	}
	record.Record(elapsed, success)
}

// RecordCategoryExecution counts one execution against a rule category.
func (m *MetricsService) RecordCategoryExecution(category string) {
	if category == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCategory[category]++
}

// RecordError appends an entry to the recent-error feed, evicting the oldest
// beyond capacity.
func (m *MetricsService) RecordError(ruleId, actionType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recentErrors = append(m.recentErrors, metrics.ExecutionError{
		RuleId:     ruleId,
		ActionType: actionType,
		Message:    message,
		Timestamp:  time.Now(),
	})
	if len(m.recentErrors) > recentErrorCapacity {
		m.recentErrors = m.recentErrors[len(m.recentErrors)-recentErrorCapacity:]
	}
}

// GetRuleStatistics returns a copy of the stored record, or the cold-start
// default for a rule that never executed. Never run is not an error case.
func (m *MetricsService) GetRuleStatistics(ruleId string) metrics.RuleStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.rules[ruleId]; ok {
		return *record
	}
	return *metrics.NewRuleStatistics(ruleId)
}

// GetActionStatistics returns a copy of the per-action-type record, or a
// zero record for a type never executed.
func (m *MetricsService) GetActionStatistics(actionType string) metrics.ActionStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.actions[actionType]; ok {
		return *record
	}
	return metrics.ActionStatistics{ActionType: actionType}
}

// GetPopularRules returns the top rules by descending execution count.
func (m *MetricsService) GetPopularRules(limit int) []metrics.RuleStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.popularRulesLocked(limit)
}

func (m *MetricsService) popularRulesLocked(limit int) []metrics.RuleStatistics {
	out := make([]metrics.RuleStatistics, 0, len(m.rules))
	for _, record := range m.rules {
		out = append(out, *record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExecutionCount != out[j].ExecutionCount {
			return out[i].ExecutionCount > out[j].ExecutionCount
		}
		return out[i].RuleId < out[j].RuleId
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// GetEngineMetrics returns a point-in-time copy of the aggregate view.
// Mutating the returned maps and slices does not touch the live state.
func (m *MetricsService) GetEngineMetrics() metrics.EngineMetrics {
	counters := m.counters.Get()

	m.mu.RLock()
	defer m.mu.RUnlock()

	active := 0
	cutoff := time.Now().Add(-activeRuleWindow)
	for _, record := range m.rules {
		if record.LastExecuted.After(cutoff) {
			active++
		}
	}
	errorRate := 0.0
	if counters.Total > 0 {
		errorRate = float64(counters.Failed) / float64(counters.Total)
	}

	byCategory := make(map[string]int64, len(m.byCategory))
	for k, v := range m.byCategory {
		byCategory[k] = v
	}
	byHour := make(map[int]int64, len(m.byHour))
	for k, v := range m.byHour {
		byHour[k] = v
	}
	recentErrors := make([]metrics.ExecutionError, len(m.recentErrors))
	copy(recentErrors, m.recentErrors)

	return metrics.EngineMetrics{
		TotalExecutions:      counters.Total,
		TotalRules:           len(m.rules),
		ActiveRules:          active,
		AverageExecutionTime: m.averageExecutionTime,
		ErrorRate:            errorRate,
		PopularRules:         m.popularRulesLocked(popularRulesInSnapshot),
		RecentErrors:         recentErrors,
		ExecutionsByCategory: byCategory,
		ExecutionsByHour:     byHour,
	}
}

// ResetMetrics clears all state, for test isolation or periodic rollover.
func (m *MetricsService) ResetMetrics() {
	m.counters.Reset()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = make(map[string]*metrics.RuleStatistics)
	m.actions = make(map[string]*metrics.ActionStatistics)
	m.byCategory = make(map[string]int64)
	m.byHour = make(map[int]int64)
	m.recentErrors = nil
	m.averageExecutionTime = 0
}

// ScheduleReset starts a cron job that resets all metrics on the given
// schedule, e.g. "0 0 * * *" for a daily rollover. Calling it again replaces
// the previous schedule.
func (m *MetricsService) ScheduleReset(cronExpr string) error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cronExpr, m.ResetMetrics); err != nil {
		return err
	}

	m.cronMu.Lock()
	defer m.cronMu.Unlock()
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	m.scheduler = scheduler
	scheduler.Start()
	return nil
}

// Stop halts a scheduled rollover if one is running.
func (m *MetricsService) Stop() {
	m.cronMu.Lock()
	defer m.cronMu.Unlock()
	if m.scheduler != nil {
		m.scheduler.Stop()
		m.scheduler = nil
	}
}
