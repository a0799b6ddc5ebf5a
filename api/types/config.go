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

// Config defines the configuration for the action engine.
type Config struct {
	// Logger is the logging interface, defaulting to `DefaultLogger()`.
	Logger Logger
	// DefaultActionTimeout bounds a handler invocation when the action carries
	// no `timeout` parameter, defaulting to 5000 milliseconds.
	DefaultActionTimeout time.Duration
	// ScriptMaxExecutionTime is the maximum execution time for sandboxed
	// scripts, defaulting to 2000 milliseconds. The per-action timeout still
	// applies, the shorter bound wins.
	ScriptMaxExecutionTime time.Duration
	// Properties are global properties in key-value format, read by handlers
	// for shared infrastructure settings, e.g. `smtp.server`, `mqtt.server`,
	// `db.driver`, `db.dsn`, `proxy.address`.
	Properties map[string]string
	// Metrics receives execution telemetry. Nil disables recording.
	Metrics MetricsRecorder
}

// Property returns the named global property or the empty string.
func (c Config) Property(key string) string {
	if c.Properties == nil {
		return ""
	}
	return c.Properties[key]
}

// Option modifies the Config.
type Option func(*Config) error

// NewConfig creates a new Config with default values and applies the provided options.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:                 DefaultLogger(),
		DefaultActionTimeout:   time.Millisecond * 5000,
		ScriptMaxExecutionTime: time.Millisecond * 2000,
		Properties:             make(map[string]string),
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithDefaultActionTimeout sets the fallback per-action timeout.
func WithDefaultActionTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		c.DefaultActionTimeout = timeout
		return nil
	}
}

// WithScriptMaxExecutionTime sets the script sandbox time bound.
func WithScriptMaxExecutionTime(timeout time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = timeout
		return nil
	}
}

// WithProperties merges global properties into the configuration.
func WithProperties(properties map[string]string) Option {
	return func(c *Config) error {
		if c.Properties == nil {
			c.Properties = make(map[string]string)
		}
		for k, v := range properties {
			c.Properties[k] = v
		}
		return nil
	}
}

// WithMetrics sets the telemetry recorder.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(c *Config) error {
		c.Metrics = metrics
		return nil
	}
}
