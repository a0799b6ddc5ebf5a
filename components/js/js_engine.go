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

// Package js runs untrusted script text in a goja sandbox. The runtime
// exposes only the bindings the caller sets plus the ECMAScript built-ins
// (JSON, Math, String and friends), no file, network or process primitives.
// Execution is bounded by an interrupt timer, a stalled script cannot stall
// the process.
package js

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

func closeStateChan(state chan int) {
	// Reached on both the normal and the timed-out path. A 0 means the timer
	// has not fired, a 2 means the vm was interrupted.
	if <-state == 0 {
		state <- 1
	}
	close(state)
}

// GojaEngine evaluates scripts on fresh goja runtimes.
type GojaEngine struct {
	maxExecutionTime time.Duration
}

// NewGojaEngine creates a sandbox whose executions are bounded by
// maxExecutionTime unless a shorter per-call timeout is given.
func NewGojaEngine(maxExecutionTime time.Duration) *GojaEngine {
	if maxExecutionTime <= 0 {
		maxExecutionTime = time.Millisecond * 2000
	}
	return &GojaEngine{maxExecutionTime: maxExecutionTime}
}

// Execute runs the script with the given bindings and returns the value of
// its final expression. Script exceptions and interrupts surface as errors,
// never as panics.
func (g *GojaEngine) Execute(script string, vars map[string]interface{}, timeout time.Duration) (out interface{}, err error) {
	defer func() {
		if caught := recover(); caught != nil {
			err = fmt.Errorf("%s", caught)
		}
	}()
	if timeout <= 0 || timeout > g.maxExecutionTime {
		timeout = g.maxExecutionTime
	}

	vm := goja.New()
	for k, v := range vars {
		if setErr := vm.Set(k, v); setErr != nil {
			return nil, errors.New("set variable error,err:" + setErr.Error())
		}
	}

	state := make(chan int, 1)
	state <- 0
	timer := time.AfterFunc(timeout, func() {
		if <-state == 0 {
			state <- 2
			vm.Interrupt("execution timeout")
		}
	})

	res, err := vm.RunString(script)
	timer.Stop()
	closeStateChan(state)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return res.Export(), nil
}
