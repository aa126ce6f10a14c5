/*
 * Copyright 2022 CloudWeGo Authors
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


package livevar

import (
	"fmt"

	"github.com/cloudwego/livevar/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// Strategy selects how the fixpoint is reached.
type Strategy = opts.Strategy

const (
	// Sweep repeats full passes over every block until a pass changes nothing.
	Sweep = opts.StrategySweep

	// Worklist only revisits the predecessors of blocks that changed.
	Worklist = opts.StrategyWorklist
)

// Order selects the order blocks are visited in.
type Order = opts.Order

const (
	ProgramOrder = opts.OrderProgram
	PostOrder    = opts.OrderPostorder
	SCCOrder     = opts.OrderSCC
)

// WithStrategy selects the fixpoint strategy.
//
// This value can also be configured with the `LIVEVAR_STRATEGY` environment
// variable, either "sweep" or "worklist".
//
// The default value of this option is "sweep". Both strategies reach the same
// result.
func WithStrategy(s Strategy) Option {
	if s > Worklist {
		panic(fmt.Sprintf("livevar: invalid strategy: %d", s))
	} else {
		return func(o *opts.Options) { o.Strategy = s }
	}
}

// WithOrder selects the order blocks are visited within a pass.
//
// This value can also be configured with the `LIVEVAR_ORDER` environment
// variable, one of "program", "postorder" or "scc".
//
// The default value of this option is "program". Visiting successors first
// usually needs fewer passes, but the result is the same.
func WithOrder(v Order) Option {
	if v > SCCOrder {
		panic(fmt.Sprintf("livevar: invalid block order: %d", v))
	} else {
		return func(o *opts.Options) { o.Order = v }
	}
}

// WithWorkers sets how many functions AnalyzeAll analyzes in parallel.
//
// This value can also be configured with the `LIVEVAR_WORKERS` environment
// variable.
//
// The default value of this option is "4".
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("livevar: invalid worker count: %d", n))
	} else {
		return func(o *opts.Options) { o.Workers = n }
	}
}

// WithDebug makes the engine print every pass and the final block states to
// stderr.
//
// This value can also be configured with the `LIVEVAR_DEBUG` environment
// variable.
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}
