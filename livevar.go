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


// Package livevar computes live-variable information over functions in SSA
// form: for every instruction, which values may still be read later.
package livevar

import (
	"context"
	"os"
	"sync"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/pkg/errors"

	"github.com/cloudwego/livevar/internal/liveness"
	"github.com/cloudwego/livevar/internal/opts"
	"github.com/cloudwego/livevar/ir"
)

// Result holds the converged liveness of one function. Every set it returns
// is a copy owned by the caller.
type Result struct {
	eng *liveness.Engine
}

// Func returns the analyzed function.
func (self *Result) Func() *ir.Func { return self.eng.Func() }

// Passes returns the number of passes needed to converge.
func (self *Result) Passes() int { return self.eng.Passes() }

// Visits returns the number of times a block was recomputed.
func (self *Result) Visits() int { return self.eng.Visits() }

// LiveIn returns the values live at the entry of block bb.
func (self *Result) LiveIn(bb ir.BlockID) ir.ValueSet { return self.eng.LiveIn(bb).Clone() }

// LiveOut returns the values live at the exit of block bb.
func (self *Result) LiveOut(bb ir.BlockID) ir.ValueSet { return self.eng.LiveOut(bb).Clone() }

// InstrLiveIn returns the values live immediately before instruction i.
func (self *Result) InstrLiveIn(i ir.InstrID) ir.ValueSet { return self.eng.InstrIn(i).Clone() }

// InstrLiveOut returns the values live immediately after instruction i.
func (self *Result) InstrLiveOut(i ir.InstrID) ir.ValueSet { return self.eng.InstrOut(i).Clone() }

// EdgeLive returns the values live along the CFG edge pred -> succ.
func (self *Result) EdgeLive(pred ir.BlockID, succ ir.BlockID) ir.ValueSet {
	return self.eng.Edge(succ, pred).Clone()
}

// Gen returns the values read by instruction i.
func (self *Result) Gen(i ir.InstrID) ir.ValueSet { return self.eng.Classifier().Gen(i).Clone() }

// Kill returns the value defined by instruction i, if any.
func (self *Result) Kill(i ir.InstrID) ir.ValueSet { return self.eng.Classifier().Kill(i).Clone() }

// Analyze computes the liveness of a sealed function. It fails with an
// *ir.MalformedError if the function is not well-formed.
func Analyze(fn *ir.Func, options ...Option) (*Result, error) {
	o := opts.GetDefaultOptions()
	for _, opt := range options {
		opt(&o)
	}
	return analyze(fn, o)
}

// AnalyzeAll analyzes independent functions in parallel. The results are in
// the same order as fns; if any function fails, the first failure is returned
// as a FunctionError.
func AnalyzeAll(fns []*ir.Func, options ...Option) ([]*Result, error) {
	o := opts.GetDefaultOptions()
	for _, opt := range options {
		opt(&o)
	}

	/* all the functions share nothing, so each one gets its own task */
	wg := sync.WaitGroup{}
	res := make([]*Result, len(fns))
	errs := make([]error, len(fns))
	pool := gopool.NewPool("livevar", int32(o.Workers), gopool.NewConfig())

	/* a panicking task reports an error instead of an empty result */
	pool.SetPanicHandler(func(ctx context.Context, v interface{}) {
		i := ctx.Value(_TaskKey{}).(int)
		errs[i] = errors.Errorf("panic during analysis: %v", v)
		wg.Done()
	})

	/* spawn the tasks */
	for i, fn := range fns {
		i, fn := i, fn
		wg.Add(1)
		pool.CtxGo(context.WithValue(context.Background(), _TaskKey{}, i), func() {
			res[i], errs[i] = analyze(fn, o)
			wg.Done()
		})
	}

	/* wait for all of them */
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, FunctionError{Func: funcName(fns[i]), Index: i, Err: err}
		}
	}
	return res, nil
}

type _TaskKey struct{}

func funcName(fn *ir.Func) string {
	if fn == nil {
		return "<nil>"
	} else {
		return fn.Name
	}
}

func blockOrder(fn *ir.Func, order opts.Order) []ir.BlockID {
	switch order {
	case opts.OrderPostorder:
		return liveness.PostOrder(fn)
	case opts.OrderSCC:
		return liveness.SCCOrder(fn)
	default:
		return liveness.ProgramOrder(fn)
	}
}

func analyze(fn *ir.Func, o opts.Options) (*Result, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}

	/* classify first, then iterate */
	cls := liveness.Classify(fn)
	eng := liveness.NewEngine(fn, cls, blockOrder(fn, o.Order))

	/* trace every pass if needed */
	if o.Debug {
		eng.OnPass(func(pass int, changed int) {
			println("livevar:", fn.Name, "pass", pass, "changed", changed)
		})
	}

	/* converge */
	switch o.Strategy {
	case opts.StrategyWorklist:
		eng.RunWorklist()
	default:
		eng.Run()
	}

	/* dump the final state */
	if o.Debug {
		eng.Dump(os.Stderr)
	}
	return &Result{eng: eng}, nil
}
