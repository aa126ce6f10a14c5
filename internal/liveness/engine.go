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


package liveness

import (
    `github.com/cloudwego/livevar/ir`
)

// Engine computes the live-in set of every block and the live-out set of
// every instruction by iterating the backward dataflow equations
//
//     out(I) = in(next I), or ∑(edge(S, B)) over every successor S of B for terminators
//     in(I)  = (out(I) - kill(I)) ∪ gen(I)
//     in(B)  = in(first I of B)
//
// until no block changes. A PHI operand only flows into the predecessor it
// comes from: edge(S, B) is the set live right after the PHIs of S, minus the
// PHI definitions, plus the PHI operands incoming from B.
type Engine struct {
    fn     *ir.Func
    cls    *Classifier
    order  []ir.BlockID
    swept  []bool
    entry  []ir.ValueSet
    exit   []ir.ValueSet
    merge  []ir.ValueSet
    before []ir.ValueSet
    after  []ir.ValueSet
    passes int
    visits int
    trace  func(pass int, changed int)
}

// NewEngine creates an engine visiting blocks in the given order. The order
// must list every block of the function exactly once.
func NewEngine(fn *ir.Func, cls *Classifier, order []ir.BlockID) *Engine {
    nb := len(fn.Blocks)
    ni := len(fn.Instrs)

    /* the order must be a permutation of all blocks */
    if len(order) != nb {
        panic("liveness: block order does not cover the function")
    }

    /* create the engine */
    return &Engine {
        fn     : fn,
        cls    : cls,
        order  : order,
        swept  : make([]bool, nb),
        entry  : make([]ir.ValueSet, nb),
        exit   : make([]ir.ValueSet, nb),
        merge  : make([]ir.ValueSet, nb),
        before : make([]ir.ValueSet, ni),
        after  : make([]ir.ValueSet, ni),
    }
}

// OnPass installs a callback invoked after every full pass with the number of
// blocks that changed during that pass.
func (self *Engine) OnPass(fn func(pass int, changed int)) {
    self.trace = fn
}

func (self *Engine) Func() *ir.Func                      { return self.fn }
func (self *Engine) Classifier() *Classifier             { return self.cls }
func (self *Engine) Passes() int                         { return self.passes }
func (self *Engine) Visits() int                         { return self.visits }
func (self *Engine) LiveIn(bb ir.BlockID) ir.ValueSet    { return self.entry[bb] }
func (self *Engine) LiveOut(bb ir.BlockID) ir.ValueSet   { return self.exit[bb] }
func (self *Engine) InstrIn(i ir.InstrID) ir.ValueSet    { return self.before[i] }
func (self *Engine) InstrOut(i ir.InstrID) ir.ValueSet   { return self.after[i] }

// Edge returns the set of values live along the CFG edge pred -> succ.
func (self *Engine) Edge(succ ir.BlockID, pred ir.BlockID) ir.ValueSet {
    return self.edge(succ, pred)
}

// transfer applies in = (out - kill) ∪ gen to the live set in place. Kill is
// applied strictly before gen, so a value in both stays live.
func (self *Engine) transfer(i ir.InstrID, live *ir.ValueSet) {
    for _, v := range self.cls.Kill(i).Values() { live.Remove(v) }
    for _, v := range self.cls.Gen(i).Values()  { live.Add(v) }
}

func (self *Engine) edge(succ ir.BlockID, pred ir.BlockID) (rs ir.ValueSet) {
    bb := self.fn.Blocks[succ]
    p0 := self.fn.Instrs[bb.Ins[0]]

    /* not computed yet, treat as empty */
    if !self.swept[succ] {
        return
    }

    /* blocks without PHIs expose their entry set to every predecessor */
    if p0.Kind != ir.KindPhi {
        return self.entry[succ]
    }

    /* add the PHI operands coming from this very predecessor */
    rs = self.merge[succ].Clone()
    for _, id := range bb.Ins {
        p := self.fn.Instrs[id]
        if p.Kind != ir.KindPhi {
            break
        }

        /* only the operands of this edge */
        for _, v := range p.Incoming(pred) {
            if self.fn.Values[v].Tracked() {
                rs.Add(v)
            }
        }
    }
    return
}

func (self *Engine) boundary(bb *ir.Block) (rs ir.ValueSet) {
    for _, s := range bb.Succ {
        rs.Union(self.edge(s, bb.Id))
    }
    return
}

// compute recomputes one block, and reports whether it changed.
func (self *Engine) compute(bb *ir.Block) bool {
    out := self.boundary(bb)
    self.visits++

    /* the boundary did not change, no need to sweep again */
    if self.swept[bb.Id] && out.Equal(self.exit[bb.Id]) {
        return false
    }

    /* store the new boundary */
    np := -1
    live := out.Clone()
    self.exit[bb.Id] = out

    /* sweep the instructions backwards */
    for i := len(bb.Ins) - 1; i >= 0; i-- {
        id := bb.Ins[i]
        self.after[id] = live.Clone()
        self.transfer(id, &live)
        self.before[id] = live.Clone()

        /* remember where the PHIs end */
        if np == -1 && self.fn.Instrs[id].Kind == ir.KindPhi {
            np = i + 1
        }
    }

    /* live set right after the PHIs, without their definitions */
    if np > 0 {
        ms := self.before[bb.Ins[np]].Clone()
        for _, id := range bb.Ins[:np] {
            ms.Remove(self.fn.Instrs[id].Self)
        }
        self.merge[bb.Id] = ms
    }

    /* update the block entry */
    self.entry[bb.Id] = live
    self.swept[bb.Id] = true
    return true
}

// Run repeats full passes over all blocks until a pass changes nothing, and
// returns the number of passes performed. Running it again on a converged
// engine performs exactly one pass.
func (self *Engine) Run() int {
    n := 0
    for next := true; next; {
        nc := 0
        n++
        self.passes++

        /* recompute every block */
        for _, id := range self.order {
            if self.compute(self.fn.Blocks[id]) {
                nc++
            }
        }

        /* notify the observer */
        if next = nc != 0; self.trace != nil {
            self.trace(self.passes, nc)
        }
    }
    return n
}
