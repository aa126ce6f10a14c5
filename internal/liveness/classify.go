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

// Classifier records, for every instruction, the values it reads (gen) and
// the value it defines (kill). The sets are computed once and never change.
type Classifier struct {
    fn   *ir.Func
    gen  []ir.ValueSet
    kill []ir.ValueSet
}

func Classify(fn *ir.Func) *Classifier {
    cls := &Classifier {
        fn   : fn,
        gen  : make([]ir.ValueSet, len(fn.Instrs)),
        kill : make([]ir.ValueSet, len(fn.Instrs)),
    }

    /* visit every instruction exactly once */
    for _, bb := range fn.Blocks {
        for _, id := range bb.Ins {
            cls.visit(fn.Instrs[id])
        }
    }
    return cls
}

func (self *Classifier) Gen(i ir.InstrID) ir.ValueSet  { return self.gen[i] }
func (self *Classifier) Kill(i ir.InstrID) ir.ValueSet { return self.kill[i] }

func (self *Classifier) gens(p *ir.Instr, v ir.ValueID) {
    if self.fn.Values[v].Tracked() {
        self.gen[p.Id].Add(v)
    }
}

func (self *Classifier) operands(p *ir.Instr) {
    for _, v := range p.Args {
        self.gens(p, v)
    }
}

func (self *Classifier) result(p *ir.Instr) {
    self.kill[p.Id].Add(p.Self)
}

func (self *Classifier) visit(p *ir.Instr) {
    switch p.Kind {
        default: {
            self.operands(p)
            if p.Typed { self.result(p) }
        }

        /* store reads both the pointer and the value, and defines nothing */
        case ir.KindStore: {
            if len(p.Args) != 2 {
                panic("liveness: malformed store: " + self.fn.Format(p.Id))
            }
            self.gens(p, p.Args[1])
            self.gens(p, p.Args[0])
        }

        /* the allocated pointer is a fresh definition */
        case ir.KindAlloca: {
            self.result(p)
        }

        /* no value semantics */
        case ir.KindFence: {
            break
        }

        /* branches read their condition or selector */
        case ir.KindBr, ir.KindCondBr, ir.KindSwitch, ir.KindIndirectBr, ir.KindResume, ir.KindUnreachable: {
            self.operands(p)
        }

        /* return and invoke also kill their own result */
        case ir.KindReturn, ir.KindInvoke: {
            self.operands(p)
            self.result(p)
        }
    }
}
