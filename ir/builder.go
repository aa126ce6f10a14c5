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


package ir

import (
    `fmt`
)

// Case is one arm of a switch terminator.
type Case struct {
    Value ValueID
    Block BlockID
}

// Builder constructs a Func instruction by instruction. Instructions are
// appended to the current block, selected with At. Names are printed
// verbatim, an empty name gets a sequential "%N" name.
type Builder struct {
    fn *Func
    bb BlockID
    nv int
}

func NewBuilder(name string) *Builder {
    return &Builder {
        fn: NewFunc(name),
        bb: NoBlock,
    }
}

func (self *Builder) Func() *Func {
    return self.fn
}

func (self *Builder) name(s string) string {
    if s != "" {
        return s
    } else {
        self.nv++
        return fmt.Sprintf("%%%d", self.nv - 1)
    }
}

func (self *Builder) Param(name string) ValueID {
    v := self.fn.newValue(self.name(name), ClassParam)
    self.fn.Params = append(self.fn.Params, v.Id)
    return v.Id
}

func (self *Builder) Const(text string) ValueID {
    return self.fn.newValue(text, ClassConst).Id
}

func (self *Builder) Global(name string) ValueID {
    return self.fn.newValue(name, ClassGlobal).Id
}

// Block creates a new basic block. The first block created is the entry block.
func (self *Builder) Block(name string) BlockID {
    return self.fn.newBlock(self.name(name)).Id
}

// Label returns the label value of block bb, used as a branch target operand.
func (self *Builder) Label(bb BlockID) ValueID {
    return self.fn.Blocks[bb].Label
}

// At selects the block new instructions are appended to.
func (self *Builder) At(bb BlockID) *Builder {
    self.bb = bb
    return self
}

// Emit appends an arbitrary instruction and returns its identity value.
func (self *Builder) Emit(kind Kind, op string, name string, typed bool, args ...ValueID) ValueID {
    if self.bb == NoBlock {
        panic("ir: no current block")
    }

    /* void instructions are never printed by name */
    if typed {
        name = self.name(name)
    }

    /* create the instruction */
    return self.fn.newInstr(self.bb, kind, op, name, typed, args).Self
}

func (self *Builder) Binary(name string, op string, x ValueID, y ValueID) ValueID {
    return self.Emit(KindBinary, op, name, true, x, y)
}

func (self *Builder) Compare(name string, op string, x ValueID, y ValueID) ValueID {
    return self.Emit(KindCompare, op, name, true, x, y)
}

func (self *Builder) Load(name string, ptr ValueID) ValueID {
    return self.Emit(KindLoad, "", name, true, ptr)
}

// Store writes val into *ptr. The operands are kept in value, pointer order.
func (self *Builder) Store(val ValueID, ptr ValueID) ValueID {
    return self.Emit(KindStore, "", "", false, val, ptr)
}

func (self *Builder) Alloca(name string) ValueID {
    return self.Emit(KindAlloca, "", name, true)
}

func (self *Builder) Address(name string, ptr ValueID, index ...ValueID) ValueID {
    return self.Emit(KindAddress, "", name, true, append([]ValueID{ptr}, index...)...)
}

func (self *Builder) Convert(name string, op string, v ValueID) ValueID {
    return self.Emit(KindConvert, op, name, true, v)
}

func (self *Builder) Select(name string, cond ValueID, x ValueID, y ValueID) ValueID {
    return self.Emit(KindSelect, "", name, true, cond, x, y)
}

func (self *Builder) Fence() ValueID {
    return self.Emit(KindFence, "", "", false)
}

// Call emits a call to fn. If name is empty and typed is false, the call
// returns nothing.
func (self *Builder) Call(name string, typed bool, fn ValueID, args ...ValueID) ValueID {
    return self.Emit(KindCall, "", name, typed, append(append([]ValueID(nil), args...), fn)...)
}

// Phi emits a PHI node without operands, add them with Incoming.
func (self *Builder) Phi(name string) ValueID {
    return self.Emit(KindPhi, "", name, true)
}

// Incoming adds an operand v flowing in from block from to the PHI phi.
func (self *Builder) Incoming(phi ValueID, v ValueID, from BlockID) *Builder {
    p := self.fn.Def(phi)
    if p == nil || p.Kind != KindPhi {
        panic("ir: not a PHI: " + self.fn.Values[phi].String())
    }
    p.Args = append(p.Args, v)
    p.Edges = append(p.Edges, from)
    self.fn.sealed = false
    return self
}

func (self *Builder) Br(to BlockID) ValueID {
    return self.Emit(KindBr, "", "", false, self.Label(to))
}

func (self *Builder) CondBr(cond ValueID, t BlockID, f BlockID) ValueID {
    return self.Emit(KindCondBr, "", "", false, cond, self.Label(t), self.Label(f))
}

func (self *Builder) Switch(v ValueID, def BlockID, cases ...Case) ValueID {
    args := []ValueID { v, self.Label(def) }
    for _, c := range cases {
        args = append(args, c.Value, self.Label(c.Block))
    }
    return self.Emit(KindSwitch, "", "", false, args...)
}

func (self *Builder) IndirectBr(addr ValueID, targets ...BlockID) ValueID {
    args := []ValueID { addr }
    for _, bb := range targets {
        args = append(args, self.Label(bb))
    }
    return self.Emit(KindIndirectBr, "", "", false, args...)
}

func (self *Builder) Ret(vals ...ValueID) ValueID {
    return self.Emit(KindReturn, "", "", false, vals...)
}

func (self *Builder) Invoke(name string, typed bool, fn ValueID, normal BlockID, unwind BlockID, args ...ValueID) ValueID {
    return self.Emit(KindInvoke, "", name, typed, append(append([]ValueID(nil), args...), fn, self.Label(normal), self.Label(unwind))...)
}

func (self *Builder) Resume(v ValueID) ValueID {
    return self.Emit(KindResume, "", "", false, v)
}

func (self *Builder) Unreachable() ValueID {
    return self.Emit(KindUnreachable, "", "", false)
}

// Build seals the function and returns it.
func (self *Builder) Build() (*Func, error) {
    if err := self.fn.Seal(); err != nil {
        return nil, err
    } else {
        return self.fn, nil
    }
}
