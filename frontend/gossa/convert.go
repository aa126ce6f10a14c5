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


package gossa

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"

	"github.com/cloudwego/livevar/ir"
)

type converter struct {
	b    *ir.Builder
	fn   *ssa.Function
	bbs  []ir.BlockID
	ins  map[ssa.Instruction]ir.ValueID
	vals map[ssa.Value]ir.ValueID
}

// Convert translates an SSA function into a sealed ir.Func. Values keep their
// SSA names, and every instruction is printed the way the ssa package does.
func Convert(fn *ssa.Function) (*ir.Func, error) {
	if len(fn.Blocks) == 0 {
		return nil, errors.Errorf("function %s has no body", fn)
	}

	/* create the converter */
	cc := &converter{
		b:    ir.NewBuilder(fn.String()),
		fn:   fn,
		bbs:  make([]ir.BlockID, len(fn.Blocks)),
		ins:  make(map[ssa.Instruction]ir.ValueID),
		vals: make(map[ssa.Value]ir.ValueID),
	}

	/* parameters and captured variables are both incoming values */
	for _, p := range fn.Params {
		cc.vals[p] = cc.b.Param(p.Name())
	}
	for _, p := range fn.FreeVars {
		cc.vals[p] = cc.b.Param(p.Name())
	}

	/* all the blocks, then all the instructions, then their operands */
	for i, bb := range fn.Blocks {
		cc.bbs[i] = cc.b.Block(fmt.Sprintf("%d", bb.Index))
	}
	for _, bb := range fn.Blocks {
		cc.declare(bb)
	}
	for _, bb := range fn.Blocks {
		cc.define(bb)
	}

	/* seal the function */
	ret, err := cc.b.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot convert %s", fn)
	}
	return ret, nil
}

// ConvertAll converts every function, stopping at the first failure.
func ConvertAll(fns []*ssa.Function) ([]*ir.Func, error) {
	ret := make([]*ir.Func, 0, len(fns))
	for _, fn := range fns {
		if p, err := Convert(fn); err != nil {
			return nil, err
		} else {
			ret = append(ret, p)
		}
	}
	return ret, nil
}

// declare creates every instruction of the block without operands, so that
// operands referring to later blocks can be resolved afterwards.
func (self *converter) declare(bb *ssa.BasicBlock) {
	self.b.At(self.bbs[bb.Index])
	for _, ins := range bb.Instrs {
		name := ""
		text := ins.String()
		kind := kindOf(ins)
		typed := false

		/* value-producing instructions print as "name = rhs" */
		if v, ok := ins.(ssa.Value); ok && !isVoid(v.Type()) {
			name = v.Name()
			text = name + " = " + text
			typed = true
		}

		/* create the instruction */
		id := self.b.Emit(kind, "", name, typed)
		self.b.Func().Def(id).Text = text
		self.ins[ins] = id

		/* instructions producing values can be referenced by others */
		if v, ok := ins.(ssa.Value); ok {
			self.vals[v] = id
		}
	}
}

func (self *converter) define(bb *ssa.BasicBlock) {
	for _, ins := range bb.Instrs {
		p := self.b.Func().Def(self.ins[ins])

		/* each kind of instruction has a different operand layout */
		switch v := ins.(type) {
		case *ssa.Phi:
			for i, e := range v.Edges {
				self.b.Incoming(p.Self, self.value(e), self.bbs[bb.Preds[i].Index])
			}

		/* value first, then the pointer */
		case *ssa.Store:
			p.Args = []ir.ValueID{self.value(v.Val), self.value(v.Addr)}

		/* branches refer to their targets by label */
		case *ssa.Jump:
			p.Args = []ir.ValueID{self.label(bb.Succs[0])}

		/* conditional branches, "then" first */
		case *ssa.If:
			p.Args = []ir.ValueID{self.value(v.Cond), self.label(bb.Succs[0]), self.label(bb.Succs[1])}

		/* all the others read every operand in order */
		default:
			for _, r := range ins.Operands(nil) {
				if r != nil && *r != nil {
					p.Args = append(p.Args, self.value(*r))
				}
			}
		}
	}
}

func (self *converter) label(bb *ssa.BasicBlock) ir.ValueID {
	return self.b.Label(self.bbs[bb.Index])
}

// value maps an SSA value to an IR value, creating constant-like values on
// first use.
func (self *converter) value(v ssa.Value) ir.ValueID {
	if id, ok := self.vals[v]; ok {
		return id
	}

	/* only constants and package-level objects are not yet known */
	var id ir.ValueID
	switch v.(type) {
	case *ssa.Const:
		id = self.b.Const(v.Name())
	case *ssa.Global:
		id = self.b.Global(v.String())
	default:
		id = self.b.Global(v.Name())
	}

	/* cache the value */
	self.vals[v] = id
	return id
}

func isVoid(t types.Type) bool {
	if tt, ok := t.(*types.Tuple); ok {
		return tt.Len() == 0
	} else {
		return false
	}
}

func kindOf(ins ssa.Instruction) ir.Kind {
	switch v := ins.(type) {
	case *ssa.BinOp:
		if isCompare(v.Op) {
			return ir.KindCompare
		} else {
			return ir.KindBinary
		}
	case *ssa.UnOp:
		if v.Op == token.MUL {
			return ir.KindLoad
		} else {
			return ir.KindBinary
		}
	case *ssa.Store:
		return ir.KindStore
	case *ssa.Alloc:
		return ir.KindAlloca
	case *ssa.Phi:
		return ir.KindPhi
	case *ssa.Call, *ssa.Go, *ssa.Defer:
		return ir.KindCall
	case *ssa.FieldAddr, *ssa.IndexAddr:
		return ir.KindAddress
	case *ssa.Field, *ssa.Index, *ssa.Extract:
		return ir.KindAggregate
	case *ssa.Convert, *ssa.ChangeType, *ssa.ChangeInterface, *ssa.MakeInterface, *ssa.SliceToArrayPointer:
		return ir.KindConvert
	case *ssa.Jump:
		return ir.KindBr
	case *ssa.If:
		return ir.KindCondBr
	case *ssa.Return:
		return ir.KindReturn
	case *ssa.Panic:
		return ir.KindUnreachable
	default:
		return ir.KindUnknown
	}
}

func isCompare(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	default:
		return false
	}
}
