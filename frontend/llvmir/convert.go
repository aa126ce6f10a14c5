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


package llvmir

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"

	"github.com/cloudwego/livevar/ir"
)

var _KindTab = map[llvm.Opcode]ir.Kind{
	llvm.Ret:            ir.KindReturn,
	llvm.Switch:         ir.KindSwitch,
	llvm.IndirectBr:     ir.KindIndirectBr,
	llvm.Invoke:         ir.KindInvoke,
	llvm.Unreachable:    ir.KindUnreachable,
	llvm.Resume:         ir.KindResume,
	llvm.Add:            ir.KindBinary,
	llvm.FAdd:           ir.KindBinary,
	llvm.Sub:            ir.KindBinary,
	llvm.FSub:           ir.KindBinary,
	llvm.Mul:            ir.KindBinary,
	llvm.FMul:           ir.KindBinary,
	llvm.UDiv:           ir.KindBinary,
	llvm.SDiv:           ir.KindBinary,
	llvm.FDiv:           ir.KindBinary,
	llvm.URem:           ir.KindBinary,
	llvm.SRem:           ir.KindBinary,
	llvm.FRem:           ir.KindBinary,
	llvm.Shl:            ir.KindBinary,
	llvm.LShr:           ir.KindBinary,
	llvm.AShr:           ir.KindBinary,
	llvm.And:            ir.KindBinary,
	llvm.Or:             ir.KindBinary,
	llvm.Xor:            ir.KindBinary,
	llvm.ICmp:           ir.KindCompare,
	llvm.FCmp:           ir.KindCompare,
	llvm.Alloca:         ir.KindAlloca,
	llvm.Load:           ir.KindLoad,
	llvm.Store:          ir.KindStore,
	llvm.GetElementPtr:  ir.KindAddress,
	llvm.Trunc:          ir.KindConvert,
	llvm.ZExt:           ir.KindConvert,
	llvm.SExt:           ir.KindConvert,
	llvm.FPToUI:         ir.KindConvert,
	llvm.FPToSI:         ir.KindConvert,
	llvm.UIToFP:         ir.KindConvert,
	llvm.SIToFP:         ir.KindConvert,
	llvm.FPTrunc:        ir.KindConvert,
	llvm.FPExt:          ir.KindConvert,
	llvm.PtrToInt:       ir.KindConvert,
	llvm.IntToPtr:       ir.KindConvert,
	llvm.BitCast:        ir.KindConvert,
	llvm.PHI:            ir.KindPhi,
	llvm.Call:           ir.KindCall,
	llvm.Select:         ir.KindSelect,
	llvm.VAArg:          ir.KindVAArg,
	llvm.ExtractElement: ir.KindAggregate,
	llvm.InsertElement:  ir.KindAggregate,
	llvm.ShuffleVector:  ir.KindAggregate,
	llvm.ExtractValue:   ir.KindAggregate,
	llvm.InsertValue:    ir.KindAggregate,
	llvm.Fence:          ir.KindFence,
	llvm.AtomicCmpXchg:  ir.KindAtomic,
	llvm.AtomicRMW:      ir.KindAtomic,
	llvm.LandingPad:     ir.KindLandingPad,
}

// kindOf maps an opcode to an instruction kind. A branch is conditional when
// it has a condition operand. Opcodes this package does not know about end up
// as KindUnknown, or as KindResume when they end a block.
func kindOf(op llvm.Opcode, nargs int, last bool) ir.Kind {
	if op == llvm.Br {
		if nargs == 1 {
			return ir.KindBr
		} else {
			return ir.KindCondBr
		}
	} else if kind, ok := _KindTab[op]; ok {
		return kind
	} else if last {
		return ir.KindResume
	} else {
		return ir.KindUnknown
	}
}

type converter struct {
	b    *ir.Builder
	bbs  map[llvm.BasicBlock]ir.BlockID
	vals map[llvm.Value]ir.ValueID
}

// Convert translates an LLVM function definition into a sealed ir.Func. The
// instructions are printed exactly as LLVM does.
func Convert(fn llvm.Value) (*ir.Func, error) {
	if fn.IsAFunction().IsNil() {
		return nil, errors.New("not a function")
	} else if fn.BasicBlocksCount() == 0 {
		return nil, errors.Errorf("function @%s is only a declaration", fn.Name())
	}

	/* create the converter */
	cc := &converter{
		b:    ir.NewBuilder(fn.Name()),
		bbs:  make(map[llvm.BasicBlock]ir.BlockID),
		vals: make(map[llvm.Value]ir.ValueID),
	}

	/* function parameters */
	for _, p := range fn.Params() {
		cc.vals[p] = cc.b.Param(valueName(p))
	}

	/* all the blocks first, branches may refer to any of them */
	blocks := fn.BasicBlocks()
	for i, bb := range blocks {
		cc.bbs[bb] = cc.b.Block(blockName(bb, i))
	}

	/* then all the instructions, then their operands */
	for _, bb := range blocks {
		cc.declare(bb)
	}
	for _, bb := range blocks {
		cc.define(bb)
	}

	/* seal the function */
	ret, err := cc.b.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot convert @%s", fn.Name())
	}
	return ret, nil
}

// ConvertModule converts every function defined in the module.
func ConvertModule(m *Module) ([]*ir.Func, error) {
	fns := m.Functions()
	ret := make([]*ir.Func, 0, len(fns))

	/* convert one by one */
	for _, fn := range fns {
		if p, err := Convert(fn); err != nil {
			return nil, err
		} else {
			ret = append(ret, p)
		}
	}
	return ret, nil
}

func (self *converter) declare(bb llvm.BasicBlock) {
	self.b.At(self.bbs[bb])
	for v := bb.FirstInstruction(); !v.IsNil(); v = llvm.NextInstruction(v) {
		name := ""
		last := llvm.NextInstruction(v).IsNil()
		kind := kindOf(v.InstructionOpcode(), v.OperandsCount(), last)

		/* unknown terminators referring to blocks still branch there */
		if kind == ir.KindResume && v.InstructionOpcode() != llvm.Resume && hasLabel(v) {
			kind = ir.KindIndirectBr
		}
		typed := v.Type().TypeKind() != llvm.VoidTypeKind

		/* only value-producing instructions have a name */
		if typed {
			name = valueName(v)
		}

		/* create the instruction */
		id := self.b.Emit(kind, "", name, typed)
		self.b.Func().Def(id).Text = strings.TrimSpace(v.String())
		self.vals[v] = id
	}
}

func (self *converter) define(bb llvm.BasicBlock) {
	for v := bb.FirstInstruction(); !v.IsNil(); v = llvm.NextInstruction(v) {
		p := self.b.Func().Def(self.vals[v])

		/* PHIs pair every operand with its incoming block */
		if p.Kind == ir.KindPhi {
			for i := 0; i < v.IncomingCount(); i++ {
				self.b.Incoming(p.Self, self.value(v.IncomingValue(i)), self.bbs[v.IncomingBlock(i)])
			}
			continue
		}

		/* all the others read their operands in order */
		for i := 0; i < v.OperandsCount(); i++ {
			p.Args = append(p.Args, self.value(v.Operand(i)))
		}
	}
}

// value maps an LLVM value to an IR value. Everything that is neither an
// instruction nor a parameter is constant-like.
func (self *converter) value(v llvm.Value) ir.ValueID {
	if id, ok := self.vals[v]; ok {
		return id
	}

	/* branch targets */
	if v.IsBasicBlock() {
		return self.b.Label(self.bbs[v.AsBasicBlock()])
	}

	/* functions and global variables are link-time constants */
	var id ir.ValueID
	if !v.IsAGlobalValue().IsNil() {
		id = self.b.Global("@" + v.Name())
	} else {
		id = self.b.Const(constName(v))
	}

	/* cache the value */
	self.vals[v] = id
	return id
}

func hasLabel(v llvm.Value) bool {
	for i := 0; i < v.OperandsCount(); i++ {
		if v.Operand(i).IsBasicBlock() {
			return true
		}
	}
	return false
}

// valueName returns the printed name of a value, numbered values have no
// name of their own, so it is taken from the printed form.
func valueName(v llvm.Value) string {
	if name := v.Name(); name != "" {
		return "%" + name
	}

	/* "%3 = add i32 %1, %2", or "i32 %0" for parameters */
	text := strings.TrimSpace(v.String())
	if i := strings.Index(text, " = "); i >= 0 {
		return text[:i]
	} else if i = strings.LastIndexByte(text, ' '); i >= 0 {
		return text[i+1:]
	} else {
		return text
	}
}

// blockName names a block by its label, unnamed blocks are printed as
// their index.
func blockName(bb llvm.BasicBlock, i int) string {
	if name := bb.AsValue().Name(); name != "" {
		return "%" + name
	} else {
		return fmt.Sprintf("%%bb%d", i)
	}
}

// constName strips the type from the printed constant, "i32 1" becomes "1".
func constName(v llvm.Value) string {
	text := strings.TrimSpace(v.String())
	if i := strings.IndexByte(text, ' '); i >= 0 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text[i+1:]
	} else {
		return text
	}
}
