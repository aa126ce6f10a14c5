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
    `strings`

    `github.com/oleiade/lane`
)

// Func is an arena holding every value, instruction and basic block of one
// function. Everything refers to everything else by index, the first block
// is the entry block.
type Func struct {
    Name   string
    Params []ValueID
    Values []*Value
    Instrs []*Instr
    Blocks []*Block
    sealed bool
}

func NewFunc(name string) *Func {
    return &Func{Name: name}
}

func (self *Func) Value(v ValueID) *Value { return self.Values[v] }
func (self *Func) Instr(i InstrID) *Instr { return self.Instrs[i] }
func (self *Func) Block(b BlockID) *Block { return self.Blocks[b] }

// Def returns the instruction defining v, or nil if v is not an instruction result.
func (self *Func) Def(v ValueID) *Instr {
    if p := self.Values[v]; p.Class != ClassInstr {
        return nil
    } else {
        return self.Instrs[p.Instr]
    }
}

func (self *Func) Sealed() bool {
    return self.sealed
}

func (self *Func) newValue(name string, class Class) *Value {
    p := &Value {
        Id    : ValueID(len(self.Values)),
        Name  : name,
        Class : class,
        Block : NoBlock,
        Instr : NoInstr,
    }
    self.sealed = false
    self.Values = append(self.Values, p)
    return p
}

func (self *Func) newBlock(name string) *Block {
    bb := &Block{Id: BlockID(len(self.Blocks))}
    lb := self.newValue(name, ClassLabel)
    lb.Block = bb.Id
    bb.Label = lb.Id
    self.Blocks = append(self.Blocks, bb)
    return bb
}

func (self *Func) newInstr(bb BlockID, kind Kind, op string, name string, typed bool, args []ValueID) *Instr {
    p := &Instr {
        Id    : InstrID(len(self.Instrs)),
        Kind  : kind,
        Op    : op,
        Args  : args,
        Typed : typed,
        Block : bb,
    }
    v := self.newValue(name, ClassInstr)
    v.Instr = p.Id
    p.Self = v.Id
    self.Instrs = append(self.Instrs, p)
    self.Blocks[bb].Ins = append(self.Blocks[bb].Ins, p.Id)
    return p
}

func (self *Func) malformed(bb *Block, format string, args ...interface{}) error {
    e := &MalformedError {
        Func   : self.Name,
        Reason : fmt.Sprintf(format, args...),
    }
    if bb != nil {
        e.Block = self.BlockName(bb.Id)
    }
    return e
}

func (self *Func) validValue(v ValueID) bool { return v >= 0 && int(v) < len(self.Values) }
func (self *Func) validInstr(i InstrID) bool { return i >= 0 && int(i) < len(self.Instrs) }
func (self *Func) validBlock(b BlockID) bool { return b >= 0 && int(b) < len(self.Blocks) }

func (self *Func) checkShape() error {
    if len(self.Blocks) == 0 {
        return self.malformed(nil, "no basic blocks")
    }

    /* every value must point back to a valid owner */
    for i, v := range self.Values {
        switch {
            case v.Id != ValueID(i)                                     : return self.malformed(nil, "value #%d has ID %d", i, v.Id)
            case v.Class == ClassLabel && !self.validBlock(v.Block)    : return self.malformed(nil, "label %s refers to a missing block", v)
            case v.Class == ClassInstr && !self.validInstr(v.Instr)    : return self.malformed(nil, "value %s refers to a missing instruction", v)
        }
    }

    /* every block must own its label */
    for i, bb := range self.Blocks {
        if bb.Id != BlockID(i) {
            return self.malformed(nil, "block #%d has ID %d", i, bb.Id)
        } else if !self.validValue(bb.Label) || self.Values[bb.Label].Block != bb.Id {
            return self.malformed(nil, "block #%d has a dangling label", i)
        }
    }

    /* check every instruction */
    for i, p := range self.Instrs {
        if p.Id != InstrID(i) {
            return self.malformed(nil, "instruction #%d has ID %d", i, p.Id)
        }

        /* the identity must be this very instruction */
        if !self.validValue(p.Self) || self.Values[p.Self].Instr != p.Id {
            return self.malformed(nil, "instruction #%d has a dangling identity", i)
        }

        /* operands must exist */
        for _, a := range p.Args {
            if !self.validValue(a) {
                return self.malformed(nil, "instruction #%d has a dangling operand #%d", i, a)
            }
        }

        /* incoming edges are only meaningful for PHIs */
        if p.Kind != KindPhi && len(p.Edges) != 0 {
            return self.malformed(nil, "non-PHI instruction #%d has incoming edges", i)
        } else if p.Kind == KindPhi && len(p.Edges) != len(p.Args) {
            return self.malformed(nil, "PHI %s has %d operands but %d edges", self.Values[p.Self], len(p.Args), len(p.Edges))
        }

        /* incoming blocks must exist */
        for _, e := range p.Edges {
            if !self.validBlock(e) {
                return self.malformed(nil, "PHI %s has a dangling incoming block #%d", self.Values[p.Self], e)
            }
        }

        /* operand layout of the kind */
        if err := self.checkOperands(p); err != nil {
            return err
        }
    }

    /* check every basic block */
    for _, bb := range self.Blocks {
        if len(bb.Ins) == 0 {
            return self.malformed(bb, "empty basic block")
        }

        /* check the instruction sequence */
        phi := true
        nb := len(bb.Ins)

        /* PHIs must come first, and only the last instruction may terminate */
        for j, id := range bb.Ins {
            if !self.validInstr(id) {
                return self.malformed(bb, "dangling instruction #%d", id)
            }

            /* fetch the instruction */
            p := self.Instrs[id]
            term := p.Kind.IsTerminator()

            /* check for instruction shape */
            switch {
                case p.Block != bb.Id          : return self.malformed(bb, "instruction %s belongs to another block", self.Format(id))
                case p.Kind == KindPhi && !phi : return self.malformed(bb, "PHI %s follows a non-PHI instruction", self.Values[p.Self])
                case term && j != nb - 1       : return self.malformed(bb, "terminator %s is not the last instruction", self.Format(id))
                case !term && j == nb - 1      : return self.malformed(bb, "missing terminator")
            }

            /* update the PHI flag */
            phi = phi && p.Kind == KindPhi
        }
    }
    return nil
}

func (self *Func) isLabel(v ValueID) bool {
    return self.Values[v].Class == ClassLabel
}

// checkOperands checks the operand count and label positions of the kinds
// that have a fixed layout. Operands must already be valid.
func (self *Func) checkOperands(p *Instr) error {
    var bb *Block
    na := len(p.Args)

    /* the owner block is checked later */
    if self.validBlock(p.Block) {
        bb = self.Blocks[p.Block]
    }

    /* only branching terminators may refer to blocks */
    if p.Kind.IsTerminator() && !p.Kind.HasSuccessors() {
        for _, a := range p.Args {
            if self.isLabel(a) {
                return self.malformed(bb, "%s refers to label %s", p.Mnemonic(), self.Values[a])
            }
        }
    }

    /* fixed layouts */
    switch p.Kind {
        case KindStore: {
            if na != 2 {
                return self.malformed(bb, "store #%d has %d operands, expected 2", p.Id, na)
            }
        }
        case KindBr: {
            if na != 1 || !self.isLabel(p.Args[0]) {
                return self.malformed(bb, "br #%d must have exactly one label operand", p.Id)
            }
        }
        case KindCondBr: {
            if na != 3 || self.isLabel(p.Args[0]) || !self.isLabel(p.Args[1]) || !self.isLabel(p.Args[2]) {
                return self.malformed(bb, "conditional br #%d must have a condition and two labels", p.Id)
            }
        }
        case KindSwitch: {
            if na < 2 || na % 2 != 0 || !self.isLabel(p.Args[1]) {
                return self.malformed(bb, "switch #%d must have a selector, a default label and case pairs", p.Id)
            }
        }
    }
    return nil
}

func (self *Func) checkEdges() error {
    for _, bb := range self.Blocks {
        for _, s := range bb.Succ {
            if !self.validBlock(s) {
                return self.malformed(bb, "dangling successor #%d", s)
            }
        }

        /* every PHI edge must come from an actual predecessor */
        for _, id := range bb.Ins {
            if p := self.Instrs[id]; p.Kind == KindPhi {
                for _, e := range p.Edges {
                    if !hasBlock(bb.Pred, e) {
                        return self.malformed(bb, "PHI %s has incoming block %s which is not a predecessor", self.Values[p.Self], self.BlockName(e))
                    }
                }
            }
        }
    }
    return nil
}

func (self *Func) link() {
    for _, bb := range self.Blocks {
        bb.Succ = bb.Succ[:0]
        bb.Pred = bb.Pred[:0]
    }

    /* successors are the labels referenced by branching terminators */
    for _, bb := range self.Blocks {
        p := self.Instrs[bb.Term()]
        if !p.Kind.HasSuccessors() {
            continue
        }
        for _, a := range p.Args {
            if v := self.Values[a]; v.Class == ClassLabel && !hasBlock(bb.Succ, v.Block) {
                bb.Succ = append(bb.Succ, v.Block)
                self.Blocks[v.Block].Pred = append(self.Blocks[v.Block].Pred, bb.Id)
            }
        }
    }
}

// Seal checks the shape of the function and derives the predecessor and
// successor relation of every block from the terminators. It must be called
// again after the function is modified.
func (self *Func) Seal() error {
    if err := self.checkShape(); err != nil {
        return err
    }

    /* build the CFG edges */
    self.link()
    self.sealed = true
    return self.checkEdges()
}

// Validate checks that a sealed function is well-formed without modifying it.
func (self *Func) Validate() error {
    if err := self.checkShape(); err != nil {
        return err
    } else if !self.sealed {
        return self.malformed(nil, "function is not sealed")
    } else {
        return self.checkEdges()
    }
}

// PostOrder returns the blocks reachable from the entry block in depth-first
// post order. Unreachable blocks are not included.
func (self *Func) PostOrder() []BlockID {
    nb := len(self.Blocks)
    ret := make([]BlockID, 0, nb)

    /* nothing to visit */
    if nb == 0 {
        return ret
    }

    /* start from the entry block */
    s := lane.NewStack()
    v := make([]bool, nb)
    v[0] = true
    s.Push(BlockID(0))

    /* scan until the stack is empty */
    for !s.Empty() {
        tail := true
        this := s.Head().(BlockID)

        /* descend into the first unvisited successor */
        for _, p := range self.Blocks[this].Succ {
            if !v[p] {
                tail = false
                v[p] = true
                s.Push(p)
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            ret = append(ret, s.Pop().(BlockID))
        }
    }
    return ret
}

func (self *Func) BlockName(b BlockID) string {
    return self.Values[self.Blocks[b].Label].String()
}

func (self *Func) operand(v ValueID) string {
    if p := self.Values[v]; p.Class == ClassLabel {
        return "label " + p.String()
    } else {
        return p.String()
    }
}

// Format returns the textual form of an instruction.
func (self *Func) Format(i InstrID) string {
    var sb strings.Builder
    p := self.Instrs[i]

    /* use the verbatim text if any */
    if p.Text != "" {
        return p.Text
    }

    /* value-producing instruction */
    if p.Typed {
        sb.WriteString(self.Values[p.Self].String())
        sb.WriteString(" = ")
    }

    /* returning nothing */
    sb.WriteString(p.Mnemonic())
    if p.Kind == KindReturn && len(p.Args) == 0 {
        sb.WriteString(" void")
        return sb.String()
    }

    /* dump the operands */
    for j, a := range p.Args {
        if j == 0 {
            sb.WriteByte(' ')
        } else {
            sb.WriteString(", ")
        }

        /* PHI operands are paired with their incoming blocks */
        if p.Kind == KindPhi {
            sb.WriteString(fmt.Sprintf("[%s, %s]", self.Values[a], self.BlockName(p.Edges[j])))
        } else {
            sb.WriteString(self.operand(a))
        }
    }
    return sb.String()
}

// FormatSet renders a value set in insertion order, like "{%a, %b}".
func (self *Func) FormatSet(s ValueSet) string {
    vv := s.Values()
    rs := make([]string, 0, len(vv))

    /* convert every value */
    for _, v := range vv {
        rs = append(rs, self.Values[v].String())
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}

func (self *Func) String() string {
    var pp []string
    var buf []string

    /* function header */
    for _, p := range self.Params {
        pp = append(pp, self.Values[p].String())
    }

    /* dump every block */
    buf = append(buf, fmt.Sprintf("func %s(%s) {", self.Name, strings.Join(pp, ", ")))
    for _, bb := range self.Blocks {
        buf = append(buf, strings.TrimPrefix(self.BlockName(bb.Id), "%") + ":")
        for _, id := range bb.Ins {
            buf = append(buf, "    " + self.Format(id))
        }
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}

func hasBlock(bb []BlockID, b BlockID) bool {
    for _, v := range bb {
        if v == b {
            return true
        }
    }
    return false
}
