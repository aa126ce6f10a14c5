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

// Instr is a single instruction inside a basic block. Args lists the operands
// in the order the instruction reads them; for PHIs, Edges holds the incoming
// block of every operand, index by index.
type Instr struct {
    Id    InstrID
    Kind  Kind
    Op    string
    Args  []ValueID
    Edges []BlockID
    Self  ValueID
    Typed bool
    Block BlockID
    Text  string
}

// Mnemonic returns the printed opcode of the instruction.
func (self *Instr) Mnemonic() string {
    if self.Op != "" {
        return self.Op
    } else {
        return self.Kind.String()
    }
}

// Incoming returns the operands of a PHI flowing in from block bb.
func (self *Instr) Incoming(bb BlockID) (r []ValueID) {
    for i, e := range self.Edges {
        if e == bb {
            r = append(r, self.Args[i])
        }
    }
    return
}
