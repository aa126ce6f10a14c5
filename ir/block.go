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

// Block is a basic block: a straight-line run of instructions ending in
// exactly one terminator. Succ is derived from the label operands of the
// terminator, Pred is the inverse relation; both are filled by Func.Seal.
type Block struct {
    Id    BlockID
    Label ValueID
    Ins   []InstrID
    Succ  []BlockID
    Pred  []BlockID
}

// Term returns the last instruction of the block, or NoInstr if the block is empty.
func (self *Block) Term() InstrID {
    if n := len(self.Ins); n == 0 {
        return NoInstr
    } else {
        return self.Ins[n - 1]
    }
}
