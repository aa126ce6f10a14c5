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

type (
    ValueID int
    InstrID int
    BlockID int
)

const (
    NoValue ValueID = -1
    NoInstr InstrID = -1
    NoBlock BlockID = -1
)

// Class tells where a Value comes from.
type Class uint8

const (
    ClassParam Class = iota
    ClassConst
    ClassGlobal
    ClassLabel
    ClassInstr
)

var _ClassNames = [...]string {
    ClassParam  : "param",
    ClassConst  : "const",
    ClassGlobal : "global",
    ClassLabel  : "label",
    ClassInstr  : "instr",
}

func (self Class) String() string {
    if int(self) < len(_ClassNames) {
        return _ClassNames[self]
    } else {
        return fmt.Sprintf("Class(%d)", self)
    }
}

// Value is a uniquely identified datum of a function. It is either defined by
// exactly one instruction, or comes from outside of the function.
type Value struct {
    Id    ValueID
    Name  string
    Class Class
    Block BlockID
    Instr InstrID
}

// Tracked reports whether the value carries a runtime identity that liveness
// cares about. Constants, globals (link-time constant addresses) and block
// labels are never tracked.
func (self *Value) Tracked() bool {
    switch self.Class {
        case ClassParam, ClassInstr : return true
        default                     : return false
    }
}

func (self *Value) String() string {
    if self.Name != "" {
        return self.Name
    } else {
        return fmt.Sprintf("%%v%d", self.Id)
    }
}
