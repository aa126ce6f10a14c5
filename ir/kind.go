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

// Kind is the closed set of instruction categories the analysis knows about.
type Kind uint8

const (
    KindUnknown Kind = iota
    KindBinary
    KindCompare
    KindLoad
    KindStore
    KindAddress
    KindConvert
    KindAggregate
    KindCall
    KindPhi
    KindAlloca
    KindAtomic
    KindSelect
    KindLandingPad
    KindVAArg
    KindFence
    KindBr
    KindCondBr
    KindSwitch
    KindIndirectBr
    KindReturn
    KindInvoke
    KindResume
    KindUnreachable
)

var _KindNames = [...]string {
    KindUnknown     : "unknown",
    KindBinary      : "binary",
    KindCompare     : "cmp",
    KindLoad        : "load",
    KindStore       : "store",
    KindAddress     : "getelementptr",
    KindConvert     : "cast",
    KindAggregate   : "aggregate",
    KindCall        : "call",
    KindPhi         : "phi",
    KindAlloca      : "alloca",
    KindAtomic      : "atomicrmw",
    KindSelect      : "select",
    KindLandingPad  : "landingpad",
    KindVAArg       : "va_arg",
    KindFence       : "fence",
    KindBr          : "br",
    KindCondBr      : "br",
    KindSwitch      : "switch",
    KindIndirectBr  : "indirectbr",
    KindReturn      : "ret",
    KindInvoke      : "invoke",
    KindResume      : "resume",
    KindUnreachable : "unreachable",
}

func (self Kind) String() string {
    if int(self) < len(_KindNames) {
        return _KindNames[self]
    } else {
        return fmt.Sprintf("Kind(%d)", self)
    }
}

// IsTerminator reports whether instructions of this kind end a basic block.
func (self Kind) IsTerminator() bool {
    return self >= KindBr && self <= KindUnreachable
}

// HasSuccessors reports whether the label operands of instructions of this
// kind are control flow edges. Other terminators leave the function.
func (self Kind) HasSuccessors() bool {
    switch self {
        case KindBr, KindCondBr, KindSwitch, KindIndirectBr, KindInvoke : return true
        default                                                        : return false
    }
}
