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


// Package report renders the liveness of a function as text, Graphviz DOT or
// an SVG live range chart, and stores it as a binary snapshot.
package report

import (
    `fmt`
    `io`
    `strings`

    `github.com/cloudwego/livevar/ir`
)

// Liveness is the converged liveness of one function.
type Liveness interface {
    Func() *ir.Func
    LiveIn(bb ir.BlockID) ir.ValueSet
    LiveOut(bb ir.BlockID) ir.ValueSet
    InstrLiveIn(i ir.InstrID) ir.ValueSet
    InstrLiveOut(i ir.InstrID) ir.ValueSet
    EdgeLive(pred ir.BlockID, succ ir.BlockID) ir.ValueSet
}

// WriteText prints every block in program order: the block label, then the
// values live after each instruction followed by the instruction itself, and
// finally the values live on entry to the block.
//
//     BB: %entry
//     {%p, %a}
//       %a = add %x, %y
//     ...
//     {%p, %x, %y}
//
func WriteText(w io.Writer, lv Liveness) error {
    var sb strings.Builder
    fn := lv.Func()

    /* dump every block */
    for _, bb := range fn.Blocks {
        sb.WriteString("BB: " + fn.BlockName(bb.Id) + "\n")
        for _, id := range bb.Ins {
            sb.WriteString(fn.FormatSet(lv.InstrLiveOut(id)) + "\n")
            sb.WriteString("  " + fn.Format(id) + "\n")
        }
        sb.WriteString(fn.FormatSet(lv.LiveIn(bb.Id)) + "\n")
    }

    /* write all at once */
    _, err := io.WriteString(w, sb.String())
    return err
}

// Text returns the text report as a string.
func Text(lv Liveness) string {
    var sb strings.Builder
    if err := WriteText(&sb, lv); err != nil {
        panic(fmt.Sprintf("report: cannot write text: %v", err))
    }
    return sb.String()
}
