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


package report

import (
    `io`

    `github.com/ajstarks/svgo`

    `github.com/cloudwego/livevar/ir`
)

const (
    _RowHeight = 24
    _CharWidth = 9
    _Margin    = 100
)

const (
    _StyleLabel = "fill:gray;font-size:16px;font-family:monospace"
    _StyleInstr = "fill:black;font-size:16px;font-family:monospace;text-anchor:end"
    _StyleValue = "fill:black;font-size:16px;font-family:monospace;text-anchor:middle"
)

type _ErrWriter struct {
    w   io.Writer
    err error
}

func (self *_ErrWriter) Write(b []byte) (int, error) {
    if self.err != nil {
        return 0, self.err
    }
    n, err := self.w.Write(b)
    self.err = err
    return n, err
}

type _Row struct {
    y  int
    id ir.InstrID
}

// WriteSVG draws the live ranges of every tracked value: one row per
// instruction, one column per value. A filled dot marks an instruction the
// value is live before, a hollow dot marks its definition.
func WriteSVG(w io.Writer, lv Liveness) error {
    fn := lv.Func()
    maxi := 0
    maxw := 0
    rows := make([]_Row, 0, len(fn.Instrs))
    cols := make([]ir.ValueID, 0, len(fn.Values))
    used := make([]bool, len(fn.Values))

    /* measure the instructions, and find every value that is ever live */
    for _, p := range fn.Instrs {
        if n := len(fn.Format(p.Id)); n > maxi {
            maxi = n
        }
        for _, v := range lv.InstrLiveIn(p.Id).Values() { used[v] = true }
        for _, v := range lv.InstrLiveOut(p.Id).Values() { used[v] = true }
    }

    /* columns in value order */
    for v, ok := range used {
        if ok {
            cols = append(cols, ir.ValueID(v))
            if n := len(fn.Values[v].String()); n > maxw {
                maxw = n
            }
        }
    }

    /* geometry */
    nr := len(fn.Blocks) + len(fn.Instrs)
    insw := maxi * _CharWidth + 120
    valw := (maxw + 1) * 8 + 16
    ew := &_ErrWriter { w: w }
    p := svg.New(ew)

    /* blocks and instructions */
    p.Start(len(cols) * valw + insw + _Margin, nr * _RowHeight + _Margin)
    p.Rect(0, 0, len(cols) * valw + insw + _Margin, nr * _RowHeight + _Margin, "fill:white")
    for i, bb := range fn.Blocks {
        y := _Margin + len(rows) * _RowHeight + i * _RowHeight
        p.Text(16, y, fn.BlockName(bb.Id), _StyleLabel)
        p.Line(10, y - 16, insw + 5, y - 16, "stroke:lightgray")

        /* one row per instruction */
        for _, id := range bb.Ins {
            y += _RowHeight
            rows = append(rows, _Row { y: y - 5, id: id })
            p.Text(insw, y, fn.Format(id), _StyleInstr)
            p.Line(insw + 10, y - 5, len(cols) * valw + insw + 50, y - 5, "stroke:gray")
        }
    }

    /* one column per value */
    for i, v := range cols {
        x := insw + i * valw + 50
        y0, y1 := -1, -1
        p.Text(x, 70, fn.Values[v].String(), _StyleValue)

        /* mark every point the value is live at */
        for _, r := range rows {
            def := fn.Instrs[r.id].Self == v && fn.Instrs[r.id].Typed
            if lv.InstrLiveIn(r.id).Has(v) {
                p.Circle(x, r.y, 4, "fill:black;stroke:black;stroke-width:2")
            } else if def && lv.InstrLiveOut(r.id).Has(v) {
                p.Circle(x, r.y, 4, "fill:white;stroke:black;stroke-width:2")
            } else {
                continue
            }

            /* track the extent of the range */
            if y1 = r.y; y0 < 0 {
                y0 = r.y
            }
        }

        /* the range itself */
        if y0 >= 0 {
            p.Line(x, y0, x, y1, "stroke:black;stroke-width:3")
        }
    }

    /* all done */
    p.End()
    return ew.err
}
