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
    `fmt`
    `html`
    `io`
    `strings`

    `github.com/oleiade/lane`

    `github.com/cloudwego/livevar/ir`
)

func dotLine(s string) string {
    return fmt.Sprintf(
        "<tr><td align=\"left\">%s</td></tr>",
        strings.ReplaceAll(html.EscapeString(s), " ", "&nbsp;"),
    )
}

func dotBlock(lv Liveness, bb *ir.Block) string {
    fn := lv.Func()
    buf := []string {
        `<table border="1" cellborder="0" cellspacing="0">`,
        fmt.Sprintf(`<tr><td align="left"><b>%s</b></td></tr>`, html.EscapeString(fn.BlockName(bb.Id))),
        fmt.Sprintf(`<tr><td align="left"><font color="gray">in: %s</font></td></tr>`, html.EscapeString(fn.FormatSet(lv.LiveIn(bb.Id)))),
    }

    /* every instruction with the values live after it */
    for _, id := range bb.Ins {
        buf = append(buf, dotLine(fn.Format(id)))
        buf = append(buf, fmt.Sprintf(`<tr><td align="right"><font color="gray">%s</font></td></tr>`, html.EscapeString(fn.FormatSet(lv.InstrLiveOut(id)))))
    }

    /* close the table */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// WriteDot renders the CFG in Graphviz DOT format. Every block lists its
// instructions with their live-out sets, and every edge is labeled with the
// values live along it.
func WriteDot(w io.Writer, lv Liveness) error {
    fn := lv.Func()
    q := lane.NewQueue()
    seen := make([]bool, len(fn.Blocks))
    buf := []string {
        fmt.Sprintf("digraph %q {", fn.Name),
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize = "14" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
    }

    /* breadth-first from the entry, then the unreachable blocks */
    if len(fn.Blocks) != 0 {
        seen[0] = true
        q.Enqueue(ir.BlockID(0))
        buf = append(buf, "    START -> bb_0")
    }

    /* visit every block */
    for next := 1; !q.Empty(); {
        p := fn.Block(q.Dequeue().(ir.BlockID))
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, p.Id, dotBlock(lv, p)))

        /* edges to the successors */
        for _, s := range p.Succ {
            buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = %q ]`, p.Id, s, fn.FormatSet(lv.EdgeLive(p.Id, s))))
            if !seen[s] {
                seen[s] = true
                q.Enqueue(s)
            }
        }

        /* pick the next unvisited block if the reachable ones are done */
        for ; q.Empty() && next < len(fn.Blocks); next++ {
            if !seen[next] {
                seen[next] = true
                q.Enqueue(ir.BlockID(next))
            }
        }
    }

    /* write all at once */
    buf = append(buf, "}\n")
    _, err := io.WriteString(w, strings.Join(buf, "\n"))
    return err
}
