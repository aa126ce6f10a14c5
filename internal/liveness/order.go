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


package liveness

import (
    `sort`

    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/topo`

    `github.com/cloudwego/livevar/ir`
)

// ProgramOrder visits the blocks in the order they appear in the function.
func ProgramOrder(fn *ir.Func) []ir.BlockID {
    ret := make([]ir.BlockID, len(fn.Blocks))
    for i := range ret { ret[i] = ir.BlockID(i) }
    return ret
}

// PostOrder visits successors before their predecessors where possible,
// which suits a backward analysis. Unreachable blocks come last, in program
// order.
func PostOrder(fn *ir.Func) []ir.BlockID {
    return complete(fn, fn.PostOrder())
}

// SCCOrder visits the strongly connected components of the CFG in reverse
// topological order, so every loop is entered only after all the blocks it
// flows into.
func SCCOrder(fn *ir.Func) []ir.BlockID {
    g := simple.NewDirectedGraph()
    ret := make([]ir.BlockID, 0, len(fn.Blocks))

    /* add every block as a node */
    for _, bb := range fn.Blocks {
        g.AddNode(simple.Node(bb.Id))
    }

    /* add every edge, self loops do not affect the ordering */
    for _, bb := range fn.Blocks {
        for _, s := range bb.Succ {
            if s != bb.Id {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(s)))
            }
        }
    }

    /* components come sinks first, blocks inside one go backwards */
    for _, scc := range topo.TarjanSCC(g) {
        ids := make([]ir.BlockID, 0, len(scc))
        for _, n := range scc {
            ids = append(ids, ir.BlockID(n.ID()))
        }

        /* sort within the component for a stable order */
        sort.Slice(ids, func(i int, j int) bool {
            return ids[i] > ids[j]
        })

        /* add to the order */
        ret = append(ret, ids...)
    }
    return ret
}

func complete(fn *ir.Func, order []ir.BlockID) []ir.BlockID {
    seen := make([]bool, len(fn.Blocks))
    for _, id := range order {
        seen[id] = true
    }

    /* append the blocks that were not reached */
    for i, ok := range seen {
        if !ok {
            order = append(order, ir.BlockID(i))
        }
    }
    return order
}
