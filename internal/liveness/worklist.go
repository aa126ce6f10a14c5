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
    `github.com/oleiade/lane`

    `github.com/cloudwego/livevar/ir`
)

// RunWorklist converges the engine with a worklist instead of full passes:
// only the predecessors of a block that changed are revisited. It reaches the
// same fixpoint as Run, and returns the number of block visits.
func (self *Engine) RunWorklist() int {
    n := 0
    nc := 0
    q := lane.NewQueue()
    queued := make([]bool, len(self.fn.Blocks))

    /* seed with every block */
    for _, id := range self.order {
        queued[id] = true
        q.Enqueue(id)
    }

    /* drain the queue */
    for !q.Empty() {
        id := q.Dequeue().(ir.BlockID)
        bb := self.fn.Blocks[id]
        queued[id] = false

        /* nothing changed, predecessors are not affected */
        if n++; !self.compute(bb) {
            continue
        }

        /* revisit the predecessors */
        nc++
        for _, p := range bb.Pred {
            if !queued[p] {
                queued[p] = true
                q.Enqueue(p)
            }
        }
    }

    /* account as a single pass */
    self.passes++
    if self.trace != nil {
        self.trace(self.passes, nc)
    }
    return n
}
