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
    `io`

    `github.com/davecgh/go-spew/spew`

    `github.com/cloudwego/livevar/ir`
)

var _DumpConfig = spew.ConfigState {
    Indent                : "    ",
    SortKeys              : true,
    DisableCapacities     : true,
    DisablePointerMethods : true,
}

type _BlockState struct {
    In  []string
    Out []string
}

func (self *Engine) names(s ir.ValueSet) []string {
    vv := s.Values()
    ret := make([]string, 0, len(vv))
    for _, v := range vv { ret = append(ret, self.fn.Values[v].String()) }
    return ret
}

// Dump writes the current live-in and live-out set of every block.
func (self *Engine) Dump(w io.Writer) {
    st := make(map[string]_BlockState, len(self.fn.Blocks))
    for _, bb := range self.fn.Blocks {
        st[self.fn.BlockName(bb.Id)] = _BlockState {
            In  : self.names(self.entry[bb.Id]),
            Out : self.names(self.exit[bb.Id]),
        }
    }
    _DumpConfig.Fdump(w, self.fn.Name, st)
}
