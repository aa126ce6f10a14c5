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
    `context`
    `fmt`
    `reflect`
    `sort`

    `github.com/apache/thrift/lib/go/thrift`
    `github.com/pkg/errors`

    `github.com/cloudwego/livevar/ir`
)

// BlockState is the liveness at the boundaries of one block.
type BlockState struct {
    Label   string
    LiveIn  []string
    LiveOut []string
}

// InstrState is the liveness around one instruction.
type InstrState struct {
    Block   int32
    Text    string
    LiveIn  []string
    LiveOut []string
}

// Snapshot is a self-contained copy of the liveness of a function. Sets are
// stored sorted by name, so snapshots taken with different strategies or
// block orders compare equal.
type Snapshot struct {
    Func   string
    Blocks []*BlockState
    Instrs []*InstrState
}

func sortedNames(fn *ir.Func, s ir.ValueSet) []string {
    ret := make([]string, 0, s.Len())
    for _, v := range s.Values() {
        ret = append(ret, fn.Values[v].String())
    }
    sort.Strings(ret)
    return ret
}

// TakeSnapshot copies the liveness of a function.
func TakeSnapshot(lv Liveness) *Snapshot {
    fn := lv.Func()
    ret := &Snapshot {
        Func   : fn.Name,
        Blocks : make([]*BlockState, 0, len(fn.Blocks)),
        Instrs : make([]*InstrState, 0, len(fn.Instrs)),
    }

    /* every block, with its instructions */
    for _, bb := range fn.Blocks {
        ret.Blocks = append(ret.Blocks, &BlockState {
            Label   : fn.BlockName(bb.Id),
            LiveIn  : sortedNames(fn, lv.LiveIn(bb.Id)),
            LiveOut : sortedNames(fn, lv.LiveOut(bb.Id)),
        })
        for _, id := range bb.Ins {
            ret.Instrs = append(ret.Instrs, &InstrState {
                Block   : int32(bb.Id),
                Text    : fn.Format(id),
                LiveIn  : sortedNames(fn, lv.InstrLiveIn(id)),
                LiveOut : sortedNames(fn, lv.InstrLiveOut(id)),
            })
        }
    }
    return ret
}

// Diff lists every point where two snapshots disagree, or nothing if they
// are the same.
func (self *Snapshot) Diff(rs *Snapshot) []string {
    var ret []string
    if self.Func != rs.Func {
        ret = append(ret, fmt.Sprintf("function: %s != %s", self.Func, rs.Func))
    }

    /* the shape must match before comparing the sets */
    if len(self.Blocks) != len(rs.Blocks) || len(self.Instrs) != len(rs.Instrs) {
        return append(ret, fmt.Sprintf(
            "shape: %d blocks, %d instructions != %d blocks, %d instructions",
            len(self.Blocks), len(self.Instrs), len(rs.Blocks), len(rs.Instrs),
        ))
    }

    /* block boundaries */
    for i, b := range self.Blocks {
        if !reflect.DeepEqual(b.LiveIn, rs.Blocks[i].LiveIn) {
            ret = append(ret, fmt.Sprintf("block %s: live in %v != %v", b.Label, b.LiveIn, rs.Blocks[i].LiveIn))
        }
        if !reflect.DeepEqual(b.LiveOut, rs.Blocks[i].LiveOut) {
            ret = append(ret, fmt.Sprintf("block %s: live out %v != %v", b.Label, b.LiveOut, rs.Blocks[i].LiveOut))
        }
    }

    /* every instruction */
    for i, p := range self.Instrs {
        if !reflect.DeepEqual(p.LiveIn, rs.Instrs[i].LiveIn) {
            ret = append(ret, fmt.Sprintf("%s: live in %v != %v", p.Text, p.LiveIn, rs.Instrs[i].LiveIn))
        }
        if !reflect.DeepEqual(p.LiveOut, rs.Instrs[i].LiveOut) {
            ret = append(ret, fmt.Sprintf("%s: live out %v != %v", p.Text, p.LiveOut, rs.Instrs[i].LiveOut))
        }
    }
    return ret
}

// Encode serializes the snapshot with the Thrift binary protocol.
func Encode(s *Snapshot) ([]byte, error) {
    mm := thrift.NewTMemoryBuffer()
    pp := thrift.NewTBinaryProtocolTransport(mm)

    /* write the struct */
    if err := s.Write(pp); err != nil {
        return nil, errors.Wrap(err, "cannot encode snapshot")
    } else if err = pp.Flush(context.Background()); err != nil {
        return nil, errors.Wrap(err, "cannot encode snapshot")
    } else {
        return mm.Bytes(), nil
    }
}

// Decode parses a snapshot produced by Encode.
func Decode(buf []byte) (*Snapshot, error) {
    ret := new(Snapshot)
    mm := thrift.NewTMemoryBuffer()

    /* load the buffer */
    if _, err := mm.Write(buf); err != nil {
        return nil, errors.Wrap(err, "cannot decode snapshot")
    }

    /* read the struct */
    if err := ret.Read(thrift.NewTBinaryProtocolTransport(mm)); err != nil {
        return nil, errors.Wrap(err, "cannot decode snapshot")
    } else {
        return ret, nil
    }
}
