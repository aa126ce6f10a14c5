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
    `fmt`
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/livevar/ir`
)

// randomFunc builds an arbitrary well-formed CFG. Operands are picked from
// every value of the function regardless of dominance, liveness does not
// care whether the program is a valid SSA program.
func randomFunc(f *gofakeit.Faker, name string) *ir.Func {
    b := ir.NewBuilder(name)
    nb := f.Number(1, 8)
    np := f.Number(1, 3)
    pool := make([]ir.ValueID, 0, 32)
    consts := []ir.ValueID { b.Const("0"), b.Const("1") }

    /* parameters */
    for i := 0; i < np; i++ {
        pool = append(pool, b.Param(fmt.Sprintf("%%a%d", i)))
    }

    /* blocks, and the successors of each one */
    bbs := make([]ir.BlockID, nb)
    succ := make([][]ir.BlockID, nb)
    pred := make([][]ir.BlockID, nb)
    for i := range bbs {
        bbs[i] = b.Block(fmt.Sprintf("%%bb%d", i))
    }

    /* pick the terminators first, so PHIs know their predecessors */
    for i := range bbs {
        switch f.Number(0, 3) {
            case 0: break
            case 1: succ[i] = []ir.BlockID { bbs[f.Number(0, nb - 1)] }
            default: succ[i] = []ir.BlockID { bbs[f.Number(0, nb - 1)], bbs[f.Number(0, nb - 1)] }
        }
        for _, s := range succ[i] {
            if !contains(pred[s], bbs[i]) {
                pred[s] = append(pred[s], bbs[i])
            }
        }
    }

    /* emit instructions with placeholder operands */
    var phis []ir.ValueID
    var body []ir.ValueID
    for i, bb := range bbs {
        b.At(bb)

        /* PHIs only make sense with predecessors */
        if len(pred[i]) != 0 {
            for n := f.Number(0, 2); n > 0; n-- {
                v := b.Phi("")
                phis = append(phis, v)
                pool = append(pool, v)
            }
        }

        /* straight-line body */
        for n := f.Number(0, 5); n > 0; n-- {
            var v ir.ValueID
            switch f.Number(0, 5) {
                case 0  : v = b.Store(consts[0], consts[0])
                case 1  : v = b.Alloca("")
                case 2  : v = b.Load("", consts[0])
                case 3  : v = b.Call("", f.Bool(), consts[0], consts[0])
                case 4  : v = b.Fence()
                default : v = b.Binary("", "add", consts[0], consts[0])
            }
            body = append(body, v)
            if fn := b.Func(); fn.Def(v).Typed {
                pool = append(pool, v)
            }
        }

        /* terminator */
        switch len(succ[i]) {
            case 0  : body = append(body, b.Ret(consts[0]))
            case 1  : body = append(body, b.Br(succ[i][0]))
            default : body = append(body, b.CondBr(consts[0], succ[i][0], succ[i][1]))
        }
    }

    /* fill in the operands */
    fn := b.Func()
    pick := func() ir.ValueID {
        if f.Number(0, 5) == 0 {
            return consts[f.Number(0, 1)]
        } else {
            return pool[f.Number(0, len(pool) - 1)]
        }
    }

    /* PHI operands come from every predecessor */
    for _, v := range phis {
        p := fn.Def(v)
        for _, e := range pred[p.Block] {
            b.Incoming(v, pick(), e)
        }
    }

    /* replace the placeholders, keep the labels */
    for _, v := range body {
        p := fn.Def(v)
        for j, a := range p.Args {
            if fn.Value(a).Class != ir.ClassLabel {
                p.Args[j] = pick()
            }
        }
    }

    /* seal the function */
    if err := fn.Seal(); err != nil {
        panic(err)
    }
    return fn
}

func contains(bb []ir.BlockID, b ir.BlockID) bool {
    for _, v := range bb {
        if v == b {
            return true
        }
    }
    return false
}

func snapshot(e *Engine) []ir.ValueSet {
    fn := e.Func()
    ret := make([]ir.ValueSet, 0, len(fn.Blocks) + len(fn.Instrs))
    for i := range fn.Blocks { ret = append(ret, e.LiveIn(ir.BlockID(i)).Clone()) }
    for i := range fn.Instrs { ret = append(ret, e.InstrOut(ir.InstrID(i)).Clone()) }
    return ret
}

func checkEquations(t *testing.T, e *Engine) {
    fn := e.Func()
    cls := e.Classifier()

    for _, bb := range fn.Blocks {
        var exit ir.ValueSet
        for _, s := range bb.Succ {
            exit.Union(e.Edge(s, bb.Id))
        }

        /* block boundaries */
        require.True(t, exit.Equal(e.InstrOut(bb.Term())), "exit of %s", fn.BlockName(bb.Id))
        require.True(t, e.LiveIn(bb.Id).Equal(e.InstrIn(bb.Ins[0])), "entry of %s", fn.BlockName(bb.Id))

        /* every instruction */
        for j, id := range bb.Ins {
            in, out := e.InstrIn(id), e.InstrOut(id)
            if j != len(bb.Ins) - 1 {
                require.True(t, out.Equal(e.InstrIn(bb.Ins[j + 1])))
            }

            /* gen is always live before the instruction */
            require.True(t, cls.Gen(id).SubsetOf(in), "gen of %s", fn.Format(id))

            /* killed values are dead before it, unless also generated */
            for _, v := range cls.Kill(id).Values() {
                require.False(t, in.Has(v) && !cls.Gen(id).Has(v), "kill of %s", fn.Format(id))
            }

            /* nothing untracked is ever live */
            for _, v := range in.Values() {
                require.True(t, fn.Value(v).Tracked())
            }
        }
    }
}

func TestEngine_RandomProperties(t *testing.T) {
    f := gofakeit.New(20221019)
    for n := 0; n < 200; n++ {
        fn := randomFunc(f, fmt.Sprintf("rand%d", n))
        require.NoError(t, fn.Validate(), fn.String())

        /* record every pass to check monotonicity */
        var prev []ir.ValueSet
        e := NewEngine(fn, Classify(fn), ProgramOrder(fn))
        e.OnPass(func(pass int, changed int) {
            cur := snapshot(e)
            for i := range prev {
                require.True(t, prev[i].SubsetOf(cur[i]), "pass %d is not monotone:\n%s", pass, fn)
            }
            prev = cur
        })

        /* termination bound */
        e.Run()
        require.LessOrEqual(t, e.Passes(), len(fn.Blocks) * len(fn.Values) + 1)
        checkEquations(t, e)

        /* every strategy and order reaches the same fixpoint */
        exp := snapshot(e)
        for _, order := range [][]ir.BlockID { PostOrder(fn), SCCOrder(fn), ProgramOrder(fn) } {
            for _, wl := range []bool { false, true } {
                x := NewEngine(fn, Classify(fn), order)
                if wl {
                    x.RunWorklist()
                } else {
                    x.Run()
                }
                act := snapshot(x)
                for i := range exp {
                    require.True(t, exp[i].Equal(act[i]), "order %v, worklist %v:\n%s\n%s", order, wl, fn, spew.Sdump(exp[i].Values(), act[i].Values()))
                }
            }
        }

        /* a converged engine stays converged */
        require.Equal(t, 1, e.Run())
        act := snapshot(e)
        for i := range exp {
            require.True(t, exp[i].Equal(act[i]))
        }
    }
}
