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
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/livevar/ir`
)

func converge(t *testing.T, fn *ir.Func) *Engine {
    require.NoError(t, fn.Validate())
    e := NewEngine(fn, Classify(fn), ProgramOrder(fn))
    e.Run()
    return e
}

func set(vv ...ir.ValueID) ir.ValueSet {
    return ir.NewValueSet(vv...)
}

func assertSet(t *testing.T, fn *ir.Func, exp ir.ValueSet, act ir.ValueSet) {
    t.Helper()
    assert.True(t, exp.Equal(act), "expected %s, got %s", fn.FormatSet(exp), fn.FormatSet(act))
}

func TestEngine_StraightLine(t *testing.T) {
    b := ir.NewBuilder("straight")
    x := b.Param("%x")
    y := b.Param("%y")
    p := b.Param("%p")
    entry := b.Block("%entry")
    b.At(entry)
    a := b.Binary("%a", "add", x, y)
    st := b.Store(a, p)
    ret := b.Ret()
    fn, err := b.Build()
    require.NoError(t, err)

    e := converge(t, fn)
    assert.Equal(t, 2, e.Passes())
    assertSet(t, fn, set(), e.InstrOut(fn.Def(ret).Id))
    assertSet(t, fn, set(), e.InstrOut(fn.Def(st).Id))
    assert.Equal(t, []ir.ValueID{p, a}, e.Classifier().Gen(fn.Def(st).Id).Values())
    assertSet(t, fn, set(a, p), e.InstrOut(fn.Def(a).Id))
    assertSet(t, fn, set(x, y, p), e.InstrIn(fn.Def(a).Id))
    assertSet(t, fn, set(x, y, p), e.LiveIn(entry))
    assert.Equal(t, "{%p, %x, %y}", fn.FormatSet(e.LiveIn(entry)))
    assertSet(t, fn, set(), e.LiveOut(entry))
}

func buildDiamond(t *testing.T) (*ir.Func, map[string]ir.ValueID, []ir.BlockID) {
    b := ir.NewBuilder("diamond")
    c := b.Param("%c")
    x := b.Param("%x")
    b1 := b.Block("%b1")
    b2 := b.Block("%b2")
    b3 := b.Block("%b3")
    b4 := b.Block("%b4")
    b.At(b1).CondBr(c, b2, b3)
    v2 := b.At(b2).Binary("%v2", "add", x, b.Const("1"))
    b.Br(b4)
    v3 := b.At(b3).Binary("%v3", "sub", x, b.Const("1"))
    b.Br(b4)
    m := b.At(b4).Phi("%m")
    b.Incoming(m, v2, b2).Incoming(m, v3, b3)
    r := b.Binary("%r", "mul", m, x)
    b.Ret(r)
    fn, err := b.Build()
    require.NoError(t, err)
    return fn, map[string]ir.ValueID{"c": c, "x": x, "v2": v2, "v3": v3, "m": m, "r": r}, []ir.BlockID{b1, b2, b3, b4}
}

func TestEngine_DiamondPhi(t *testing.T) {
    fn, v, bb := buildDiamond(t)
    e := converge(t, fn)

    t2 := e.InstrOut(fn.Block(bb[1]).Term())
    t3 := e.InstrOut(fn.Block(bb[2]).Term())
    assert.True(t, t2.Has(v["v2"]))
    assert.False(t, t2.Has(v["v3"]))
    assert.True(t, t3.Has(v["v3"]))
    assert.False(t, t3.Has(v["v2"]))

    /* %x is used after the merge, so it flows along both edges */
    assert.True(t, t2.Has(v["x"]))
    assert.True(t, t3.Has(v["x"]))

    /* the block entry is conservative over every incoming edge */
    assertSet(t, fn, set(v["v2"], v["v3"], v["x"]), e.LiveIn(bb[3]))
    assertSet(t, fn, set(v["c"], v["x"]), e.LiveIn(bb[0]))
    assertSet(t, fn, set(v["x"]), e.LiveOut(bb[0]))
    assertSet(t, fn, set(v["m"], v["x"]), e.InstrOut(fn.Def(v["m"]).Id))
    assert.Equal(t, 3, e.Passes())
}

func TestEngine_LoopConverges(t *testing.T) {
    b := ir.NewBuilder("loop")
    init := b.Param("%init")
    n := b.Param("%n")
    entry := b.Block("%entry")
    loop := b.Block("%loop")
    exit := b.Block("%exit")
    b.At(entry).Br(loop)
    b.At(loop)
    i := b.Phi("%i")
    next := b.Binary("%next", "add", i, b.Const("1"))
    c := b.Compare("%c", "icmp slt", next, n)
    b.CondBr(c, loop, exit)
    b.Incoming(i, init, entry).Incoming(i, next, loop)
    b.At(exit).Ret(next)
    fn, err := b.Build()
    require.NoError(t, err)

    e := converge(t, fn)
    assert.LessOrEqual(t, e.Passes(), len(fn.Blocks) * len(fn.Values) + 1)
    assertSet(t, fn, set(init, next, n), e.LiveIn(loop))
    assertSet(t, fn, set(init, n), e.LiveIn(entry))
    assertSet(t, fn, set(next, n), e.Edge(loop, loop))
    assertSet(t, fn, set(init, n), e.Edge(loop, entry))
    assertSet(t, fn, set(next, n), e.LiveOut(loop))
}

func TestEngine_SelfReferentialPhi(t *testing.T) {
    b := ir.NewBuilder("selfphi")
    a := b.Param("%a")
    c := b.Param("%c")
    entry := b.Block("%entry")
    loop := b.Block("%loop")
    exit := b.Block("%exit")
    b.At(entry).Br(loop)
    b.At(loop)
    x := b.Phi("%x")
    b.Incoming(x, a, entry).Incoming(x, x, loop)
    b.CondBr(c, loop, exit)
    b.At(exit).Ret(x)
    fn, err := b.Build()
    require.NoError(t, err)

    e := converge(t, fn)
    phi := fn.Def(x).Id
    assert.True(t, e.Classifier().Gen(phi).Has(x))
    assert.True(t, e.Classifier().Kill(phi).Has(x))
    assert.True(t, e.InstrIn(phi).Has(x))
    assert.True(t, e.LiveIn(loop).Has(x))
    assert.True(t, e.LiveOut(loop).Has(x))
    assert.False(t, e.LiveIn(entry).Has(x))
    assertSet(t, fn, set(a, c), e.LiveIn(entry))
}

func TestEngine_Idempotent(t *testing.T) {
    fn, _, _ := buildDiamond(t)
    e := converge(t, fn)
    in := make([]ir.ValueSet, len(fn.Blocks))
    out := make([]ir.ValueSet, len(fn.Instrs))
    for i := range in { in[i] = e.LiveIn(ir.BlockID(i)).Clone() }
    for i := range out { out[i] = e.InstrOut(ir.InstrID(i)).Clone() }
    assert.Equal(t, 1, e.Run())
    for i := range in { assertSet(t, fn, in[i], e.LiveIn(ir.BlockID(i))) }
    for i := range out { assertSet(t, fn, out[i], e.InstrOut(ir.InstrID(i))) }
}

func TestEngine_Unreachable(t *testing.T) {
    b := ir.NewBuilder("dead")
    x := b.Param("%x")
    entry := b.Block("%entry")
    dead := b.Block("%dead")
    b.At(entry).Ret()
    b.At(dead).Ret(x)
    fn, err := b.Build()
    require.NoError(t, err)
    for _, order := range [][]ir.BlockID { ProgramOrder(fn), PostOrder(fn), SCCOrder(fn) } {
        require.Len(t, order, 2)
        e := NewEngine(fn, Classify(fn), order)
        e.Run()
        assertSet(t, fn, set(), e.LiveIn(entry))
        assertSet(t, fn, set(x), e.LiveIn(dead))
    }
}

func TestEngine_RejectsPartialOrder(t *testing.T) {
    fn, _, _ := buildDiamond(t)
    assert.Panics(t, func() { NewEngine(fn, Classify(fn), []ir.BlockID{0}) })
}
