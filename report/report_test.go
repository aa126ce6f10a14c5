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
    `bytes`
    `strings`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/livevar`
    `github.com/cloudwego/livevar/ir`
)

func analyze(t *testing.T, fn *ir.Func, opts ...livevar.Option) Liveness {
    res, err := livevar.Analyze(fn, opts...)
    require.NoError(t, err)
    return res
}

func buildStraight(t *testing.T) *ir.Func {
    b := ir.NewBuilder("straight")
    x := b.Param("%x")
    y := b.Param("%y")
    p := b.Param("%p")
    b.At(b.Block("%entry"))
    a := b.Binary("%a", "add", x, y)
    b.Store(a, p)
    b.Ret()
    fn, err := b.Build()
    require.NoError(t, err)
    return fn
}

func buildDiamond(t *testing.T) *ir.Func {
    b := ir.NewBuilder("diamond")
    x := b.Param("%x")
    c := b.Param("%c")
    b1 := b.Block("%b1")
    b2 := b.Block("%b2")
    b3 := b.Block("%b3")
    b4 := b.Block("%b4")
    dead := b.Block("%dead")
    b.At(b1).CondBr(c, b2, b3)
    v2 := b.At(b2).Binary("%v2", "add", x, b.Const("1"))
    b.Br(b4)
    v3 := b.At(b3).Binary("%v3", "sub", x, b.Const("1"))
    b.Br(b4)
    m := b.At(b4).Phi("%m")
    b.Ret(m)
    b.Incoming(m, v2, b2).Incoming(m, v3, b3)
    b.At(dead).Unreachable()
    fn, err := b.Build()
    require.NoError(t, err)
    return fn
}

func TestText_StraightLine(t *testing.T) {
    exp := strings.Join([]string {
        "BB: %entry",
        "{%p, %a}",
        "  %a = add %x, %y",
        "{}",
        "  store %a, %p",
        "{}",
        "  ret void",
        "{%p, %x, %y}",
        "",
    }, "\n")
    assert.Equal(t, exp, Text(analyze(t, buildStraight(t))))
}

func TestText_EveryBlock(t *testing.T) {
    out := Text(analyze(t, buildDiamond(t)))
    assert.Equal(t, 5, strings.Count(out, "BB: "))
    assert.Contains(t, out, "BB: %b4\n{%m}\n  %m = phi [%v2, %b2], [%v3, %b3]\n")
    assert.Contains(t, out, "  ret %m\n{%v2, %v3}\n")
}

func TestDot_Diamond(t *testing.T) {
    var buf bytes.Buffer
    require.NoError(t, WriteDot(&buf, analyze(t, buildDiamond(t))))

    out := buf.String()
    assert.True(t, strings.HasPrefix(out, `digraph "diamond" {`))
    assert.Contains(t, out, "START -> bb_0")
    assert.Contains(t, out, `bb_1 -> bb_3 [ label = "{%v2}" ]`)
    assert.Contains(t, out, `bb_2 -> bb_3 [ label = "{%v3}" ]`)
    assert.Contains(t, out, `bb_0 -> bb_1 [ label = "{%x}" ]`)

    /* unreachable blocks are drawn too */
    assert.Contains(t, out, "bb_4 [ label = <")
    assert.Equal(t, 5, strings.Count(out, "[ label = <"))
}

func TestSVG_LiveRanges(t *testing.T) {
    var buf bytes.Buffer
    require.NoError(t, WriteSVG(&buf, analyze(t, buildStraight(t))))

    out := buf.String()
    assert.Contains(t, out, "<svg")
    assert.Contains(t, out, "</svg>")
    assert.Contains(t, out, "%a = add %x, %y")

    /* one column per value */
    for _, v := range []string { "%x", "%y", "%p", "%a" } {
        assert.Contains(t, out, ">" + v + "</text>")
    }

    /* block separator, instruction rows, then value ranges */
    assert.Equal(t, 1 + 3 + 4, strings.Count(out, "<line"))
    assert.Equal(t, 6, strings.Count(out, "<circle"))
    assert.Equal(t, 1, strings.Count(out, "fill:white;stroke:black"))
}

func TestSnapshot_RoundTrip(t *testing.T) {
    fn := buildDiamond(t)
    exp := TakeSnapshot(analyze(t, fn))
    buf, err := Encode(exp)
    require.NoError(t, err)

    /* decode it back */
    act, err := Decode(buf)
    require.NoError(t, err)
    assert.Equal(t, exp, act)
    assert.Empty(t, exp.Diff(act))
}

func TestSnapshot_StrategiesAgree(t *testing.T) {
    fn := buildDiamond(t)
    exp := TakeSnapshot(analyze(t, fn))
    act := TakeSnapshot(analyze(t, fn, livevar.WithStrategy(livevar.Worklist), livevar.WithOrder(livevar.SCCOrder)))
    assert.Empty(t, exp.Diff(act))
}

func TestSnapshot_Diff(t *testing.T) {
    exp := TakeSnapshot(analyze(t, buildDiamond(t)))
    act := TakeSnapshot(analyze(t, buildDiamond(t)))
    act.Blocks[3].LiveIn = []string { "%v2" }
    act.Instrs[0].LiveOut = nil
    assert.Len(t, exp.Diff(act), 2)

    /* different shapes are reported at once */
    act = TakeSnapshot(analyze(t, buildStraight(t)))
    assert.Len(t, exp.Diff(act), 2)
}

func TestDecode_Garbage(t *testing.T) {
    _, err := Decode([]byte { 0x0f, 0x00, 0x02, 0x0b })
    assert.Error(t, err)
}
