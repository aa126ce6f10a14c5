// Copyright 2022 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/livevar"
	"github.com/cloudwego/livevar/ir"
)

const testSource = `package p

func add(x, y int) int {
	return x + y
}
`

func TestOptions(t *testing.T) {
	Strategy, Order, Workers = "worklist", "scc", 2
	o, err := options()
	require.NoError(t, err)
	assert.Len(t, o, 4)

	Strategy = "bogus"
	_, err = options()
	assert.Error(t, err)
	Strategy = "sweep"

	Order = "bogus"
	_, err = options()
	assert.Error(t, err)
	Order = "program"
}

func TestMatches(t *testing.T) {
	defer func() { FuncName = "" }()
	FuncName = "add"
	assert.True(t, matches(&ir.Func{Name: "p.add"}))
	assert.True(t, matches(&ir.Func{Name: "add"}))
	assert.False(t, matches(&ir.Func{Name: "p.madd"}))
}

func TestLoad_GoSource(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "p.go")
	require.NoError(t, ioutil.WriteFile(fp, []byte(testSource), 0644))

	fns, err := load(fp)
	require.NoError(t, err)
	require.NotEmpty(t, fns)

	_, err = load(filepath.Join(t.TempDir(), "p.txt"))
	assert.Error(t, err)
}

func TestWrite_Formats(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "p.go")
	require.NoError(t, ioutil.WriteFile(fp, []byte(testSource), 0644))
	fns, err := load(fp)
	require.NoError(t, err)

	var add *ir.Func
	for _, fn := range fns {
		if fn.Name == "p.add" {
			add = fn
		}
	}
	require.NotNil(t, add)
	res, err := livevar.Analyze(add)
	require.NoError(t, err)

	defer func() { Format = "text" }()
	for _, f := range []string{"text", "dot", "svg", "snapshot"} {
		var buf bytes.Buffer
		Format = f
		require.NoError(t, write(&buf, res), f)
		assert.NotZero(t, buf.Len(), f)
	}

	Format = "pdf"
	assert.Error(t, write(&bytes.Buffer{}, res))
}
