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


// Package gossa converts functions of Go source code, in the SSA form built by
// golang.org/x/tools/go/ssa, into liveness IR.
package gossa

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Load parses and type-checks a single Go source file, and returns every
// function with a body declared in it, sorted by name. The src argument
// follows the rules of parser.ParseFile: if nil, the file is read from disk.
func Load(filename string, src interface{}) ([]*ssa.Function, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)

	/* check for parsing errors */
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", filename)
	}

	/* build the SSA form of the package */
	tc := &types.Config{Importer: importer.Default()}
	tp := types.NewPackage(file.Name.Name, "")
	pkg, _, err := ssautil.BuildPackage(tc, fset, tp, []*ast.File{file}, ssa.SanityCheckFunctions)

	/* check for type errors */
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build SSA for %s", filename)
	}

	/* only the functions of this package that have a body */
	var ret []*ssa.Function
	for fn := range ssautil.AllFunctions(pkg.Prog) {
		if fn.Pkg == pkg && len(fn.Blocks) != 0 {
			ret = append(ret, fn)
		}
	}

	/* keep the output stable */
	sort.Slice(ret, func(i int, j int) bool {
		return ret[i].String() < ret[j].String()
	})
	return ret, nil
}
