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


// Package llvmir converts LLVM IR functions, textual (.ll) or bitcode (.bc),
// into liveness IR.
package llvmir

import (
	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"
)

// Module is a parsed LLVM module. It must be closed after use.
type Module struct {
	ctx llvm.Context
	mod llvm.Module
}

// LoadFile parses an LLVM IR file, either textual or bitcode.
func LoadFile(path string) (*Module, error) {
	buf, err := llvm.NewMemoryBufferFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}

	/* the parser takes the ownership of the buffer */
	ctx := llvm.NewContext()
	mod, err := ctx.ParseIR(buf)

	/* check for parsing errors */
	if err != nil {
		ctx.Dispose()
		return nil, errors.Wrapf(err, "cannot parse %s", path)
	}
	return &Module{ctx: ctx, mod: mod}, nil
}

// Functions returns every function defined in the module, declarations are
// skipped.
func (self *Module) Functions() []llvm.Value {
	var ret []llvm.Value
	for fn := self.mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.BasicBlocksCount() != 0 {
			ret = append(ret, fn)
		}
	}
	return ret
}

// Close releases the module and its context.
func (self *Module) Close() {
	self.mod.Dispose()
	self.ctx.Dispose()
}
