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

// Command livevar prints the live variables of every function in Go source
// files or LLVM IR modules.
//
//	livevar [-format text|dot|svg|snapshot] [-func name] file.go|file.ll|file.bc ...
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudwego/livevar"
	"github.com/cloudwego/livevar/frontend/gossa"
	"github.com/cloudwego/livevar/frontend/llvmir"
	"github.com/cloudwego/livevar/internal/opts"
	"github.com/cloudwego/livevar/ir"
	"github.com/cloudwego/livevar/report"
)

var (
	Format   string
	FuncName string
	Strategy string
	Order    string
	Workers  int
	Debug    bool
)

func init() {
	flag.StringVar(&Format, "format", "text", "output format: text, dot, svg or snapshot")
	flag.StringVar(&FuncName, "func", "", "only analyze the function with this name")
	flag.StringVar(&Strategy, "strategy", opts.DefaultStrategy.String(), "fixpoint strategy: sweep or worklist")
	flag.StringVar(&Order, "order", opts.DefaultOrder.String(), "block order: program, postorder or scc")
	flag.IntVar(&Workers, "j", opts.DefaultWorkers, "number of functions analyzed in parallel")
	flag.BoolVar(&Debug, "debug", opts.DefaultDebug, "trace every pass to stderr")
}

func options() ([]livevar.Option, error) {
	s, ok := opts.ParseStrategy(Strategy)
	if !ok {
		return nil, errors.Errorf("invalid strategy: %s", Strategy)
	}
	o, ok := opts.ParseOrder(Order)
	if !ok {
		return nil, errors.Errorf("invalid block order: %s", Order)
	}
	if Workers < 1 {
		return nil, errors.Errorf("invalid worker count: %d", Workers)
	}
	return []livevar.Option{
		livevar.WithStrategy(s),
		livevar.WithOrder(o),
		livevar.WithWorkers(Workers),
		livevar.WithDebug(Debug),
	}, nil
}

func load(fp string) ([]*ir.Func, error) {
	switch filepath.Ext(fp) {
	case ".go":
		fns, err := gossa.Load(fp, nil)
		if err != nil {
			return nil, err
		}
		return gossa.ConvertAll(fns)
	case ".ll", ".bc":
		m, err := llvmir.LoadFile(fp)
		if err != nil {
			return nil, err
		}
		defer m.Close()
		return llvmir.ConvertModule(m)
	default:
		return nil, errors.Errorf("unknown file type: %s", fp)
	}
}

func matches(fn *ir.Func) bool {
	return FuncName == "" || fn.Name == FuncName || strings.HasSuffix(fn.Name, "."+FuncName)
}

func write(w io.Writer, res *livevar.Result) error {
	switch Format {
	case "text":
		if _, err := fmt.Fprintf(w, "; function %s, %d passes\n", res.Func().Name, res.Passes()); err != nil {
			return err
		}
		return report.WriteText(w, res)
	case "dot":
		return report.WriteDot(w, res)
	case "svg":
		return report.WriteSVG(w, res)
	case "snapshot":
		buf, err := report.Encode(report.TakeSnapshot(res))
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	default:
		return errors.Errorf("unknown output format: %s", Format)
	}
}

func run(files []string) error {
	var fns []*ir.Func
	for _, fp := range files {
		all, err := load(fp)
		if err != nil {
			return err
		}
		for _, fn := range all {
			if matches(fn) {
				fns = append(fns, fn)
			}
		}
	}

	if len(fns) == 0 {
		return errors.New("no function to analyze")
	}

	o, err := options()
	if err != nil {
		return err
	}
	res, err := livevar.AnalyzeAll(fns, o...)
	if err != nil {
		return err
	}

	// print in the same order the functions were found
	w := bufio.NewWriter(os.Stdout)
	for _, r := range res {
		if err = write(w, r); err != nil {
			return errors.Wrapf(err, "cannot write %s", r.Func().Name)
		}
	}
	return w.Flush()
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Args()); err != nil {
		log.Fatalln(err)
	}
}
