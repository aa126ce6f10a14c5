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


package opts

import (
	"os"
	"strconv"
)

const (
	_DefaultWorkers = 4 // parallel functions in AnalyzeAll
)

var (
	DefaultStrategy = parseStrategy("LIVEVAR_STRATEGY", StrategySweep)
	DefaultOrder    = parseOrder("LIVEVAR_ORDER", OrderProgram)
	DefaultWorkers  = parseOrDefault("LIVEVAR_WORKERS", _DefaultWorkers, 1)
	DefaultDebug    = parseBool("LIVEVAR_DEBUG")
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("livevar: invalid value for " + key)
	} else if ret := int(val); ret < min {
		panic("livevar: value too small for " + key)
	} else {
		return ret
	}
}

func parseBool(key string) bool {
	if env := os.Getenv(key); env == "" {
		return false
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("livevar: invalid value for " + key)
	} else {
		return val
	}
}

func parseStrategy(key string, def Strategy) Strategy {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, ok := ParseStrategy(env); !ok {
		panic("livevar: invalid value for " + key)
	} else {
		return val
	}
}

func parseOrder(key string, def Order) Order {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, ok := ParseOrder(env); !ok {
		panic("livevar: invalid value for " + key)
	} else {
		return val
	}
}
