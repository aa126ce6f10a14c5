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

// Strategy selects how the fixpoint is reached.
type Strategy uint8

const (
	StrategySweep Strategy = iota
	StrategyWorklist
)

var _StrategyNames = [...]string{
	StrategySweep:    "sweep",
	StrategyWorklist: "worklist",
}

func (self Strategy) String() string {
	if int(self) < len(_StrategyNames) {
		return _StrategyNames[self]
	} else {
		return "unknown"
	}
}

func ParseStrategy(s string) (Strategy, bool) {
	for i, v := range _StrategyNames {
		if v == s {
			return Strategy(i), true
		}
	}
	return 0, false
}

// Order selects the order blocks are visited within a pass.
type Order uint8

const (
	OrderProgram Order = iota
	OrderPostorder
	OrderSCC
)

var _OrderNames = [...]string{
	OrderProgram:   "program",
	OrderPostorder: "postorder",
	OrderSCC:       "scc",
}

func (self Order) String() string {
	if int(self) < len(_OrderNames) {
		return _OrderNames[self]
	} else {
		return "unknown"
	}
}

func ParseOrder(s string) (Order, bool) {
	for i, v := range _OrderNames {
		if v == s {
			return Order(i), true
		}
	}
	return 0, false
}

type Options struct {
	Strategy Strategy
	Order    Order
	Workers  int
	Debug    bool
}

func GetDefaultOptions() Options {
	return Options{
		Strategy: DefaultStrategy,
		Order:    DefaultOrder,
		Workers:  DefaultWorkers,
		Debug:    DefaultDebug,
	}
}
