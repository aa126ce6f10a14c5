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


package livevar

import (
	"fmt"
)

// FunctionError occurs when one of the functions passed to AnalyzeAll could
// not be analyzed.
type FunctionError struct {
	Func  string
	Index int
	Err   error
}

func (self FunctionError) Error() string {
	return fmt.Sprintf("function #%d (%s): %s", self.Index, self.Func, self.Err)
}

func (self FunctionError) Unwrap() error {
	return self.Err
}
