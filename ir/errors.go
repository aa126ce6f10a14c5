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


package ir

import (
    `fmt`
)

// MalformedError is returned when a function violates the structural
// preconditions of the analysis, such as a block without a terminator.
type MalformedError struct {
    Func   string
    Block  string
    Reason string
}

func (self *MalformedError) Error() string {
    if self.Block == "" {
        return fmt.Sprintf("malformed function %s: %s", self.Func, self.Reason)
    } else {
        return fmt.Sprintf("malformed function %s at block %s: %s", self.Func, self.Block, self.Reason)
    }
}
