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
    `github.com/willf/bitset`
)

// ValueSet is a set of values that remembers insertion order. Membership is
// kept in a bitset indexed by ValueID, so equality never depends on order.
// The zero value is an empty set ready to use.
type ValueSet struct {
    m *bitset.BitSet
    v []ValueID
}

func NewValueSet(vv ...ValueID) (rs ValueSet) {
    for _, v := range vv { rs.Add(v) }
    return
}

func (self *ValueSet) Add(v ValueID) bool {
    if v < 0 {
        panic("ir: invalid value ID in set")
    } else if self.Has(v) {
        return false
    }

    /* lazily allocate the membership bits */
    if self.m == nil {
        self.m = bitset.New(uint(v) + 1)
    }

    /* add to both the index and the order */
    self.m.Set(uint(v))
    self.v = append(self.v, v)
    return true
}

func (self *ValueSet) Remove(v ValueID) bool {
    if !self.Has(v) {
        return false
    }

    /* clear the bit, then splice it out while keeping the order */
    self.m.Clear(uint(v))
    for i, x := range self.v {
        if x == v {
            self.v = append(self.v[:i], self.v[i + 1:]...)
            break
        }
    }
    return true
}

// Union adds every element of rs, and reports whether anything was added.
func (self *ValueSet) Union(rs ValueSet) (changed bool) {
    for _, v := range rs.v {
        if self.Add(v) {
            changed = true
        }
    }
    return
}

func (self ValueSet) Has(v ValueID) bool {
    return v >= 0 && self.m != nil && self.m.Test(uint(v))
}

func (self ValueSet) Len() int {
    return len(self.v)
}

// Values returns the elements in insertion order. The slice must not be modified.
func (self ValueSet) Values() []ValueID {
    return self.v
}

func (self ValueSet) Clone() (rs ValueSet) {
    if self.m != nil {
        rs.m = self.m.Clone()
        rs.v = append(make([]ValueID, 0, len(self.v)), self.v...)
    }
    return
}

// SubsetOf reports whether every element of the set is also in rs.
func (self ValueSet) SubsetOf(rs ValueSet) bool {
    if len(self.v) == 0 {
        return true
    } else if len(self.v) > len(rs.v) {
        return false
    } else {
        return rs.m.IsSuperSet(self.m)
    }
}

// Equal compares the members of both sets, ignoring the insertion order.
func (self ValueSet) Equal(rs ValueSet) bool {
    return len(self.v) == len(rs.v) && self.SubsetOf(rs)
}
