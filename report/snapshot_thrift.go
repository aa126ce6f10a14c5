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
    `fmt`

    `github.com/apache/thrift/lib/go/thrift`
)

func writeString(p thrift.TProtocol, id int16, name string, v string) error {
    if err := p.WriteFieldBegin(name, thrift.STRING, id); err != nil {
        return err
    } else if err = p.WriteString(v); err != nil {
        return err
    } else {
        return p.WriteFieldEnd()
    }
}

func writeI32(p thrift.TProtocol, id int16, name string, v int32) error {
    if err := p.WriteFieldBegin(name, thrift.I32, id); err != nil {
        return err
    } else if err = p.WriteI32(v); err != nil {
        return err
    } else {
        return p.WriteFieldEnd()
    }
}

func writeStrings(p thrift.TProtocol, id int16, name string, vv []string) error {
    if err := p.WriteFieldBegin(name, thrift.LIST, id); err != nil {
        return err
    } else if err = p.WriteListBegin(thrift.STRING, len(vv)); err != nil {
        return err
    }
    for _, v := range vv {
        if err := p.WriteString(v); err != nil {
            return err
        }
    }
    if err := p.WriteListEnd(); err != nil {
        return err
    } else {
        return p.WriteFieldEnd()
    }
}

func readStrings(p thrift.TProtocol) ([]string, error) {
    et, n, err := p.ReadListBegin()
    if err != nil {
        return nil, err
    } else if et != thrift.STRING {
        return nil, thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA, fmt.Errorf("list of %s is not a list of strings", et))
    }

    /* read every element */
    ret := make([]string, 0, n)
    for i := 0; i < n; i++ {
        if v, err := p.ReadString(); err != nil {
            return nil, err
        } else {
            ret = append(ret, v)
        }
    }
    return ret, p.ReadListEnd()
}

// readStruct reads the fields of a struct one by one until the stop marker,
// skipping the fields that field does not handle.
func readStruct(p thrift.TProtocol, field func(id int16, tt thrift.TType) (bool, error)) error {
    if _, err := p.ReadStructBegin(); err != nil {
        return err
    }

    /* read every field */
    for {
        _, tt, id, err := p.ReadFieldBegin()
        if err != nil {
            return err
        } else if tt == thrift.STOP {
            break
        }

        /* unknown fields are skipped */
        if ok, err := field(id, tt); err != nil {
            return err
        } else if !ok {
            if err = p.Skip(tt); err != nil {
                return err
            }
        }

        /* end of this field */
        if err = p.ReadFieldEnd(); err != nil {
            return err
        }
    }
    return p.ReadStructEnd()
}

func (self *BlockState) Write(p thrift.TProtocol) error {
    if err := p.WriteStructBegin("BlockState"); err != nil {
        return err
    } else if err = writeString(p, 1, "label", self.Label); err != nil {
        return err
    } else if err = writeStrings(p, 2, "live_in", self.LiveIn); err != nil {
        return err
    } else if err = writeStrings(p, 3, "live_out", self.LiveOut); err != nil {
        return err
    } else if err = p.WriteFieldStop(); err != nil {
        return err
    } else {
        return p.WriteStructEnd()
    }
}

func (self *BlockState) Read(p thrift.TProtocol) error {
    return readStruct(p, func(id int16, tt thrift.TType) (ok bool, err error) {
        switch {
            case id == 1 && tt == thrift.STRING : self.Label, err = p.ReadString()
            case id == 2 && tt == thrift.LIST   : self.LiveIn, err = readStrings(p)
            case id == 3 && tt == thrift.LIST   : self.LiveOut, err = readStrings(p)
            default                             : return false, nil
        }
        return true, err
    })
}

func (self *InstrState) Write(p thrift.TProtocol) error {
    if err := p.WriteStructBegin("InstrState"); err != nil {
        return err
    } else if err = writeI32(p, 1, "block", self.Block); err != nil {
        return err
    } else if err = writeString(p, 2, "text", self.Text); err != nil {
        return err
    } else if err = writeStrings(p, 3, "live_in", self.LiveIn); err != nil {
        return err
    } else if err = writeStrings(p, 4, "live_out", self.LiveOut); err != nil {
        return err
    } else if err = p.WriteFieldStop(); err != nil {
        return err
    } else {
        return p.WriteStructEnd()
    }
}

func (self *InstrState) Read(p thrift.TProtocol) error {
    return readStruct(p, func(id int16, tt thrift.TType) (ok bool, err error) {
        switch {
            case id == 1 && tt == thrift.I32    : self.Block, err = p.ReadI32()
            case id == 2 && tt == thrift.STRING : self.Text, err = p.ReadString()
            case id == 3 && tt == thrift.LIST   : self.LiveIn, err = readStrings(p)
            case id == 4 && tt == thrift.LIST   : self.LiveOut, err = readStrings(p)
            default                             : return false, nil
        }
        return true, err
    })
}

func (self *Snapshot) Write(p thrift.TProtocol) error {
    if err := p.WriteStructBegin("Snapshot"); err != nil {
        return err
    } else if err = writeString(p, 1, "func", self.Func); err != nil {
        return err
    }

    /* blocks */
    if err := p.WriteFieldBegin("blocks", thrift.LIST, 2); err != nil {
        return err
    } else if err = p.WriteListBegin(thrift.STRUCT, len(self.Blocks)); err != nil {
        return err
    }
    for _, b := range self.Blocks {
        if err := b.Write(p); err != nil {
            return err
        }
    }
    if err := p.WriteListEnd(); err != nil {
        return err
    } else if err = p.WriteFieldEnd(); err != nil {
        return err
    }

    /* instructions */
    if err := p.WriteFieldBegin("instrs", thrift.LIST, 3); err != nil {
        return err
    } else if err = p.WriteListBegin(thrift.STRUCT, len(self.Instrs)); err != nil {
        return err
    }
    for _, v := range self.Instrs {
        if err := v.Write(p); err != nil {
            return err
        }
    }
    if err := p.WriteListEnd(); err != nil {
        return err
    } else if err = p.WriteFieldEnd(); err != nil {
        return err
    }

    /* end of struct */
    if err := p.WriteFieldStop(); err != nil {
        return err
    } else {
        return p.WriteStructEnd()
    }
}

func (self *Snapshot) Read(p thrift.TProtocol) error {
    return readStruct(p, func(id int16, tt thrift.TType) (ok bool, err error) {
        switch {
            case id == 1 && tt == thrift.STRING : self.Func, err = p.ReadString()
            case id == 2 && tt == thrift.LIST   : err = self.readBlocks(p)
            case id == 3 && tt == thrift.LIST   : err = self.readInstrs(p)
            default                             : return false, nil
        }
        return true, err
    })
}

func (self *Snapshot) readBlocks(p thrift.TProtocol) error {
    _, n, err := p.ReadListBegin()
    if err != nil {
        return err
    }

    /* read every block */
    self.Blocks = make([]*BlockState, n)
    for i := range self.Blocks {
        self.Blocks[i] = new(BlockState)
        if err = self.Blocks[i].Read(p); err != nil {
            return err
        }
    }
    return p.ReadListEnd()
}

func (self *Snapshot) readInstrs(p thrift.TProtocol) error {
    _, n, err := p.ReadListBegin()
    if err != nil {
        return err
    }

    /* read every instruction */
    self.Instrs = make([]*InstrState, n)
    for i := range self.Instrs {
        self.Instrs[i] = new(InstrState)
        if err = self.Instrs[i].Read(p); err != nil {
            return err
        }
    }
    return p.ReadListEnd()
}
