// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lexer

// Context holds the state shared by every phase of a single compilation.  At
// the moment this is just the identifier table, which assigns each distinct
// identifier a memory slot at a fixed offset below the frame base.  Slots are
// handed out in order of first appearance, and the table only ever grows.
type Context struct {
	// Size (in bytes) of a single slot.
	wordSize uint
	// Identifier names in order of first appearance.
	names []string
	// Slot offset for each known identifier.
	offsets map[string]uint
}

// NewContext constructs an empty compilation context whose slots are a given
// number of bytes apart.
func NewContext(wordSize uint) *Context {
	if wordSize == 0 {
		panic("word size must be positive")
	}
	//
	return &Context{wordSize, nil, make(map[string]uint)}
}

// WordSize returns the number of bytes between consecutive slots.
func (c *Context) WordSize() uint {
	return c.wordSize
}

// ResolveOffset returns the slot offset of a given identifier.  An identifier
// not seen before is allocated the next slot, at (n+1)*wordSize where n is the
// number of identifiers already known.
func (c *Context) ResolveOffset(name string) uint {
	if offset, ok := c.offsets[name]; ok {
		return offset
	}
	//
	offset := uint(len(c.names)+1) * c.wordSize
	c.names = append(c.names, name)
	c.offsets[name] = offset
	//
	return offset
}

// Lookup returns the slot offset of a known identifier, without allocating.
func (c *Context) Lookup(name string) (uint, bool) {
	offset, ok := c.offsets[name]
	return offset, ok
}

// IdentifierCount returns the number of distinct identifiers seen so far.
func (c *Context) IdentifierCount() uint {
	return uint(len(c.names))
}

// Identifiers returns the known identifiers in order of first appearance.
func (c *Context) Identifiers() []string {
	return append([]string(nil), c.names...)
}
