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
package backend

import (
	"fmt"
	"strings"
)

type target struct {
	name    string
	aliases []string
	factory func() Backend
}

var targets = []target{
	{"amd64", []string{"x86_64", "x86-64"}, NewAmd64},
	{"arm64", []string{"aarch64"}, NewArm64},
}

// Lookup constructs a fresh backend for the target with the given name (or
// alias).  Names are case-insensitive.
func Lookup(name string) (Backend, error) {
	if t, ok := find(name); ok {
		return t.factory(), nil
	}
	//
	return nil, fmt.Errorf("unknown target %q (expected one of %s)", name, strings.Join(Targets(), ", "))
}

// Canonical returns the canonical name of the target with the given name (or
// alias).
func Canonical(name string) (string, bool) {
	if t, ok := find(name); ok {
		return t.name, true
	}
	//
	return "", false
}

// Targets returns the canonical names of all supported targets.
func Targets() []string {
	var names = make([]string, len(targets))
	//
	for i, t := range targets {
		names[i] = t.name
	}
	//
	return names
}

func find(name string) (target, bool) {
	name = strings.ToLower(name)
	//
	for _, t := range targets {
		if t.name == name {
			return t, true
		}
		//
		for _, alias := range t.aliases {
			if alias == name {
				return t, true
			}
		}
	}
	//
	return target{}, false
}
