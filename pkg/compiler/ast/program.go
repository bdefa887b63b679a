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
package ast

import (
	"strings"

	"github.com/consensys/go-tinyc/pkg/util/source"
)

// Program is an ordered sequence of statements, each being a single top-level
// expression.
type Program struct {
	Statements []Expr
	// Mapping of expressions back to the source file.
	SourceMap *source.Map[Expr]
}

func (p *Program) String() string {
	var builder strings.Builder
	//
	for _, stmt := range p.Statements {
		builder.WriteString(stmt.String())
		builder.WriteString(";\n")
	}
	//
	return builder.String()
}
