// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag collects the errors and warnings reported to shader authors
// and holds the structured logger shared by the translator packages.
package diag

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ir"
)

// SourceLoc is a position in the shader source.
type SourceLoc = ir.SourceLoc

// Severity of a diagnostic record.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Record is one reported problem.
type Record struct {
	Severity Severity
	Loc      SourceLoc
	Message  string
	Token    string
}

func (r Record) String() string {
	if r.Token == "" {
		return fmt.Sprintf("%s: %s: %s", r.Severity, r.Loc, r.Message)
	}
	return fmt.Sprintf("%s: %s: '%s' : %s", r.Severity, r.Loc, r.Token, r.Message)
}

// Diagnostics accumulates records for one compilation. The zero value is
// ready to use.
type Diagnostics struct {
	records  []Record
	errors   int
	warnings int
}

// Error reports an error at loc. token is the offending source text and
// may be empty.
func (d *Diagnostics) Error(loc SourceLoc, message, token string) {
	d.records = append(d.records, Record{Severity: SeverityError, Loc: loc, Message: message, Token: token})
	d.errors++
}

// Warning reports a warning at loc.
func (d *Diagnostics) Warning(loc SourceLoc, message, token string) {
	d.records = append(d.records, Record{Severity: SeverityWarning, Loc: loc, Message: message, Token: token})
	d.warnings++
}

// NumErrors returns the number of errors reported so far.
func (d *Diagnostics) NumErrors() int { return d.errors }

// NumWarnings returns the number of warnings reported so far.
func (d *Diagnostics) NumWarnings() int { return d.warnings }

// Records returns the reported records in order.
func (d *Diagnostics) Records() []Record { return d.records }

// Format returns every record, one per line.
func (d *Diagnostics) Format() string {
	var b strings.Builder
	for _, r := range d.records {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Reset discards all records.
func (d *Diagnostics) Reset() {
	d.records = nil
	d.errors = 0
	d.warnings = 0
}
