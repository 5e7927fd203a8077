package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Severity classifies a toolchain diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one message reported by the toolchain, tied back to a
// position in the generated source where one was given.
type Diagnostic struct {
	File     string
	Line     int
	Col      int
	Message  string
	Severity Severity
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	if d.Col > 0 {
		return fmt.Sprintf("%s: %s:%d:%d: %s", d.Severity, d.File, d.Line, d.Col, d.Message)
	}
	return fmt.Sprintf("%s: %s:%d: %s", d.Severity, d.File, d.Line, d.Message)
}

// CompileError reports a failed build, carrying every diagnostic the
// toolchain emitted so callers can present or log the full list.
type CompileError struct {
	Unit        string
	Diagnostics []Diagnostic
	Output      string
}

func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("compilation of unit %s failed", e.Unit)
	}
	first := e.Diagnostics[0]
	if len(e.Diagnostics) == 1 {
		return fmt.Sprintf("compilation of unit %s failed: %s", e.Unit, first)
	}
	return fmt.Sprintf("compilation of unit %s failed: %s (and %d more)",
		e.Unit, first, len(e.Diagnostics)-1)
}

// Unwrap makes the error match ErrCompileFailed with errors.Is.
func (e *CompileError) Unwrap() error {
	return ErrCompileFailed
}

// positionRe matches the `file.go:line:col: message` form the go toolchain
// uses for compile and vet findings. The column is optional.
var positionRe = regexp.MustCompile(`^(.*?\.go):(\d+)(?::(\d+))?:\s*(.*)$`)

// parseDiagnostics converts raw toolchain output into structured
// diagnostics. Package headers (lines starting with "#") are dropped, and
// indented continuation lines are folded into the preceding diagnostic.
func parseDiagnostics(output []byte, sev Severity) []Diagnostic {
	var diags []Diagnostic

	for line := range strings.Lines(string(output)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := positionRe.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			col := 0
			if m[3] != "" {
				col, _ = strconv.Atoi(m[3])
			}
			diags = append(diags, Diagnostic{
				File:     m[1],
				Line:     lineNo,
				Col:      col,
				Message:  m[4],
				Severity: sev,
			})
			continue
		}

		if strings.HasPrefix(line, "\t") && len(diags) > 0 {
			diags[len(diags)-1].Message += "\n" + strings.TrimPrefix(line, "\t")
			continue
		}

		diags = append(diags, Diagnostic{Message: line, Severity: sev})
	}

	return diags
}
