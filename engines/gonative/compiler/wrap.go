package compiler

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"
)

const (
	// EvalFuncName is the exported zero-argument producer function declared
	// in every generated unit. The evaluator resolves it after loading the
	// built plugin.
	EvalFuncName = "Eval"

	// CtxVarName is the exported package-level variable in the generated
	// unit that receives runtime data before each run. Capitalized so the
	// plugin runtime can resolve the symbol.
	CtxVarName = "Ctx"
)

// wrapSource turns a raw snippet into a self-contained main package
// declaring the Eval producer. The snippet's leading import declarations
// are hoisted to file scope; the remaining lines become the function body
// unchanged, preserving their multi-line structure.
//
// Two snippet shapes are accepted: a single expression (its value is
// returned), or a statement list containing an explicit return.
func wrapSource(source string) ([]byte, error) {
	imports, body := splitImports(source)

	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: no code after import declarations", ErrWrapFailed)
	}

	var b strings.Builder
	b.WriteString("// Code generated at runtime; compiled and loaded as a plugin.\n")
	b.WriteString("package main\n\n")
	if imports != "" {
		b.WriteString(imports)
		b.WriteString("\n\n")
	}
	b.WriteString("// " + CtxVarName + " receives runtime data from the evaluator before " + EvalFuncName + " runs.\n")
	b.WriteString("var " + CtxVarName + " map[string]any\n\n")
	b.WriteString("// " + EvalFuncName + " produces the snippet's value.\n")
	b.WriteString("func " + EvalFuncName + "() any {\n")

	if _, exprErr := parser.ParseExpr(body); exprErr == nil {
		// expression form: its value is the result. The body is emitted as
		// the return operand directly, with no added delimiters: wrapping
		// it in parens would need a closing paren after the final line,
		// which a trailing line comment swallows and which semicolon
		// insertion rejects on a line of its own. Leading comment lines
		// move above the return so its first token shares the return line.
		lead, rest := splitLeadingComments(body)
		for _, line := range lead {
			b.WriteString("\t")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\treturn ")
		b.WriteString(rest)
		b.WriteString("\n")
	} else {
		if stmtErr := validateStatements(body); stmtErr != nil {
			return nil, fmt.Errorf(
				"%w: snippet is neither an expression (%v) nor a statement list (%v)",
				ErrWrapFailed, exprErr, stmtErr)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}

	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// splitLeadingComments peels the comment lines ahead of the body's first
// code line, dropping blanks between them.
func splitLeadingComments(body string) (comments []string, rest string) {
	lines := strings.Split(body, "\n")

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		comments = append(comments, trimmed)
		i++
	}

	return comments, strings.Join(lines[i:], "\n")
}

// validateStatements checks that the body parses as the statement list of
// a function. A missing return is left for the compiler to report.
func validateStatements(body string) error {
	src := "package main\nfunc _() any {\n" + body + "\n}"
	_, err := parser.ParseFile(token.NewFileSet(), "snippet.go", src, 0)
	return err
}

// splitImports separates the snippet's leading import declarations from the
// rest of the code. Only imports before the first non-import line are
// hoisted; blank lines between them are dropped, and comment lines that
// precede an import travel with it to file scope.
func splitImports(source string) (imports string, body string) {
	lines := strings.Split(source, "\n")
	var importLines []string

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "//"):
			if !importFollows(lines[i+1:]) {
				return strings.Join(importLines, "\n"), strings.Join(lines[i:], "\n")
			}
			importLines = append(importLines, lines[i])
			i++

		case strings.HasPrefix(trimmed, "import ("):
			for i < len(lines) {
				importLines = append(importLines, lines[i])
				closed := strings.TrimSpace(lines[i]) == ")"
				i++
				if closed {
					break
				}
			}

		case isImportLine(trimmed):
			importLines = append(importLines, lines[i])
			i++

		default:
			return strings.Join(importLines, "\n"), strings.Join(lines[i:], "\n")
		}
	}

	return strings.Join(importLines, "\n"), ""
}

func isImportLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "import ")
}

// importFollows reports whether the next line that is neither blank nor a
// comment is an import declaration. Comments ahead of the body stay with
// the body.
func importFollows(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		return isImportLine(trimmed)
	}
	return false
}
