package builtin

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CheckAST parses each file as Python source and reports the first parse
// error encountered. There is no Python grammar in this module's
// dependency surface, so "parsing" here means a bracket/string/indentation
// level tokenizer sufficient to catch the mistakes this hook exists to
// catch in practice: unbalanced brackets, unterminated strings, and
// indentation that doesn't land on a multiple of the file's own unit.
// It is not a full parser and won't catch every malformed Python file.
func CheckAST(files []string) (exitCode int, output string) {
	var problems []string

	for _, file := range files {
		if err := checkPythonSyntax(file); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file, err))
		}
	}

	if len(problems) > 0 {
		return 1, strings.Join(problems, "\n")
	}
	return 0, ""
}

type bracketFrame struct {
	char byte
	line int
}

func checkPythonSyntax(path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the hook's own file selection
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var brackets []bracketFrame
	var indentUnit int
	var openTripleQuote string // "" unless a triple-quoted string spans past end-of-line
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if openTripleQuote != "" {
			closed, rest := consumeTripleQuoteTail(line, openTripleQuote)
			if !closed {
				continue
			}
			openTripleQuote = ""
			line = rest
		}

		if err := checkIndentation(line, lineNo, &indentUnit, len(brackets)); err != nil {
			return err
		}

		unterminated, err := scanLineTokens(line, lineNo, &brackets)
		if err != nil {
			return err
		}
		openTripleQuote = unterminated
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	if len(brackets) > 0 {
		last := brackets[len(brackets)-1]
		return fmt.Errorf("line %d: unclosed %q opened here", last.line, string(last.char))
	}

	return nil
}

// consumeTripleQuoteTail looks for delim in line (continuing a
// triple-quoted string opened on a previous line). Returns whether it was
// found and, if so, the remainder of the line after the closing delim.
func consumeTripleQuoteTail(line, delim string) (closed bool, rest string) {
	idx := strings.Index(line, delim)
	if idx < 0 {
		return false, ""
	}
	return true, line[idx+len(delim):]
}

// checkIndentation rejects a leading-whitespace width that isn't a
// multiple of the first nonzero indent the file established, a cheap
// proxy for Python's "unindent does not match any outer indentation
// level" error. Skipped while inside an open bracket, since continuation
// lines there aren't governed by the indentation rules at all.
func checkIndentation(line string, lineNo int, indentUnit *int, openBrackets int) error {
	if openBrackets > 0 {
		return nil
	}

	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	width := len(line) - len(trimmed)
	if width == 0 {
		return nil
	}

	if *indentUnit == 0 {
		*indentUnit = width
		return nil
	}

	if width%*indentUnit != 0 {
		return fmt.Errorf("line %d: inconsistent indentation (%d spaces, unit is %d)", lineNo, width, *indentUnit)
	}

	return nil
}

// scanLineTokens walks one line character by character, skipping over
// comments and string literals, and updates the bracket stack for any
// bracket characters found in real code. If the line ends inside a
// triple-quoted string, the triple-quote delimiter is returned so the
// caller can keep suppressing bracket/indentation checks on the lines
// that follow until it closes.
func scanLineTokens(line string, lineNo int, brackets *[]bracketFrame) (openTripleQuote string, err error) {
	i := 0
	for i < len(line) {
		c := line[i]

		switch {
		case c == '#':
			return "", nil // rest of line is a comment
		case c == '\'' || c == '"':
			consumed, unterminatedDelim, err := skipStringLiteral(line, i, lineNo)
			if err != nil {
				return "", err
			}
			if unterminatedDelim != "" {
				return unterminatedDelim, nil
			}
			i += consumed
			continue
		case c == '(' || c == '[' || c == '{':
			*brackets = append(*brackets, bracketFrame{char: c, line: lineNo})
		case c == ')' || c == ']' || c == '}':
			if err := popBracket(brackets, c, lineNo); err != nil {
				return "", err
			}
		}
		i++
	}
	return "", nil
}

func popBracket(brackets *[]bracketFrame, closing byte, lineNo int) error {
	if len(*brackets) == 0 {
		return fmt.Errorf("line %d: unmatched closing %q", lineNo, string(closing))
	}

	want := map[byte]byte{')': '(', ']': '[', '}': '{'}[closing]
	top := (*brackets)[len(*brackets)-1]
	if top.char != want {
		return fmt.Errorf("line %d: closing %q does not match %q opened on line %d",
			lineNo, string(closing), string(top.char), top.line)
	}

	*brackets = (*brackets)[:len(*brackets)-1]
	return nil
}

// skipStringLiteral returns the number of bytes to advance past a string
// literal (triple- or single-quoted) starting at line[start]. If a
// triple-quoted string isn't closed before end-of-line, its delimiter is
// returned in unterminatedDelim so the caller can keep suppressing checks
// until a later line closes it; a single-quoted string left open is a
// real syntax error.
func skipStringLiteral(line string, start int, lineNo int) (consumed int, unterminatedDelim string, err error) {
	quote := line[start]
	triple := strings.HasPrefix(line[start:], strings.Repeat(string(quote), 3))
	delim := string(quote)
	if triple {
		delim = strings.Repeat(string(quote), 3)
	}

	i := start + len(delim)
	for i < len(line) {
		if line[i] == '\\' && i+1 < len(line) {
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], delim) {
			return i + len(delim) - start, "", nil
		}
		i++
	}

	if triple {
		return 0, delim, nil
	}

	return 0, "", fmt.Errorf("line %d: unterminated string literal", lineNo)
}
