// Package fieldcode preprocesses document templates whose placeholders are
// field codes delimited by << and >>. Word editing habitually splits a code's
// text across several runs, which breaks placeholder substitution; the fixes
// here consolidate each code into the run holding its opening mark and then
// shift codes to run starts, without ever creating new runs.
package fieldcode

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	openMark  = "<<"
	closeMark = ">>"
)

var (
	markRe = regexp.MustCompile(`<<|>>`)
	codeRe = regexp.MustCompile(`<<([^<>]+)>>`)
)

// contextRadius is how many bytes around a code are kept as its context.
const contextRadius = 15

// CheckDelimiters verifies that the marks in text form non-nested, non-orphan
// << >> pairs. It returns nil when the text is clean or has no marks at all.
func CheckDelimiters(text string) error {
	marks := markRe.FindAllStringIndex(text, -1)
	if len(marks) == 0 {
		return nil
	}

	at := func(i int) string { return text[marks[i][0]:marks[i][1]] }

	if at(0) != openMark {
		return fmt.Errorf("unexpected closing mark %s at position %d in %q", closeMark, marks[0][0], text)
	}
	for i := 1; i < len(marks); i += 2 {
		if at(i-1) != openMark || at(i) != closeMark {
			between := text[marks[i-1][1]:marks[i][0]]
			return fmt.Errorf("expected %s %s pair around %q", openMark, closeMark, between)
		}
	}
	if len(marks)%2 != 0 {
		last := len(marks) - 1
		if at(last) == closeMark {
			return fmt.Errorf("unexpected closing mark %s at position %d in %q", closeMark, marks[last][0], text)
		}
		return fmt.Errorf("orphaned opening mark %s at position %d in %q", openMark, marks[last][0], text)
	}
	return nil
}

// MergeRuns consolidates every field code that spans several runs into the
// run holding its opening mark. Runs that hosted only a fragment of a code
// are cleared but kept, so the run count never changes. Call only after the
// paragraph-level delimiter check passed.
func MergeRuns(runs []string) {
	i := 0
	// The last run needs no test: it either has no opening mark or also
	// holds the closing one.
	for i < len(runs)-1 {
		if !strings.Contains(runs[i], openMark) || strings.Contains(runs[i], closeMark) {
			i++
			continue
		}

		opening := i
		i++
		parts := strings.SplitN(runs[i], closeMark, 2)
		runs[opening] += parts[0]
		for len(parts) <= 1 && i < len(runs)-1 {
			// The code extends further right; its text has been copied, so
			// clear this run and continue at the next.
			runs[i] = ""
			i++
			parts = strings.SplitN(runs[i], closeMark, 2)
			runs[opening] += parts[0]
		}
		if len(parts) <= 1 {
			// Unbalanced despite the check; leave the tail as is.
			runs[i] = ""
			return
		}
		runs[opening] += closeMark
		runs[i] = parts[1]
	}
}

// RealignRuns moves any text preceding an opening mark to the end of the
// previous run, so codes start their runs. The first run is exempt: there is
// nothing to its left and no new run is created.
func RealignRuns(runs []string) {
	if len(runs) == 0 {
		return
	}
	prev := 0
	for i := 1; i < len(runs); i++ {
		if strings.Contains(runs[i], openMark) && !strings.HasPrefix(runs[i], openMark) {
			parts := strings.SplitN(runs[i], openMark, 2)
			runs[prev] += parts[0]
			runs[i] = openMark + parts[1]
		}
		prev = i
	}
}

// Codes extracts the unique field codes of text in order of first appearance,
// with a short surrounding context per occurrence.
func Codes(text string) ([]string, map[string][]string) {
	var codes []string
	contexts := make(map[string][]string)

	for _, m := range codeRe.FindAllStringSubmatchIndex(text, -1) {
		code := text[m[2]:m[3]]
		if _, seen := contexts[code]; !seen {
			codes = append(codes, code)
		}
		start := m[0] - contextRadius
		if start < 0 {
			start = 0
		}
		end := m[1] + contextRadius
		if end > len(text) {
			end = len(text)
		}
		contexts[code] = append(contexts[code], text[start:end])
	}
	return codes, contexts
}
