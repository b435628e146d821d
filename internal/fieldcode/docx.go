package fieldcode

import (
	"strings"

	"github.com/fumiama/go-docx"
)

// Report is the outcome of preprocessing one template.
type Report struct {
	// Issues are remaining delimiter problems after fixing, one message per
	// finding. An empty slice means the template is substitution-ready.
	Issues []string
	// Fixed is false when paragraph-level errors made fixing impossible.
	Fixed bool
	// Codes and Contexts list the field codes found, with surrounding text.
	Codes    []string
	Contexts map[string][]string
}

// Preprocess checks and fixes field codes across the runs of every paragraph
// in place. Paragraph-level delimiter errors abort before any fix: a code
// whose marks sit in different paragraphs cannot be repaired without
// restructuring the document.
func Preprocess(doc *docx.Docx) *Report {
	rep := &Report{Contexts: make(map[string][]string)}

	paras := paragraphs(doc)

	for _, para := range paras {
		if err := CheckDelimiters(paragraphText(para)); err != nil {
			rep.Issues = append(rep.Issues, "paragraph: "+err.Error())
		}
	}
	if len(rep.Issues) > 0 {
		return rep
	}

	for _, para := range paras {
		runs := paraRuns(para)
		if len(runs) == 0 {
			continue
		}
		texts := make([]string, len(runs))
		for i, r := range runs {
			texts[i] = runText(r)
		}

		MergeRuns(texts)
		RealignRuns(texts)

		for i, r := range runs {
			setRunText(r, texts[i])
		}

		rep.Issues = append(rep.Issues, verifyRuns(texts)...)
	}
	rep.Fixed = true

	var all strings.Builder
	for _, para := range paras {
		all.WriteString(paragraphText(para))
	}
	rep.Codes, rep.Contexts = Codes(all.String())

	return rep
}

// verifyRuns re-checks each run after fixing and flags the suspicious case of
// a mark split across two runs (a lone trailing "<" or ">" completed by the
// next run's first character), which is likely accidental formatting.
func verifyRuns(texts []string) []string {
	var issues []string
	lastChar := ""
	for _, t := range texts {
		if err := CheckDelimiters(t); err != nil {
			msg := "run: " + err.Error()
			if t != "" {
				first := t[:1]
				if lastChar == "<" && first == "<" && !strings.HasPrefix(t, openMark) {
					msg += " --- two consecutive '<' found across runs; a split opening mark is likely accidental formatting"
				}
				if lastChar == ">" && first == ">" && !strings.HasPrefix(t, closeMark) {
					msg += " --- two consecutive '>' found across runs; a split closing mark is likely accidental formatting"
				}
			}
			issues = append(issues, msg)
		}
		if t != "" {
			lastChar = t[len(t)-1:]
		}
	}
	return issues
}

func paragraphs(doc *docx.Docx) []*docx.Paragraph {
	var paras []*docx.Paragraph
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, para)
		}
	}
	return paras
}

func paraRuns(para *docx.Paragraph) []*docx.Run {
	var runs []*docx.Run
	for _, child := range para.Children {
		if run, ok := child.(*docx.Run); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

func runText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

// setRunText stores text in the run's first text node and clears the rest,
// preserving the run's formatting. A run without text nodes stays untouched;
// merging only ever moves text between runs that had some.
func setRunText(run *docx.Run, text string) {
	first := true
	for _, rc := range run.Children {
		t, ok := rc.(*docx.Text)
		if !ok {
			continue
		}
		if first {
			t.Text = text
			first = false
		} else {
			t.Text = ""
		}
	}
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, r := range paraRuns(para) {
		buf.WriteString(runText(r))
	}
	return buf.String()
}

// ParagraphTexts exposes the per-paragraph text, used by handlers reporting
// on a template without fixing it.
func ParagraphTexts(doc *docx.Docx) []string {
	paras := paragraphs(doc)
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = paragraphText(p)
	}
	return texts
}
