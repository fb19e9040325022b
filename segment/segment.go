package segment

import (
	"strings"
	"unicode"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
)

// DefaultSection names text that precedes any recognized heading.
const DefaultSection = "body"

var headings = map[string]string{
	"abstract":               "abstract",
	"introduction":           "introduction",
	"background":             "background",
	"related work":           "related work",
	"literature review":      "literature review",
	"method":                 "methods",
	"methods":                "methods",
	"methodology":            "methods",
	"materials and methods":  "methods",
	"experiments":            "experiments",
	"experimental setup":     "experiments",
	"evaluation":             "evaluation",
	"results":                "results",
	"results and discussion": "results",
	"discussion":             "discussion",
	"conclusion":             "conclusion",
	"conclusions":            "conclusion",
	"future work":            "future work",
	"acknowledgements":       "acknowledgements",
	"acknowledgments":        "acknowledgements",
	"references":             "references",
	"bibliography":           "references",
	"appendix":               "appendix",
}

// Segment chunks text and merges the chunks into blocks.
func Segment(text string, opts Options) []core.Block {
	return MergeBlocks(Chunk(text, opts), opts)
}

// SegmentDocument segments each section of doc independently and numbers
// the resulting blocks across the whole document. When doc carries no
// sections they are derived with SplitSections. Every block receives the
// sentences it owns; see AssignSentences.
func SegmentDocument(doc core.Document, opts Options) []core.Block {
	sections := doc.Sections
	if len(sections) == 0 {
		sections = SplitSections(doc.Text)
	}

	var blocks []core.Block
	for _, s := range sections {
		name := s.Name
		if name == "" {
			name = DefaultSection
		}
		sectionBlocks := Segment(s.Text, opts)
		AssignSentences(s.Text, sectionBlocks)
		for _, b := range sectionBlocks {
			b.Section = name
			blocks = append(blocks, b)
		}
	}
	return renumber(blocks)
}

// AssignSentences gives each sentence of text to the first block whose word
// span contains the sentence's first word. Sentences keep their original
// text, so a sentence cut by a chunk boundary is still reported whole and
// a sentence inside an overlap is reported once. blocks must be the
// segmentation of text.
func AssignSentences(text string, blocks []core.Block) {
	if len(blocks) == 0 {
		return
	}
	for i := range blocks {
		blocks[i].Sentences = []string{}
	}
	prev, word := 0, 0
	for _, s := range textutil.SplitSentences(text) {
		word += len(textutil.Words(text[prev:s.Start]))
		prev = s.Start
		owner := len(blocks) - 1
		for i, b := range blocks {
			if word >= b.StartWord && word < b.EndWord {
				owner = i
				break
			}
		}
		blocks[owner].Sentences = append(blocks[owner].Sentences, s.Text)
	}
}

// SplitSections divides text at lines that look like academic section
// headings, optionally numbered ("2. Methods", "IV RESULTS"). Text before the
// first heading, or the whole text when no heading is found, forms a section
// named DefaultSection. Sections with no text are dropped.
func SplitSections(text string) []core.Section {
	var (
		sections []core.Section
		name     = DefaultSection
		body     strings.Builder
	)
	flush := func() {
		if t := strings.TrimSpace(body.String()); t != "" {
			sections = append(sections, core.Section{Name: name, Text: t})
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if heading, ok := matchHeading(line); ok {
			flush()
			name = heading
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
	return sections
}

func matchHeading(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" || len(s) > 40 {
		return "", false
	}
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsDigit(r) || r == '.' || r == ' ' || r == ')'
	})
	s = trimRomanNumeral(s)
	s = strings.ToLower(strings.TrimRight(s, ":. "))
	heading, ok := headings[s]
	return heading, ok
}

func trimRomanNumeral(s string) string {
	i := 0
	for i < len(s) && strings.ContainsRune("IVXLivxl", rune(s[i])) {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] != '.' && s[i] != ' ' && s[i] != ')' {
		return s
	}
	return strings.TrimLeft(s[i:], ". )")
}
