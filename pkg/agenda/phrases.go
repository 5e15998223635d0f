package agenda

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PhraseExtractor proposes candidate component names from free text. It backs
// the optional phrase fallback tier; implementations may wrap an NLP model.
type PhraseExtractor interface {
	Phrases(text string) []string
}

// PhraseExtractorFunc adapts a plain function to [PhraseExtractor].
type PhraseExtractorFunc func(text string) []string

// Phrases calls f(text).
func (f PhraseExtractorFunc) Phrases(text string) []string { return f(text) }

// CapitalizedPhrases is a dependency-free [PhraseExtractor] that returns runs
// of capitalized words ("Graph Neural Networks"). A lone capitalized word at
// the start of a sentence is ignored since capitalization tells nothing there.
var CapitalizedPhrases PhraseExtractor = PhraseExtractorFunc(capitalizedPhrases)

var phraseTokenRe = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'\-]*|[.!?;,:()]`)

func capitalizedPhrases(text string) []string {
	text = tagSpanRe.ReplaceAllString(text, " ")

	var (
		out          []string
		run          []string
		runAtStart   bool
		sentenceOpen = true
	)
	flush := func() {
		if len(run) > 1 || (len(run) == 1 && !runAtStart) {
			out = append(out, strings.Join(run, " "))
		}
		run = run[:0]
	}

	for _, tok := range phraseTokenRe.FindAllString(text, -1) {
		r, _ := utf8.DecodeRuneInString(tok)
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			if strings.ContainsAny(tok, ".!?") {
				sentenceOpen = true
			}
			continue
		case unicode.IsUpper(r):
			if len(run) == 0 {
				runAtStart = sentenceOpen
			}
			run = append(run, tok)
		default:
			flush()
		}
		sentenceOpen = false
	}
	flush()
	return out
}
