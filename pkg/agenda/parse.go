package agenda

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Source records where a model's components came from.
type Source string

const (
	SourceTags      Source = "tags"      // [component] / [subcomponent] tags
	SourceList      Source = "list"      // a "components: a, b" line
	SourcePhrases   Source = "phrases"   // the configured PhraseExtractor
	SourceHeuristic Source = "heuristic" // comma/semicolon split of untagged text
	SourceNone      Source = "none"      // nothing usable
)

const (
	// maxPhraseComponents caps how many extracted phrases become components.
	maxPhraseComponents = 8

	// maxHeuristicLen is the exclusive upper bound on heuristic segment length, in runes.
	maxHeuristicLen = 60
)

var (
	themeRe        = regexp.MustCompile(`(?i)\[theme(?:\s+[^\]]*)?\]([\s\S]*?)\[/theme\]`)
	componentRe    = regexp.MustCompile(`(?i)\[component(?:\s+time=([^\]]*))?\]([\s\S]*?)\[/component\]`)
	subcomponentRe = regexp.MustCompile(`(?i)\[subcomponent(?:\s+of=([^\]]+))?\]([\s\S]*?)\[/subcomponent\]`)
	relationRe     = regexp.MustCompile(`(?i)\[relation:([^\]]+)\]([\s\S]*?)\[/relation:[^\]]+\]`)
	arrowRe        = regexp.MustCompile(`->|→`)
	listRe         = regexp.MustCompile(`(?i)components?:\s*([^\n]*)`)
	separatorRe    = regexp.MustCompile(`[;,]`)
	tagSpanRe      = regexp.MustCompile(`\[.*?\]`)
)

// Parser converts agenda text into a [Model]. The zero value is not usable;
// create one with [NewParser]. A Parser holds no per-parse state and may be
// shared between goroutines if its PhraseExtractor may.
type Parser struct {
	phrases PhraseExtractor
}

// Option configures a [Parser].
type Option func(*Parser)

// WithPhraseExtractor enables the phrase fallback tier. A nil extractor leaves
// the tier disabled.
func WithPhraseExtractor(e PhraseExtractor) Option {
	return func(p *Parser) { p.phrases = e }
}

// NewParser returns a parser with the given options applied.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses text with the default parser (phrase extraction disabled).
func Parse(text string) *Model {
	return defaultParser.Parse(text)
}

// Parse converts text into a model. It never fails: missing or malformed tags
// fall back to the defaults described in the package documentation.
func (p *Parser) Parse(text string) *Model {
	m, _ := p.ParseWithSource(text)
	return m
}

// ParseWithSource is [Parser.Parse] that also reports which tier supplied the
// components.
func (p *Parser) ParseWithSource(text string) (*Model, Source) {
	m := &Model{
		Theme:      parseTheme(text),
		Components: parseComponentTags(text),
		Relations:  parseRelations(text),
	}
	if len(m.Components) > 0 {
		return m, SourceTags
	}

	if cs := parseComponentList(text); len(cs) > 0 {
		m.Components = cs
		return m, SourceList
	}
	if p.phrases != nil {
		if cs := phraseComponents(p.phrases, text, m.Theme); len(cs) > 0 {
			m.Components = cs
			return m, SourcePhrases
		}
	}
	if cs := heuristicComponents(text, m.Theme); len(cs) > 0 {
		m.Components = cs
		return m, SourceHeuristic
	}
	return m, SourceNone
}

func parseTheme(text string) string {
	if match := themeRe.FindStringSubmatch(text); match != nil {
		if theme := strings.TrimSpace(match[1]); theme != "" {
			return theme
		}
	}
	first := text
	if i := strings.IndexAny(text, ".\n"); i >= 0 {
		first = text[:i]
	}
	return strings.TrimSpace(first)
}

// parseComponentTags collects [component] matches first and [subcomponent]
// matches second, each in document order.
func parseComponentTags(text string) []Component {
	out := []Component{}
	for _, m := range componentRe.FindAllStringSubmatch(text, -1) {
		out = append(out, Component{
			Name: strings.TrimSpace(m[2]),
			Time: ParseLane(m[1]),
		})
	}
	for _, m := range subcomponentRe.FindAllStringSubmatch(text, -1) {
		out = append(out, Component{
			Name:   strings.TrimSpace(m[2]),
			Time:   LaneCurrent,
			Parent: strings.TrimSpace(m[1]),
		})
	}
	return out
}

func parseRelations(text string) []Relation {
	out := []Relation{}
	for _, m := range relationRe.FindAllStringSubmatch(text, -1) {
		typ := strings.TrimSpace(m[1])
		parts := arrowRe.Split(strings.TrimSpace(m[2]), -1)
		if typ == "" || len(parts) != 2 {
			continue
		}
		from, to := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if from == "" || to == "" {
			continue
		}
		out = append(out, Relation{From: from, To: to, Type: typ})
	}
	return out
}

func parseComponentList(text string) []Component {
	match := listRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return splitComponents(match[1], 0)
}

func phraseComponents(e PhraseExtractor, text, theme string) []Component {
	theme = strings.ToLower(theme)
	seen := make(map[string]bool)
	var out []Component
	for _, phrase := range e.Phrases(text) {
		name := strings.TrimSpace(phrase)
		key := strings.ToLower(name)
		if utf8.RuneCountInString(name) <= 1 || key == theme || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Component{Name: name, Time: LaneCurrent})
		if len(out) == maxPhraseComponents {
			break
		}
	}
	return out
}

func heuristicComponents(text, theme string) []Component {
	rest := tagSpanRe.ReplaceAllString(text, "")
	if theme != "" {
		rest = strings.ReplaceAll(rest, theme, "")
	}
	return splitComponents(rest, maxHeuristicLen)
}

// splitComponents splits s on commas and semicolons into current-lane
// components. A positive maxLen drops segments of maxLen runes or more.
func splitComponents(s string, maxLen int) []Component {
	var out []Component
	for _, part := range separatorRe.Split(s, -1) {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if maxLen > 0 && utf8.RuneCountInString(name) >= maxLen {
			continue
		}
		out = append(out, Component{Name: name, Time: LaneCurrent})
	}
	return out
}
