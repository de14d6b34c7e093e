// Package labels turns raw cue text into transcript labels: lowercase words
// only, numbers spelled out, single-spaced.
package labels

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forPelevin/asrprep/internal/ports"
	"github.com/forPelevin/asrprep/internal/types"
)

var reSymbols = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)

type Normalizer struct {
	speller ports.NumberSpeller
}

func New(speller ports.NumberSpeller) Normalizer {
	return Normalizer{speller: speller}
}

// Normalize lowercases text, replaces symbol runs with spaces, spells
// four-digit tokens as years and any other number as a cardinal, and
// replaces hyphens with spaces.
func (n Normalizer) Normalize(raw string) string {
	// cases.Caser is stateful, so one per call keeps Normalizer safe to share.
	s := cases.Lower(language.Und).String(strings.Trim(raw, "\r\n"))
	s = reSymbols.ReplaceAllString(s, " ")

	tokens := strings.Fields(s)
	tokens = lo.Map(tokens, func(tok string, _ int) string {
		if len(tok) != 4 || !isDigits(tok) {
			return tok
		}
		return spell(tok, n.speller.Year)
	})
	tokens = lo.Map(tokens, func(tok string, _ int) string {
		if !isDigits(tok) {
			return tok
		}
		return spell(tok, n.speller.Cardinal)
	})

	s = strings.Join(tokens, " ")
	return strings.ReplaceAll(s, "-", " ")
}

func (n Normalizer) NormalizeCues(cues []types.Cue) []types.NormalizedCue {
	return lo.Map(cues, func(c types.Cue, _ int) types.NormalizedCue {
		return types.NormalizedCue{Index: c.Index, Label: n.Normalize(c.Text)}
	})
}

// spell leaves tok untouched when it doesn't fit in an int64.
func spell(tok string, fn func(int64) string) string {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return tok
	}
	return fn(v)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
