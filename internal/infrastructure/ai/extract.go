package ai

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	maxRecommendations     = 5
	minRecommendationRunes = 11
)

var (
	codeFenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	scoreRe     = regexp.MustCompile(`(?i)(-?\d+)\s*/\s*100|(-?\d+)\s*poeng|score[:\s]*(-?\d+)`)
	savingsRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:000)?\s*(?:kr|nok)\b`)
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

	recommendationKeywords = []string{"anbefal", "forbedr", "vurder", "recommend", "improv"}

	lowerNO = cases.Lower(language.Norwegian)
)

// financingKeywords maps option types to substrings that mention them.
// Order follows financing.Types so detection is deterministic.
var financingKeywords = []struct {
	typ      financing.Type
	keywords []string
}{
	{financing.TypeGreenLoan, []string{"lån", "loan", "grønn", "bærekraft"}},
	{financing.TypeEnergyEfficiency, []string{"enova", "energi"}},
	{financing.TypeSustainabilityGrant, []string{"tilskudd", "grant", "støtte", "subsid"}},
	{financing.TypeTaxIncentive, []string{"skatt", "fradrag", "tax"}},
	{financing.TypeBusinessLoan, []string{"leasing", "bedrift", "business"}},
}

// normalize folds text for keyword matching: NFC composition so that å/ø/æ
// match regardless of encoding, then Norwegian lower-casing.
func normalize(s string) string {
	return lowerNO.String(norm.NFC.String(s))
}

// stripCodeFence returns the JSON payload of a reply, removing a markdown
// fence or any prose around the outermost object.
func stripCodeFence(s string) string {
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	s = strings.TrimSpace(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// extractScore finds "NN/100", "NN poeng" or "score: NN" in text. Missing
// scores default to 75 and every result is clamped into [1,100].
func extractScore(text string) int {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return sustainability.DefaultScore
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			break
		}
		return sustainability.ClampScore(n)
	}
	return sustainability.DefaultScore
}

// extractRecommendations picks up to five advisory lines from free text:
// lines with an advisory keyword or a list bullet, longer than ten characters.
func extractRecommendations(text string) []string {
	out := make([]string, 0, maxRecommendations)
	for _, line := range strings.Split(text, "\n") {
		isBullet := bulletRe.MatchString(line)
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		line = strings.Trim(line, "*# ")
		if utf8.RuneCountInString(line) < minRecommendationRunes {
			continue
		}
		if !isBullet && !containsAny(normalize(line), recommendationKeywords) {
			continue
		}
		out = append(out, line)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

// detectFinancingTypes lists the option types mentioned in text
func detectFinancingTypes(text string) []financing.Type {
	folded := normalize(text)
	var types []financing.Type
	for _, fk := range financingKeywords {
		if containsAny(folded, fk.keywords) {
			types = append(types, fk.typ)
		}
	}
	return types
}

// estimateSavings sums every "<n> kr" or "<n> NOK" amount in text. Amounts of
// 1000 or less are read as thousands. The sum is capped at 500 000 and
// defaults to 75 000 when nothing is found.
func estimateSavings(text string) decimal.Decimal {
	matches := savingsRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return financing.DefaultPotentialSavings
	}
	total := int64(0)
	for _, m := range matches {
		n, err := strconv.ParseInt(digitsOnly(m), 10, 64)
		if err != nil {
			continue
		}
		if n <= 1000 {
			n *= 1000
		}
		total += n
		if total >= financing.MaxPotentialSavings.IntPart() {
			break
		}
	}
	return financing.ClampSavings(decimal.NewFromInt(total))
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
