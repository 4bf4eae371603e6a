package leads

import (
	"regexp"
	"strings"
)

// ---------- package-level compiled regexes ----------

var (
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRE = regexp.MustCompile(`\+?\d[\d\s\-]{7,}\d`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is\s+([A-Za-z][A-Za-z'-]*(?:\s+[A-Za-z][A-Za-z'-]*)*)`),
		regexp.MustCompile(`I'm\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`I am\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr)\.?\s+([A-Z][A-Za-z'-]*(?:\s+[A-Z][A-Za-z'-]*)*)`),
	}

	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)interested in ([^.?!]+)`),
		regexp.MustCompile(`(?i)looking for ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bneed ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bwant ([^.?!]+)`),
	}

	reasonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbecause ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bsince ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bso that ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bas ([^.?!]+)`),
		regexp.MustCompile(`(?i)\bto ([^.?!]+)`),
	}

	budgetRE = regexp.MustCompile(`(?i)(?:budget|around|about|roughly)\s*(?:is|:)?\s*(\$?\d[\d,]*(?:\.\d{1,2})?)`)

	productSplitRE = regexp.MustCompile(`,| and `)
)

// reasonMarkers terminate a product-interest clause so the reason does not
// get swallowed into the product list.
var reasonMarkers = []string{" because ", " since ", " so that "}

// inferenceMarkers drive the secondary reason scan when no primary reason
// pattern matched.
var inferenceMarkers = []string{" so we can ", " so i can ", " to "}

// acknowledgements are bare replies the short-answer product fallback must
// never treat as a product.
var acknowledgements = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"yep": true, "yeah": true, "nope": true, "thanks": true, "thank you": true,
	"hi": true, "hello": true, "hey": true, "fine": true, "great": true,
}

// fillerPrefixes are stripped from short replies before using the remainder
// as a product interest.
var fillerPrefixes = []string{
	"i am ", "i'm ", "we are ", "we're ", "i need ", "we need ",
	"i want ", "we want ", "it's ", "its ", "just ", "maybe ",
}

var questionWords = []string{
	"who", "what", "when", "where", "why", "how",
	"is", "are", "do", "does", "can", "could", "will", "would",
}

// Extractor pulls structured lead fields out of free-text utterances, one
// turn at a time. Extraction never fails: a pattern that does not match
// simply leaves its field untouched.
type Extractor struct{}

// NewExtractor returns the slot extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// CaptureStep applies this turn's utterance to the accumulated lead data and
// decides the next prompt. The input lead is not mutated.
func (e *Extractor) CaptureStep(userQuery string, existing LeadData) CaptureResult {
	lead := existing.Clone()
	var updates []Field

	text := strings.TrimSpace(userQuery)

	// Every field except product_interest is first-value-wins.
	if lead.Email == "" {
		if m := emailRE.FindString(text); m != "" {
			lead.Email = m
			updates = append(updates, FieldEmail)
		}
	}

	if lead.Phone == "" {
		if m := phoneRE.FindString(text); m != "" {
			lead.Phone = strings.TrimSpace(m)
			updates = append(updates, FieldPhone)
		}
	}

	if lead.Name == "" {
		if m := firstSubmatch(text, namePatterns); m != "" {
			lead.Name = m
			updates = append(updates, FieldName)
		}
	}

	if m := firstSubmatch(text, productPatterns); m != "" {
		merged := mergeProducts(lead.ProductInterest, splitProducts(trimAfterReason(m)))
		if changed(lead.ProductInterest, merged) {
			lead.ProductInterest = merged
			updates = append(updates, FieldProductInterest)
		}
	}

	if lead.InterestReason == "" {
		reason := firstSubmatch(text, reasonPatterns)
		if reason == "" {
			reason = inferReason(text)
		}
		if reason != "" {
			lead.InterestReason = reason
			updates = append(updates, FieldInterestReason)
		}
	}

	if lead.BudgetExpectation == "" {
		if m := budgetRE.FindStringSubmatch(text); m != nil {
			lead.BudgetExpectation = m[1]
			updates = append(updates, FieldBudgetExpectation)
		}
	}

	// Short-reply fallback: a terse answer to the product prompt often
	// carries no interest verb at all. This heuristic is the extractor's
	// most likely source of false positives; see the table test corpus.
	if len(lead.ProductInterest) == 0 {
		if v := shortReplyProduct(text); v != "" {
			lead.ProductInterest = []string{v}
			updates = append(updates, FieldProductInterest)
		}
	}

	result := CaptureResult{
		Lead:      lead,
		Updates:   updates,
		Completed: lead.IsComplete(),
	}
	if next := lead.NextMissing(); next != "" {
		result.Prompt = fieldPrompts[next]
	}
	return result
}

func firstSubmatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// trimAfterReason cuts a captured product clause at the first reason marker.
func trimAfterReason(value string) string {
	lowered := strings.ToLower(value)
	cut := len(value)
	for _, marker := range reasonMarkers {
		if idx := strings.Index(lowered, marker); idx != -1 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(value[:cut])
}

// splitProducts breaks a clause on commas and " and ", dropping empties.
func splitProducts(value string) []string {
	parts := productSplitRE.Split(value, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// mergeProducts unions new values into the existing list, preserving existing
// order and de-duplicating.
func mergeProducts(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, v := range existing {
		if !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	for _, v := range incoming {
		if !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	return merged
}

func changed(a, b []string) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// inferReason is the secondary scan used when no primary reason pattern
// matched: the remainder of the sentence after a purpose marker.
func inferReason(text string) string {
	lowered := strings.ToLower(text)
	for _, marker := range inferenceMarkers {
		idx := strings.Index(lowered, marker)
		if idx == -1 {
			continue
		}
		rest := text[idx+len(marker):]
		if end := strings.IndexAny(rest, ".?!"); end != -1 {
			rest = rest[:end]
		}
		if trimmed := strings.TrimSpace(rest); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// shortReplyProduct treats a short declarative reply as a product interest.
func shortReplyProduct(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.Contains(trimmed, "?") || strings.Contains(trimmed, "@") {
		return ""
	}

	words := strings.Fields(trimmed)
	if len(words) == 0 || len(words) > 12 {
		return ""
	}

	lowered := strings.ToLower(trimmed)
	normalized := strings.Trim(lowered, " .,!")
	if acknowledgements[normalized] {
		return ""
	}

	first := strings.ToLower(strings.Trim(words[0], ".,!"))
	for _, qw := range questionWords {
		if first == qw {
			return ""
		}
	}

	if isNumericReply(normalized) {
		return ""
	}

	value := trimmed
	loweredValue := lowered
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(loweredValue, prefix) {
			value = value[len(prefix):]
			loweredValue = loweredValue[len(prefix):]
			break
		}
	}

	return strings.Trim(strings.TrimSpace(value), ".,!")
}

func isNumericReply(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '$', ',', '.', '-', '+':
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
