package intent

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// defaultThreshold is the minimum cosine similarity a profile must reach
// before the semantic classifier trusts it over the RAGInfo fallback.
const defaultThreshold = 0.12

// trainingPhrases is the small labeled example set the tf-idf profiles are
// built from.
var trainingPhrases = map[Intent][]string{
	RAGInfo: {
		"what services do you offer",
		"tell me about your company",
		"how does the installation process work",
		"where are you located",
	},
	PurchaseInterest: {
		"i am interested in buying solar panels",
		"how much does it cost",
		"what is the price for a full setup",
		"i want to purchase a unit",
	},
	Booking: {
		"book a demo for tomorrow",
		"schedule an appointment with your team",
		"can i set up a consultation",
		"i would like to book a visit",
	},
	CancelBooking: {
		"cancel my appointment",
		"i need to reschedule my booking",
		"please call off the demo",
		"cancel the consultation i made",
	},
}

// TFIDFClassifier scores a query against per-intent bag-of-words profiles
// using cosine similarity.
type TFIDFClassifier struct {
	threshold float64
	idf       map[string]float64
	profiles  map[Intent][]float64
	vocab     map[string]int
}

// TFIDFOption configures the semantic classifier.
type TFIDFOption func(*TFIDFClassifier)

// WithThreshold overrides the similarity threshold.
func WithThreshold(threshold float64) TFIDFOption {
	return func(c *TFIDFClassifier) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// NewTFIDFClassifier builds the vocabulary, idf table and per-intent mean
// profile vectors from the fixed training set.
func NewTFIDFClassifier(opts ...TFIDFOption) *TFIDFClassifier {
	c := &TFIDFClassifier{
		threshold: defaultThreshold,
		idf:       make(map[string]float64),
		profiles:  make(map[Intent][]float64),
		vocab:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	var phraseTokens [][]string
	var phraseIntents []Intent
	df := make(map[string]int)

	for _, it := range All() {
		for _, phrase := range trainingPhrases[it] {
			tokens := tokenize(phrase)
			phraseTokens = append(phraseTokens, tokens)
			phraseIntents = append(phraseIntents, it)

			seen := make(map[string]bool, len(tokens))
			for _, tok := range tokens {
				if !seen[tok] {
					df[tok]++
					seen[tok] = true
				}
				if _, ok := c.vocab[tok]; !ok {
					c.vocab[tok] = len(c.vocab)
				}
			}
		}
	}

	// Standard smoothed idf: ln((1+N)/(1+df)) + 1.
	total := len(phraseTokens)
	for tok, count := range df {
		c.idf[tok] = math.Log(float64(1+total)/float64(1+count)) + 1
	}

	sums := make(map[Intent][]float64, len(trainingPhrases))
	counts := make(map[Intent]int, len(trainingPhrases))
	for i, tokens := range phraseTokens {
		it := phraseIntents[i]
		if sums[it] == nil {
			sums[it] = make([]float64, len(c.vocab))
		}
		vec := c.vectorize(tokens)
		for j, v := range vec {
			sums[it][j] += v
		}
		counts[it]++
	}
	for it, sum := range sums {
		for j := range sum {
			sum[j] /= float64(counts[it])
		}
		c.profiles[it] = sum
	}

	return c
}

// Classify returns the best-scoring intent above the threshold, defaulting to
// RAGInfo. Ties resolve to the first intent in declaration order.
func (c *TFIDFClassifier) Classify(_ context.Context, query string) Intent {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return RAGInfo
	}

	vec := c.vectorize(tokens)

	best := RAGInfo
	bestScore := 0.0
	for _, it := range All() {
		score := cosine(vec, c.profiles[it])
		if score > bestScore {
			bestScore = score
			best = it
		}
	}

	if bestScore <= c.threshold {
		return RAGInfo
	}
	return best
}

// vectorize maps tokens into tf-idf space using the training vocabulary.
// Out-of-vocabulary tokens are ignored.
func (c *TFIDFClassifier) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(c.vocab))
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	for tok, count := range counts {
		idx, ok := c.vocab[tok]
		if !ok {
			continue
		}
		tf := float64(count) / float64(len(tokens))
		vec[idx] = tf * c.idf[tok]
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ Classifier = (*TFIDFClassifier)(nil)
