// Package whatif answers free-text follow-up questions using retrieved
// catalog facts plus the original customer profile. It never returns an
// error to the caller: every failure mode becomes a readable sentence.
package whatif

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/policymitra/backend/internal/catalog"
	"github.com/policymitra/backend/internal/llm"
)

// topK facts are retrieved as context for every question.
const topK = 3

const unavailableReply = "Sorry, the AI model is not available. Please try again later."

// Responder retrieves relevant product facts and asks the model for a short
// actionable answer.
type Responder struct {
	llm    *llm.Client
	facts  []string
	logger *slog.Logger

	// factVecs is computed lazily on the first embedding retrieval. A
	// failed attempt leaves it nil so the next request retries instead of
	// pinning the responder to keyword retrieval for the process lifetime.
	mu       sync.Mutex
	factVecs [][]float32
}

// NewResponder precomputes the per-insurer fact sentences from the catalog.
func NewResponder(llmClient *llm.Client, cat *catalog.Catalog, logger *slog.Logger) *Responder {
	return &Responder{
		llm:    llmClient,
		facts:  cat.FactSentences(),
		logger: logger.With("component", "whatif_responder"),
	}
}

// Answer responds to one what-if question. It always returns non-empty text.
func (r *Responder) Answer(ctx context.Context, question, profileText string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return "Please enter a question."
	}
	if !r.llm.Enabled() {
		return unavailableReply
	}

	facts := r.retrieve(ctx, question)
	prompt := buildPrompt(profileText, facts, question)

	reply, err := r.llm.Complete(ctx, prompt, false)
	if err != nil {
		r.logger.WarnContext(ctx, "What-if model call failed", "error", err)
		return fmt.Sprintf("Error processing question: %v", err)
	}
	return cleanAnswer(reply)
}

// retrieve selects the topK most relevant fact sentences, by embedding
// cosine similarity when a backend is configured, falling back to keyword
// overlap otherwise. The result is never empty.
func (r *Responder) retrieve(ctx context.Context, question string) []string {
	if r.llm.CanEmbed() {
		if facts, ok := r.retrieveByEmbedding(ctx, question); ok {
			return facts
		}
	}
	return r.retrieveByKeywords(question)
}

func (r *Responder) retrieveByEmbedding(ctx context.Context, question string) ([]string, bool) {
	factVecs, ok := r.factVectors(ctx)
	if !ok {
		return nil, false
	}

	queryVec, err := r.llm.Embed(ctx, question)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to embed question", "error", err)
		return nil, false
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(factVecs))
	for i, vec := range factVecs {
		scores[i] = scored{index: i, score: cosineSimilarity(queryVec, vec)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := topK
	if n > len(scores) {
		n = len(scores)
	}
	facts := make([]string, 0, n)
	for _, s := range scores[:n] {
		facts = append(facts, r.facts[s.index])
	}
	return facts, true
}

// factVectors returns the embedded fact sentences, computing them on first
// use. On failure it reports not-ok without caching anything, so a later
// request retries once the embedding service recovers.
func (r *Responder) factVectors(ctx context.Context) ([][]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.factVecs != nil {
		return r.factVecs, true
	}

	vecs := make([][]float32, 0, len(r.facts))
	for _, fact := range r.facts {
		vec, err := r.llm.Embed(ctx, fact)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to embed fact sentence, using keyword retrieval for this request", "error", err)
			return nil, false
		}
		vecs = append(vecs, vec)
	}
	r.factVecs = vecs
	return r.factVecs, true
}

// retrieveByKeywords keeps facts sharing any word with the question, and
// falls back to the first topK facts so context is never empty.
func (r *Responder) retrieveByKeywords(question string) []string {
	words := strings.Fields(strings.ToLower(question))

	var matched []string
	for _, fact := range r.facts {
		lower := strings.ToLower(fact)
		for _, word := range words {
			if strings.Contains(lower, word) {
				matched = append(matched, fact)
				break
			}
		}
		if len(matched) == topK {
			break
		}
	}
	if len(matched) > 0 {
		return matched
	}

	n := topK
	if n > len(r.facts) {
		n = len(r.facts)
	}
	return r.facts[:n]
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func buildPrompt(profileText string, facts []string, question string) string {
	return fmt.Sprintf(`You are an expert insurance advisor. Use the customer's profile and relevant product facts to guide your answer.

Customer Profile:
%s

Relevant Insurance Facts:
%s

Question: %s

Respond in 2-3 clear sentences. Focus on practical advice about what changes the person should consider in their insurance coverage.
Keep the answer concise and actionable.`, strings.TrimSpace(profileText), strings.Join(facts, "\n"), question)
}

// cleanAnswer strips model artifacts and truncates the reply to at most
// three sentences, always terminated with a period.
func cleanAnswer(text string) string {
	text = strings.ReplaceAll(text, "Answer:", "")
	text = strings.ReplaceAll(text, "###", "")
	text = strings.TrimSpace(text)

	var sentences []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
		if len(sentences) == 3 {
			break
		}
	}
	if len(sentences) == 0 {
		return "Sorry, I could not generate an answer to that question."
	}
	return strings.Join(sentences, ". ") + "."
}
