package whatif

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policymitra/backend/internal/catalog"
	"github.com/policymitra/backend/internal/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("", testLogger())
	require.NoError(t, err)
	return cat
}

func TestAnswerEmptyQuestion(t *testing.T) {
	client := llm.NewClient("", "", "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	assert.Equal(t, "Please enter a question.", r.Answer(context.Background(), "   ", "Age: 30"))
}

func TestAnswerModelUnavailable(t *testing.T) {
	client := llm.NewClient("", "", "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	got := r.Answer(context.Background(), "What if my income doubles?", "Age: 30")
	assert.Equal(t, "Sorry, the AI model is not available. Please try again later.", got)
}

func TestAnswerUsesRetrievedFacts(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.NotEmpty(t, body.Messages)
		capturedPrompt = body.Messages[0].Content

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Answer: Consider raising your term cover. ### Health cover should follow income growth. A rider can wait. Ignore this fourth sentence"}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := llm.NewClient("test-key", server.URL, "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	got := r.Answer(context.Background(), "How good is the HDFC claim settlement ratio?", "Age: 30\nMonthly Income: 80000")

	assert.Contains(t, capturedPrompt, "HDFC")
	assert.Contains(t, capturedPrompt, "Age: 30")
	assert.Contains(t, capturedPrompt, "How good is the HDFC claim settlement ratio?")
	assert.Equal(t, "Consider raising your term cover. Health cover should follow income growth. A rider can wait.", got)
}

func TestAnswerModelErrorBecomesText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := llm.NewClient("test-key", server.URL, "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	got := r.Answer(context.Background(), "What about riders?", "Age: 30")
	assert.True(t, strings.HasPrefix(got, "Error processing question:"), "got %q", got)
}

func TestRetrieveByKeywords(t *testing.T) {
	client := llm.NewClient("", "", "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	// "kotak" appears in exactly one fact sentence; a generic word like
	// "plans" would match every fact since each lists its plans.
	facts := r.retrieveByKeywords("kotak")
	require.NotEmpty(t, facts)
	assert.LessOrEqual(t, len(facts), topK)
	assert.Contains(t, strings.ToLower(facts[0]), "kotak")
}

func TestRetrieveByKeywordsNoOverlapFallsBack(t *testing.T) {
	client := llm.NewClient("", "", "gpt-4o", "", testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	facts := r.retrieveByKeywords("zzzz qqqq")
	assert.Len(t, facts, topK)
	assert.Equal(t, r.facts[:topK], facts)
}

// embeddingServer returns fixed vectors keyed on insurer names so that
// similarity against the question vector [1,0,0] ranks HDFC > LIC > SBI and
// leaves every other fact orthogonal.
func embeddingServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))

		vec := []float32{0, 1, 0}
		switch {
		case strings.Contains(body.Text, "HDFC ERGO"):
			vec = []float32{0.9, 0.1, 0}
		case strings.Contains(body.Text, "LIC India"):
			vec = []float32{0.8, 0.2, 0}
		case strings.Contains(body.Text, "SBI Life"):
			vec = []float32{0.7, 0.3, 0}
		case strings.Contains(body.Text, "?"):
			vec = []float32{1, 0, 0}
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embedding": vec}))
	}))
}

func TestRetrieveByEmbeddingRanksBySimilarity(t *testing.T) {
	server := embeddingServer(t)
	defer server.Close()

	client := llm.NewClient("", "", "gpt-4o", server.URL, testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	facts, ok := r.retrieveByEmbedding(context.Background(), "which insurer settles claims best?")
	require.True(t, ok)
	require.Len(t, facts, topK)
	assert.Contains(t, facts[0], "HDFC ERGO")
	assert.Contains(t, facts[1], "LIC India")
	assert.Contains(t, facts[2], "SBI Life")
}

func TestRetrievePrefersEmbeddingOverKeywords(t *testing.T) {
	server := embeddingServer(t)
	defer server.Close()

	client := llm.NewClient("", "", "gpt-4o", server.URL, testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	// The keyword path would rank an insurer named in the question first;
	// the embedding path ranks purely by vector similarity.
	facts := r.retrieve(context.Background(), "should I pick Kotak?")
	require.Len(t, facts, topK)
	assert.Contains(t, facts[0], "HDFC ERGO")
}

func TestRetrieveByEmbeddingRetriesAfterFailure(t *testing.T) {
	healthy := false
	inner := embeddingServer(t)
	defer inner.Close()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		inner.Config.Handler.ServeHTTP(w, req)
	}))
	defer server.Close()

	client := llm.NewClient("", "", "gpt-4o", server.URL, testLogger())
	r := NewResponder(client, loadCatalog(t), testLogger())

	// While the embedding service is down, retrieval degrades to keywords.
	facts := r.retrieve(context.Background(), "kotak")
	require.NotEmpty(t, facts)
	assert.Contains(t, strings.ToLower(facts[0]), "kotak")

	// A failed first attempt is not latched: once the service recovers,
	// the embedding path takes over.
	healthy = true
	facts, ok := r.retrieveByEmbedding(context.Background(), "which insurer settles claims best?")
	require.True(t, ok)
	require.Len(t, facts, topK)
	assert.Contains(t, facts[0], "HDFC ERGO")
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips markers and truncates",
			in:   "Answer: One. Two. Three. Four.",
			want: "One. Two. Three.",
		},
		{
			name: "single sentence gets terminal period",
			in:   "### Increase your cover",
			want: "Increase your cover.",
		},
		{
			name: "empty reply",
			in:   "   ",
			want: "Sorry, I could not generate an answer to that question.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanAnswer(tt.in))
		})
	}
}
