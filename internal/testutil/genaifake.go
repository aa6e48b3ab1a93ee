package testutil

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeGemini is an in-process HTTP server speaking the generative
// language REST surface. Point a real SDK client at URL() and every
// generateContent, streamGenerateContent and embedContent request lands
// here instead of the network.
//
// Responses come from registered pattern rules matched against the last
// user message, falling back to a default. Failures are injected per
// API key, which is how rotation behavior gets exercised: fail the
// first key, assert the second key received the same transcript.
//
// Thread-safe for concurrent use.
type FakeGemini struct {
	mu       sync.Mutex
	rules    []fakeRule
	fallback string
	failures map[string]int // key -> remaining failures, -1 means always
	vectors  map[string][]float32
	dim      int
	calls    []FakeCall

	srv *httptest.Server
}

type fakeRule struct {
	pattern  string // substring match in last user message, lowercased
	response string
}

// FakeCall records one request the fake served.
type FakeCall struct {
	Op          string // "generate", "stream" or "embed"
	Key         string // x-goog-api-key header
	Model       string
	UserMessage string // last user message text
	Transcript  []FakeMessage
	System      string // system instruction text
	Failed      bool
}

// FakeMessage is one decoded transcript turn.
type FakeMessage struct {
	Role string
	Text string
}

// NewFakeGemini starts the fake server with the given fallback
// response. The server stops when the test ends.
func NewFakeGemini(t *testing.T, fallback string) *FakeGemini {
	t.Helper()

	f := &FakeGemini{
		fallback: fallback,
		failures: make(map[string]int),
		vectors:  make(map[string][]float32),
		dim:      768,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the base URL to hand to the SDK client.
func (f *FakeGemini) URL() string {
	return f.srv.URL
}

// Respond registers a pattern-response pair. When the last user message
// contains the pattern (case-insensitive), the response is returned.
// First registered match wins.
func (f *FakeGemini) Respond(pattern, response string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, fakeRule{pattern: strings.ToLower(pattern), response: response})
}

// FailKey makes every request carrying the key fail with 429.
func (f *FakeGemini) FailKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = -1
}

// FailKeyTimes makes the next n requests carrying the key fail with
// 429, then heal.
func (f *FakeGemini) FailKeyTimes(key string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = n
}

// HealKey clears any failure injection for the key.
func (f *FakeGemini) HealKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
}

// SetVector registers an explicit embedding for a content string. Use
// this to control exact cosine similarity between test inputs;
// unregistered content gets a deterministic hash-derived vector.
func (f *FakeGemini) SetVector(content string, vec []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[content] = vec
}

// Calls returns a copy of all recorded calls, including failed ones.
func (f *FakeGemini) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]FakeCall, len(f.calls))
	copy(cp, f.calls)
	return cp
}

// CallsFor returns recorded calls for one op.
func (f *FakeGemini) CallsFor(op string) []FakeCall {
	var out []FakeCall
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls and failure injection, keeping rules.
func (f *FakeGemini) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.failures = make(map[string]int)
}

// Wire types, camelCase per the REST API.

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts,omitempty"`
}

type wirePart struct {
	Text string `json:"text,omitempty"`
}

type wireGenerateRequest struct {
	Contents          []wireContent `json:"contents"`
	SystemInstruction *wireContent  `json:"systemInstruction"`
}

type wireCandidate struct {
	Content      wireContent `json:"content"`
	FinishReason string      `json:"finishReason,omitempty"`
}

type wireGenerateResponse struct {
	Candidates []wireCandidate `json:"candidates"`
}

type wireEmbedRequest struct {
	Content  *wireContent `json:"content"`
	Contents []wireContent
	Requests []struct {
		Content wireContent `json:"content"`
	} `json:"requests"`
}

type wireEmbedding struct {
	Values []float32 `json:"values"`
}

func (f *FakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	op, model := splitModelOp(path)

	key := r.Header.Get("x-goog-api-key")

	switch {
	case strings.HasSuffix(op, "streamGenerateContent"):
		f.handleGenerate(w, r, "stream", model, key)
	case strings.HasSuffix(op, "generateContent"):
		f.handleGenerate(w, r, "generate", model, key)
	case strings.HasSuffix(op, "embedContent") || strings.HasSuffix(op, "batchEmbedContents"):
		f.handleEmbed(w, r, model, key)
	default:
		http.Error(w, fmt.Sprintf(`{"error":{"code":404,"message":"unknown path %s","status":"NOT_FOUND"}}`, path), http.StatusNotFound)
	}
}

// splitModelOp turns "/v1beta/models/gemini-2.5-flash:generateContent"
// into its model and op halves.
func splitModelOp(path string) (op, model string) {
	i := strings.LastIndex(path, ":")
	if i < 0 {
		return path, ""
	}
	op = path[i+1:]
	rest := path[:i]
	if j := strings.LastIndex(rest, "/"); j >= 0 {
		model = rest[j+1:]
	}
	return op, model
}

// shouldFail consumes one failure budget unit for the key.
func (f *FakeGemini) shouldFail(key string) bool {
	n, ok := f.failures[key]
	if !ok || n == 0 {
		return false
	}
	if n > 0 {
		f.failures[key] = n - 1
	}
	return true
}

func (f *FakeGemini) handleGenerate(w http.ResponseWriter, r *http.Request, op, model, key string) {
	var req wireGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":400,"message":"bad request body","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
		return
	}

	call := FakeCall{Op: op, Key: key, Model: model}
	for _, c := range req.Contents {
		call.Transcript = append(call.Transcript, FakeMessage{Role: c.Role, Text: contentText(c)})
	}
	for i := len(call.Transcript) - 1; i >= 0; i-- {
		if call.Transcript[i].Role != "model" {
			call.UserMessage = call.Transcript[i].Text
			break
		}
	}
	if req.SystemInstruction != nil {
		call.System = contentText(*req.SystemInstruction)
	}

	f.mu.Lock()
	fail := f.shouldFail(key)
	call.Failed = fail
	f.calls = append(f.calls, call)
	response := f.fallback
	lower := strings.ToLower(call.UserMessage)
	for _, rule := range f.rules {
		if strings.Contains(lower, rule.pattern) {
			response = rule.response
			break
		}
	}
	f.mu.Unlock()

	if fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded for this key","status":"RESOURCE_EXHAUSTED"}}`)
		return
	}

	if op == "stream" {
		f.writeStream(w, response)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(wireGenerateResponse{
		Candidates: []wireCandidate{{
			Content:      wireContent{Role: "model", Parts: []wirePart{{Text: response}}},
			FinishReason: "STOP",
		}},
	})
}

// writeStream emits the response as SSE in two chunks so consumers see
// real incremental delivery.
func (f *FakeGemini) writeStream(w http.ResponseWriter, response string) {
	w.Header().Set("Content-Type", "text/event-stream")

	flusher, _ := w.(http.Flusher)
	for _, chunk := range splitChunks(response) {
		payload, _ := json.Marshal(wireGenerateResponse{
			Candidates: []wireCandidate{{
				Content: wireContent{Role: "model", Parts: []wirePart{{Text: chunk}}},
			}},
		})
		fmt.Fprintf(w, "data: %s\r\n\r\n", payload)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// splitChunks breaks text on a space near the middle, falling back to a
// single chunk for short or unbreakable text.
func splitChunks(text string) []string {
	if len(text) < 8 {
		return []string{text}
	}
	mid := strings.Index(text[len(text)/2:], " ")
	if mid < 0 {
		return []string{text}
	}
	cut := len(text)/2 + mid + 1
	return []string{text[:cut], text[cut:]}
}

func (f *FakeGemini) handleEmbed(w http.ResponseWriter, r *http.Request, model, key string) {
	var req wireEmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":400,"message":"bad request body","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
		return
	}

	var texts []string
	switch {
	case len(req.Requests) > 0:
		for _, rr := range req.Requests {
			texts = append(texts, contentText(rr.Content))
		}
	case len(req.Contents) > 0:
		for _, c := range req.Contents {
			texts = append(texts, contentText(c))
		}
	case req.Content != nil:
		texts = append(texts, contentText(*req.Content))
	}

	joined := strings.Join(texts, "\n")
	call := FakeCall{Op: "embed", Key: key, Model: model, UserMessage: joined}

	f.mu.Lock()
	fail := f.shouldFail(key)
	call.Failed = fail
	f.calls = append(f.calls, call)
	embeddings := make([]wireEmbedding, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			embeddings[i] = wireEmbedding{Values: v}
		} else {
			embeddings[i] = wireEmbedding{Values: deterministicVector(t, f.dim)}
		}
	}
	f.mu.Unlock()

	if fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded for this key","status":"RESOURCE_EXHAUSTED"}}`)
		return
	}

	// Both singular and batch shapes, so either endpoint decodes.
	out := map[string]any{"embeddings": embeddings}
	if len(embeddings) > 0 {
		out["embedding"] = embeddings[0]
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func contentText(c wireContent) string {
	var sb strings.Builder
	for _, p := range c.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// deterministicVector generates a normalized vector from content using
// SHA-256. The same content always produces the same vector.
func deterministicVector(content string, dim int) []float32 {
	hash := sha256.Sum256([]byte(content))
	vec := make([]float32, dim)

	for i := range vec {
		idx := (i * 4) % len(hash)
		bits := binary.LittleEndian.Uint32([]byte{
			hash[idx%32],
			hash[(idx+1)%32],
			hash[(idx+2)%32],
			hash[(idx+3)%32],
		})
		vec[i] = (float32(bits)/float32(math.MaxUint32))*2 - 1
	}

	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}
