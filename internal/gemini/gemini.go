// Package gemini wraps the Gemini API with credential-group rotation.
//
// Two ordered key groups drive every call: group A serves interactive chat
// and group B serves mind-map generation and embeddings. When a request
// fails, the wrapper logs a warning, advances the group's ring and replays
// the same transcript against the next key. After a full pass over the ring
// it gives up with ErrAllKeysFailed; the surfaces translate that into the
// Portuguese-language message users see.
//
// The wrapper holds at most one in-memory chat transcript (the "slot").
// Send creates it lazily on first use and StartChat replaces it. Multi-user
// callers (the web server) use the stateless Generate/GenerateStream with a
// transcript loaded from storage instead.
package gemini

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"google.golang.org/genai"
)

// Message roles. They mirror the wire roles of the Gemini API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of a conversation transcript.
type Message struct {
	Role string
	Text string
}

// Config carries everything the client needs. ChatKeys is credential
// group A, MindMapKeys group B; list order is rotation order.
type Config struct {
	Model             string
	EmbeddingModel    string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	ChatKeys          []string
	MindMapKeys       []string

	// BaseURL overrides the API endpoint; tests point it at a fake server.
	BaseURL string

	Logger *slog.Logger
}

// Client is the rotating Gemini wrapper. Safe for concurrent use; the
// chat slot and the client cache are mutex-guarded and the rings
// synchronize themselves.
type Client struct {
	model          string
	embeddingModel string
	genCfg         *genai.GenerateContentConfig
	baseURL        string
	logger         *slog.Logger

	chatRing *KeyRing
	mapRing  *KeyRing

	// clients caches one SDK client per credential, built on first use.
	clientsMu sync.Mutex
	clients   map[string]*genai.Client

	// slot is the single active chat transcript.
	slotMu sync.Mutex
	slot   []Message
	active bool
}

// NewClient validates the configuration and builds the key rings.
// No network traffic happens here; SDK clients are created lazily per key.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	chatRing, err := NewKeyRing(cfg.ChatKeys)
	if err != nil {
		return nil, fmt.Errorf("chat key group: %w", err)
	}
	mapKeys := cfg.MindMapKeys
	if len(mapKeys) == 0 {
		mapKeys = cfg.ChatKeys
	}
	mapRing, err := NewKeyRing(mapKeys)
	if err != nil {
		return nil, fmt.Errorf("mindmap key group: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if cfg.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}

	return &Client{
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		genCfg:         genCfg,
		baseURL:        cfg.BaseURL,
		logger:         cfg.Logger,
		chatRing:       chatRing,
		mapRing:        mapRing,
		clients:        make(map[string]*genai.Client),
	}, nil
}

// GenOption adjusts a single generation call.
type GenOption func(*genOpts)

type genOpts struct {
	extraContext string
}

// WithContext appends recall context to the system instruction for one
// call. The base instruction is never mutated.
func WithContext(extra string) GenOption {
	return func(o *genOpts) { o.extraContext = extra }
}

// Generate produces a reply for the given transcript on group A.
// It is stateless: the caller owns the transcript.
func (c *Client) Generate(ctx context.Context, msgs []Message, opts ...GenOption) (string, error) {
	contents := toContents(msgs)
	gcfg := c.configFor(opts)

	var resp *genai.GenerateContentResponse
	err := c.rotate(ctx, c.chatRing, "chat", len(contents), func(cl *genai.Client) error {
		r, err := cl.Models.GenerateContent(ctx, c.model, contents, gcfg)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateStream streams a reply for the given transcript on group A.
//
// Rotation only happens while nothing has been yielded; once the first
// chunk reaches the consumer a failure surfaces as-is, because partial
// output cannot be retracted.
func (c *Client) GenerateStream(ctx context.Context, msgs []Message, opts ...GenOption) iter.Seq2[string, error] {
	contents := toContents(msgs)
	gcfg := c.configFor(opts)

	return func(yield func(string, error) bool) {
		var lastErr error
		for attempt := 1; attempt <= c.chatRing.Len(); attempt++ {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			key, idx := c.chatRing.Current()
			cl, err := c.clientFor(ctx, key)
			if err == nil {
				started := false
				failed := false
				for resp, serr := range cl.Models.GenerateContentStream(ctx, c.model, contents, gcfg) {
					if serr != nil {
						if started {
							yield("", serr)
							return
						}
						err = serr
						failed = true
						break
					}
					chunk := resp.Text()
					if chunk == "" {
						continue
					}
					started = true
					if !yield(chunk, nil) {
						return
					}
				}
				if !failed {
					if !started {
						yield("", ErrEmptyResponse)
					}
					return
				}
			}

			lastErr = err
			c.logger.Warn("key rotation",
				"op", "chat_stream",
				"key", maskKey(key),
				"key_index", idx,
				"attempt", attempt,
				"keys", c.chatRing.Len(),
				"transcript_len", len(contents),
				"error", lastErr,
			)
			c.chatRing.Advance()
		}
		yield("", fmt.Errorf("%w: %v", ErrAllKeysFailed, lastErr))
	}
}

// GenerateOnce runs a single prompt on group B (mind maps and other
// one-shot generation).
func (c *Client) GenerateOnce(ctx context.Context, prompt string, opts ...GenOption) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	gcfg := c.configFor(opts)

	var resp *genai.GenerateContentResponse
	err := c.rotate(ctx, c.mapRing, "mindmap", len(contents), func(cl *genai.Client) error {
		r, err := cl.Models.GenerateContent(ctx, c.model, contents, gcfg)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Embed produces one vector per input text on group B.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	var resp *genai.EmbedContentResponse
	err := c.rotate(ctx, c.mapRing, "embed", len(contents), func(cl *genai.Client) error {
		r, err := cl.Models.EmbedContent(ctx, c.embeddingModel, contents, nil)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

// StartChat replaces the active chat slot with the given transcript.
// Passing nil starts an empty conversation.
func (c *Client) StartChat(history []Message) {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	c.slot = slices.Clone(history)
	c.active = true
}

// ResetChat drops the active chat slot.
func (c *Client) ResetChat() {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	c.slot = nil
	c.active = false
}

// ActiveChat reports whether a chat slot exists.
func (c *Client) ActiveChat() bool {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.active
}

// History returns a copy of the active chat transcript.
func (c *Client) History() []Message {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return slices.Clone(c.slot)
}

// Send appends a user turn to the active chat and returns the reply.
// The slot is created lazily on first use. On rotation the accumulated
// transcript is replayed against the next key, so a key failure never
// loses conversation state; the slot only advances after a success.
func (c *Client) Send(ctx context.Context, text string, opts ...GenOption) (string, error) {
	c.slotMu.Lock()
	if !c.active {
		c.slot = nil
		c.active = true
	}
	history := slices.Clone(c.slot)
	c.slotMu.Unlock()

	reply, err := c.Generate(ctx, append(history, Message{Role: RoleUser, Text: text}), opts...)
	if err != nil {
		return "", err
	}

	c.slotMu.Lock()
	c.slot = append(history, Message{Role: RoleUser, Text: text}, Message{Role: RoleModel, Text: reply})
	c.slotMu.Unlock()
	return reply, nil
}

// rotate runs call against the ring's current key, advancing on failure
// until the call succeeds or every key has been tried once.
func (c *Client) rotate(ctx context.Context, ring *KeyRing, op string, transcriptLen int, call func(*genai.Client) error) error {
	var lastErr error
	for attempt := 1; attempt <= ring.Len(); attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		key, idx := ring.Current()
		cl, err := c.clientFor(ctx, key)
		if err == nil {
			if err = call(cl); err == nil {
				return nil
			}
		}

		lastErr = err
		c.logger.Warn("key rotation",
			"op", op,
			"key", maskKey(key),
			"key_index", idx,
			"attempt", attempt,
			"keys", ring.Len(),
			"transcript_len", transcriptLen,
			"error", lastErr,
		)
		ring.Advance()
	}
	return fmt.Errorf("%w: %v", ErrAllKeysFailed, lastErr)
}

// clientFor returns the cached SDK client for a key, building it on
// first use.
func (c *Client) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()

	if cl, ok := c.clients[key]; ok {
		return cl, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cc.HTTPOptions.BaseURL = c.baseURL
	}
	cl, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}
	c.clients[key] = cl
	return cl, nil
}

// configFor clones the generation config when a call carries extra
// context; otherwise the shared config is reused as-is.
func (c *Client) configFor(opts []GenOption) *genai.GenerateContentConfig {
	var o genOpts
	for _, opt := range opts {
		opt(&o)
	}
	if o.extraContext == "" {
		return c.genCfg
	}

	cp := *c.genCfg
	base := ""
	if c.genCfg.SystemInstruction != nil {
		base = textOf(c.genCfg.SystemInstruction) + "\n\n"
	}
	cp.SystemInstruction = genai.NewContentFromText(base+o.extraContext, genai.RoleUser)
	return &cp
}

func toContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Text, role))
	}
	return out
}

func textOf(content *genai.Content) string {
	var s string
	for _, p := range content.Parts {
		s += p.Text
	}
	return s
}
