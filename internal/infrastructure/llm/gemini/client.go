// Package gemini adapts Google's Gemini API to ports.LanguageModel.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

const (
	DefaultModel   = "gemini-1.5-pro"
	defaultTimeout = 30 * time.Second
)

var errEmptyReply = errors.New("empty reply")

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// contentGenerator is the subset of *genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	gen     contentGenerator
	model   string
	timeout time.Duration
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newClient(gc.Models, cfg), nil
}

func newClient(gen contentGenerator, cfg Config) *Client {
	c := &Client{gen: gen, model: cfg.Model, timeout: cfg.Timeout}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	return c
}

// Generate replays history as a chat and sends prompt as the next user message.
func (c *Client) Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Speaker == domain.SpeakerModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, errEmptyReply)
	}
	return text, nil
}
