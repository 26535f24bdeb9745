package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"serenity/internal/platform/httpclient"
	"serenity/internal/ports/chat"
)

var (
	ErrNotConfigured = errors.New("gemini client not configured")
	ErrUpstream      = errors.New("gemini upstream error")
	ErrEmptyReply    = errors.New("gemini empty reply")
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
)

// Config del cliente Gemini.
// APIKey normalmente viene de env vars en el servicio que lo instancie.
type Config struct {
	APIKey  string
	BaseURL string // opcional; default DefaultBaseURL
	Model   string // opcional; default DefaultModel

	Timeout time.Duration
}

type Client struct {
	apiKey string
	model  string
	http   *httpclient.Client
}

var _ chat.Generator = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
		http:   hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// wire types del endpoint generateContent (v1beta)
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate manda el prompt a Gemini y devuelve el texto del primer candidato.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyReply
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)

	in := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	var out generateResponse
	err := c.http.DoJSON(ctx, "POST", path, map[string]string{
		"x-goog-api-key": c.apiKey,
	}, in, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return "", fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	for _, cand := range out.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, nil
		}
	}

	return "", ErrEmptyReply
}
