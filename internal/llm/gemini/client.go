package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madhu-yavar/transaction-agent/internal/llm"
)

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

// Complete implements llm.Completer via the text model.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.cfg.TextModel, []part{{Text: prompt}})
}

// CompleteWithImage implements llm.VisionCompleter via the vision model. The
// image travels inline as base64.
func (c *Client) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image payload")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
	}
	return c.generate(ctx, c.cfg.VisionModel, parts)
}

func (c *Client) generate(ctx context.Context, model string, parts []part) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("gemini.generate.start",
		"req_id", rid,
		"model", model,
		"parts", len(parts),
		"temp", c.cfg.Temperature,
	)

	body := generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: &generationConfig{Temperature: c.cfg.Temperature},
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + model + ":generateContent"
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, c.http, url, body, headers, c.log)
	if err != nil {
		c.log.Error("gemini.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Error("gemini.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		c.log.Error("gemini.generate.no_candidates",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())

	c.log.Info("gemini.generate.ok",
		"req_id", rid,
		"model", model,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
