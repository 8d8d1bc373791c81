// Package facades wraps the external generative-text service behind a small
// client the services layer can mock.
package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/artisanhub/artisan-stories/internal/logger"
)

// ErrGenerationFailed is returned for any upstream failure. The caller treats
// it as retryable by the user, never fatal to the process.
var ErrGenerationFailed = errors.New("failed to generate story content")

// GenerationFacade calls a Gemini-style generateContent REST endpoint.
// The client carries no timeout; cancellation comes from the request context.
type GenerationFacade struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGenerationFacade(baseURL, apiKey, model string) *GenerationFacade {
	return &GenerationFacade{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

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

// GenerateStoryContent builds the artisan story prompt from the supplied
// fields and returns the generated text.
func (f *GenerationFacade) GenerateStoryContent(ctx context.Context, prompt, title, introduction, materials, techniques string) (string, error) {
	fullPrompt := fmt.Sprintf(
		"Create a compelling story about a handmade craft based on the following information: "+
			"Title: %s, Introduction: %s, Materials: %s, Techniques: %s. Additional context: %s. "+
			"Write an engaging, descriptive story from the artisan's first-person perspective.",
		title, introduction, materials, techniques, prompt,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: fullPrompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", f.baseURL, f.model, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Log.Errorw("generation request failed", "model", f.model, "error", err)
		return "", ErrGenerationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream, _ := io.ReadAll(resp.Body)
		logger.Log.Errorw("generation upstream error",
			"model", f.model,
			"status", resp.StatusCode,
			"body", string(upstream),
		)
		return "", ErrGenerationFailed
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Log.Errorw("generation decode failed", "model", f.model, "error", err)
		return "", ErrGenerationFailed
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		logger.Log.Errorw("generation returned no candidates", "model", f.model)
		return "", ErrGenerationFailed
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
