package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmalhotra/valet/internal/httpkit"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"

	// DefaultHFModel is a simple, widely supported text-generation model.
	DefaultHFModel = "gpt2"
)

// HFClient is a client for the Hugging Face Inference API.
type HFClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHFClient creates a Hugging Face client. An empty model selects
// [DefaultHFModel].
func NewHFClient(apiKey, model string, logger *slog.Logger) *HFClient {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = DefaultHFModel
	}
	return &HFClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultHFBaseURL,
		logger:  logger.With("provider", "huggingface"),
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(60 * time.Second),
		),
	}
}

// Hugging Face request/response types

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Name implements Client.
func (c *HFClient) Name() string { return "huggingface" }

// Generate sends a single text-generation request with the full prompt.
func (c *HFClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   MaxNewTokens,
			Temperature:    Temperature,
			ReturnFullText: false,
		},
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("calling backend", "model", c.model, "prompt_chars", len(prompt))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := httpkit.ReadErrorBody(resp.Body, 512)
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, body)
	}

	// The API returns a list of generations; the first entry carries
	// the text.
	var generations []hfGeneration
	if err := json.NewDecoder(resp.Body).Decode(&generations); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var text string
	if len(generations) > 0 {
		text = strings.TrimSpace(generations[0].GeneratedText)
	}

	c.logger.Debug("backend response", "chars", len(text))
	return text, nil
}
