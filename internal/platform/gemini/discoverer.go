package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/scholar-api/internal/config"
	"github.com/phrazzld/scholar-api/internal/discovery"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/webpage"
)

// PromptData is the data passed to the prompt template.
type PromptData struct {
	domain.DiscoveryInputs

	// CoursePageContent holds the extracted text of the course page when
	// the inputs carry a CourseURL and the fetch succeeded.
	CoursePageContent string
}

// GeminiDiscoverer implements discovery.Discoverer on the Gemini API.
type GeminiDiscoverer struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
	fetcher        webpage.Fetcher
}

// NewGeminiDiscoverer creates a discoverer from LLM configuration. The
// fetcher is optional; without one, course pages are not fetched.
func NewGeminiDiscoverer(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	fetcher webpage.Fetcher,
) (*GeminiDiscoverer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", discovery.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", discovery.ErrInvalidConfig)
	}
	if cfg.PromptTemplatePath == "" {
		return nil, fmt.Errorf("%w: prompt template path cannot be empty", discovery.ErrInvalidConfig)
	}

	templateContent, err := os.ReadFile(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			discovery.ErrInvalidConfig, cfg.PromptTemplatePath, err)
	}

	promptTemplate, err := template.New("discovery").Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			discovery.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			discovery.ErrInvalidConfig, err)
	}

	return &GeminiDiscoverer{
		logger:         logger.With(slog.String("component", "gemini_discoverer")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
		fetcher:        fetcher,
	}, nil
}

var _ discovery.Discoverer = (*GeminiDiscoverer)(nil)

// DiscoverResources implements discovery.Discoverer.
func (g *GeminiDiscoverer) DiscoverResources(
	ctx context.Context,
	inputs domain.DiscoveryInputs,
	progress discovery.ProgressFunc,
) (string, error) {
	if inputs.IsEmpty() {
		return "", discovery.ErrEmptyInputs
	}
	if progress == nil {
		progress = func(string) {}
	}

	data := PromptData{DiscoveryInputs: inputs}

	if inputs.CourseURL != "" && g.fetcher != nil {
		progress("Fetching course page")
		pageText, err := g.fetcher.FetchText(ctx, inputs.CourseURL)
		if err != nil {
			// The page is an enrichment, not a requirement.
			g.logger.WarnContext(ctx, "failed to fetch course page, continuing without it",
				slog.String("course_url", inputs.CourseURL),
				slog.String("error", err.Error()))
		} else {
			data.CoursePageContent = pageText
		}
	}

	prompt, err := g.buildPrompt(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", discovery.ErrDiscoveryFailed, err)
	}

	progress(fmt.Sprintf("Searching for resources: %s", inputs.SearchTitle()))

	report, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}
	return report, nil
}

func (g *GeminiDiscoverer) buildPrompt(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}
	return buf.String(), nil
}

// callGeminiWithRetry calls the model with exponential backoff and jitter.
// Transport errors retry; invalid responses and safety blocks do not.
func (g *GeminiDiscoverer) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)

		var transient bool
		var report string
		switch {
		case err != nil:
			// Transport-level failures are assumed retryable.
			transient = true
			err = fmt.Errorf("%w: %v", discovery.ErrTransientFailure, err)
		case resp == nil || len(resp.Candidates) == 0:
			err = fmt.Errorf("%w: no candidates in response", discovery.ErrInvalidResponse)
		case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
			err = fmt.Errorf("%w: response blocked by safety filters", discovery.ErrContentBlocked)
		case resp.Candidates[0].Content == nil:
			err = fmt.Errorf("%w: candidate has no content", discovery.ErrInvalidResponse)
		default:
			report = collectText(resp.Candidates[0].Content.Parts)
		}

		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call succeeded",
				slog.Int("attempt", attempt+1),
				slog.Int("report_length", len(report)))
			return report, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !transient {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				discovery.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", discovery.ErrTransientFailure, ctx.Err())
		}
	}
}

func collectText(parts []*genai.Part) string {
	var buf bytes.Buffer
	for _, part := range parts {
		if part != nil {
			buf.WriteString(part.Text)
		}
	}
	return buf.String()
}
