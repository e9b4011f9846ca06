package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rapidoqa/coach-server/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiGenerator implements Generator over the Gemini API.
type GeminiGenerator struct {
	client     *genai.Client
	model      string
	attempts   int
	retryDelay time.Duration
	logger     *zap.Logger
}

type GeminiOptions struct {
	APIKey string
	Model  string
	// Attempts is the total number of tries per call. Values below 1 mean a
	// single attempt.
	Attempts   int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini generator: api key is required")
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generator: create client: %w", err)
	}

	return &GeminiGenerator{
		client:     client,
		model:      opts.Model,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		logger:     opts.Logger.Named("gemini"),
	}, nil
}

// generate runs one prompt with retries and returns the response text.
func (g *GeminiGenerator) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err == nil {
			text := strings.TrimSpace(resp.Text())
			if text != "" {
				return text, nil
			}
			err = fmt.Errorf("empty response")
		}
		lastErr = err
		g.logger.Warn("generation attempt failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < g.attempts {
			select {
			case <-ctx.Done():
				return "", &GenerationError{Op: op, Message: ctx.Err().Error()}
			case <-time.After(g.retryDelay):
			}
		}
	}
	return "", &GenerationError{Op: op, Message: lastErr.Error()}
}

// CoachingTips implements Generator.
func (g *GeminiGenerator) CoachingTips(ctx context.Context, feedback string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert customer support coach for a mobility platform called Rapido. An agent has just received the following feedback on a customer interaction where they scored below the target:
---
%s
---
Based *only* on this feedback, provide 3 specific, actionable, and constructive coaching tips in a bulleted list. The tone should be encouraging and supportive. Each tip should start with a '*' character.`, feedback)

	return g.generate(ctx, "coaching-tips", prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
		TopP:        genai.Ptr[float32](1),
		TopK:        genai.Ptr[float32](1),
	})
}

// missionSchema fixes the JSON shape of the daily-mission response.
var missionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mission": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"intro":        {Type: genai.TypeString},
				"missionTitle": {Type: genai.TypeString},
				"challenges": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
		},
		"skills": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"skill": {Type: genai.TypeString},
					"score": {Type: genai.TypeNumber},
				},
			},
		},
	},
}

// DailyMission implements Generator.
func (g *GeminiGenerator) DailyMission(ctx context.Context, audits []domain.Audit) (*MissionResult, error) {
	if len(audits) == 0 {
		return nil, nil
	}

	lines := make([]string, len(audits))
	for i, a := range audits {
		lines[i] = fmt.Sprintf("Score: %g, Feedback: %q", a.OverallScore, a.Feedback)
	}

	prompt := fmt.Sprintf(`Analyze the following customer service audit feedback for a Rapido agent. Identify their 4 key skill areas (like Empathy, Problem Solving, Communication Fluency, Process Adherence) and rate each from 1 to 100 based on the feedback. Then, create a gamified "Daily Mission" to help them improve. The mission must have a motivational intro, a catchy mission title, and 2-3 specific challenges based on their weakest areas.

Audit Data:
---
%s
---`, strings.Join(lines, "\n"))

	text, err := g.generate(ctx, "daily-mission", prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   missionSchema,
	})
	if err != nil {
		return nil, err
	}

	var result MissionResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &GenerationError{Op: "daily-mission", Message: fmt.Sprintf("malformed mission payload: %v", err)}
	}
	return &result, nil
}

// ProTip implements Generator.
func (g *GeminiGenerator) ProTip(ctx context.Context, milestoneName string) (string, error) {
	prompt := fmt.Sprintf(`You are an elite performance coach for customer support agents. An agent has just unlocked a significant milestone in their career called %q. Generate one advanced, "pro-level" tip related to this milestone that they can use to further elevate their skills. The tip should be insightful, concise, and motivational.`, milestoneName)

	return g.generate(ctx, "pro-tip", prompt, nil)
}
