package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/renttrust/renttrust/pkg/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// ReviewVerdict is the outcome of judging a single review submission.
type ReviewVerdict struct {
	IsValid          bool   `json:"isValid"`
	Reason           string `json:"reason"`
	TrustScoreImpact int    `json:"trustScoreImpact"`
	Source           string `json:"-"` // oracle or fallback
}

// AggregateVerdict is the outcome of judging a user's full review history.
type AggregateVerdict struct {
	Summary            string   `json:"summary"`
	IdentifiedIssues   []string `json:"identifiedIssues"`
	FairnessAssessment string   `json:"fairnessAssessment"`
	Source             string   `json:"-"`
}

// ImageVerdict is the outcome of judging an avatar or evidence image.
type ImageVerdict struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
	Source  string `json:"-"`
}

type generateFunc func(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error)

// OracleService consults the external judgment oracle. Every public method
// degrades to a deterministic local result when the oracle path fails; none
// of them ever returns an error to the caller.
type OracleService struct {
	db            *gorm.DB
	config        *config.OracleConfig
	configService *SystemConfigService

	// generate is the provider call, replaceable in tests.
	generate generateFunc
}

func NewOracleService(db *gorm.DB, cfg *config.OracleConfig) *OracleService {
	s := &OracleService{
		db:     db,
		config: cfg,
	}
	if db != nil {
		s.configService = NewSystemConfigService(db)
	}
	s.generate = s.callProvider
	return s
}

// JudgeReview asks the oracle whether a submitted review is credible and what
// trust-score impact it carries. Oracle failure of any kind (network,
// timeout, malformed reply, missing fields) routes to the deterministic
// fallback scorer, which always reports a valid review. The returned impact
// is clamped to [-20, 20] regardless of source.
func (s *OracleService) JudgeReview(ctx context.Context, rating int, reviewText string, issueTags []string, evidenceURL string) *ReviewVerdict {
	prompt := buildReviewPrompt(rating, reviewText, issueTags, evidenceURL)

	reply, err := s.consult(ctx, prompt)
	if err != nil {
		logger.Warnf("[Oracle] Review judgment failed, using fallback scorer: %v", err)
		return FallbackVerdict(rating, issueTags)
	}

	verdict, err := parseReviewVerdict(reply)
	if err != nil {
		logger.Warnf("[Oracle] Unusable review reply (%v), using fallback scorer", err)
		return FallbackVerdict(rating, issueTags)
	}

	verdict.TrustScoreImpact = ClampImpact(verdict.TrustScoreImpact)
	verdict.Source = models.VerdictSourceOracle
	return verdict
}

// JudgeAggregate summarizes a user's valid reviews. With zero reviews the
// oracle is never consulted.
func (s *OracleService) JudgeAggregate(ctx context.Context, reviews []ReviewInput) *AggregateVerdict {
	if len(reviews) == 0 {
		return FallbackAggregate(nil)
	}

	prompt := buildAggregatePrompt(reviews)

	reply, err := s.consult(ctx, prompt)
	if err != nil {
		logger.Warnf("[Oracle] Aggregate judgment failed, using fallback summary: %v", err)
		return FallbackAggregate(reviews)
	}

	verdict, err := parseAggregateVerdict(reply)
	if err != nil {
		logger.Warnf("[Oracle] Unusable aggregate reply (%v), using fallback summary", err)
		return FallbackAggregate(reviews)
	}

	verdict.Source = models.VerdictSourceOracle
	return verdict
}

// JudgeImage checks whether an image is appropriate as an avatar. Accepts the
// image when the oracle path fails.
func (s *OracleService) JudgeImage(ctx context.Context, imageURL string) *ImageVerdict {
	prompt := buildImagePrompt(imageURL)

	reply, err := s.consult(ctx, prompt)
	if err != nil {
		logger.Warnf("[Oracle] Image judgment failed, accepting image: %v", err)
		return &ImageVerdict{IsValid: true, Reason: "AI verification unavailable, accepting image", Source: models.VerdictSourceFallback}
	}

	verdict, err := parseImageVerdict(reply)
	if err != nil {
		logger.Warnf("[Oracle] Unusable image reply (%v), accepting image", err)
		return &ImageVerdict{IsValid: true, Reason: "AI verification unavailable, accepting image", Source: models.VerdictSourceFallback}
	}

	verdict.Source = models.VerdictSourceOracle
	return verdict
}

// consult sends the prompt to each configured oracle in order until one
// answers, bounded by the configured timeout.
func (s *OracleService) consult(ctx context.Context, prompt string) (string, error) {
	configs := s.getOrderedOracleConfigs()
	if len(configs) == 0 {
		return "", fmt.Errorf("no oracle configuration available")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var lastErr error
	for i, oc := range configs {
		logger.Infof("[Oracle] Attempting oracle %d/%d: %s (provider: %s, model: %s)", i+1, len(configs), oc.Name, oc.Provider, oc.Model)

		reply, err := s.generate(ctx, &oc, prompt)
		if err == nil {
			logger.Infof("[Oracle] Success with oracle: %s, reply length: %d chars", oc.Name, len(reply))
			return reply, nil
		}

		lastErr = err
		logger.Infof("[Oracle] Oracle %s failed: %v, trying next...", oc.Name, err)
	}

	return "", fmt.Errorf("all oracles failed, last error: %w", lastErr)
}

func (s *OracleService) timeout() time.Duration {
	seconds := s.config.TimeoutSeconds
	if s.configService != nil {
		if v, err := strconv.Atoi(s.configService.GetWithDefault("oracle_timeout_seconds", "")); err == nil && v > 0 {
			seconds = v
		}
	}
	if seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

// getOrderedOracleConfigs returns the oracle chain: default first, remaining
// active configs by id, then the config-file settings as the last resort.
func (s *OracleService) getOrderedOracleConfigs() []models.OracleConfig {
	var configs []models.OracleConfig

	if s.db != nil {
		var defaultConfig models.OracleConfig
		if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&defaultConfig).Error; err == nil {
			configs = append(configs, defaultConfig)
		}

		var backupConfigs []models.OracleConfig
		existingIDs := make(map[uint]bool)
		for _, c := range configs {
			existingIDs[c.ID] = true
		}
		s.db.Where("is_active = ?", true).Order("id ASC").Find(&backupConfigs)
		for _, c := range backupConfigs {
			if !existingIDs[c.ID] {
				configs = append(configs, c)
			}
		}
	}

	if s.config != nil && (s.config.APIKey != "" || s.config.Provider == "ollama") {
		configs = append(configs, models.OracleConfig{
			Name:     "config-file",
			Provider: s.config.Provider,
			BaseURL:  s.config.BaseURL,
			APIKey:   s.config.APIKey,
			Model:    s.config.Model,
		})
	}

	return configs
}

// callProvider dispatches to the provider-specific call based on the
// oracle config's Provider field.
func (s *OracleService) callProvider(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	switch oc.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, oc, prompt)
	case "ollama":
		return s.callOllama(ctx, oc, prompt)
	case "openai":
		return s.callOpenAI(ctx, oc, prompt)
	case "azure":
		return s.callAzure(ctx, oc, prompt)
	default:
		// gemini is the primary provider
		return s.callGemini(ctx, oc, prompt)
	}
}

// callGemini handles Google Gemini API using the native SDK
func (s *OracleService) callGemini(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: oc.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := oc.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

// callOpenAI handles OpenAI and OpenAI-compatible APIs (including custom endpoints)
func (s *OracleService) callOpenAI(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(oc.APIKey)
	if oc.BaseURL != "" {
		clientConfig.BaseURL = oc.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.3)
	if oc.Temperature > 0 {
		temperature = float32(oc.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: oc.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// callAzure handles Azure OpenAI; BaseURL is the resource endpoint and Model
// is the deployment name.
func (s *OracleService) callAzure(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultAzureConfig(oc.APIKey, oc.BaseURL)
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.3)
	if oc.Temperature > 0 {
		temperature = float32(oc.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: oc.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// callAnthropic handles Anthropic Claude API using the native SDK
func (s *OracleService) callAnthropic(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(oc.APIKey),
	)

	maxTokens := int64(oc.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	model := oc.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return content.String(), nil
}

// callOllama handles Ollama API using the native SDK
func (s *OracleService) callOllama(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
	baseURL := oc.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := oc.Model
	if model == "" {
		model = "llama3"
	}

	stream := false
	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": oc.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}

// --- Reply parsing ---

// extractJSONObject locates the first balanced {...} substring in an oracle
// reply. Replies routinely wrap the JSON object in prose or markdown fences.
func extractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}

	return "", false
}

func parseReviewVerdict(reply string) (*ReviewVerdict, error) {
	obj, ok := extractJSONObject(reply)
	if !ok {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var payload struct {
		IsValid          *bool    `json:"isValid"`
		Reason           *string  `json:"reason"`
		TrustScoreImpact *float64 `json:"trustScoreImpact"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("malformed JSON object: %w", err)
	}
	if payload.IsValid == nil || payload.Reason == nil || payload.TrustScoreImpact == nil {
		return nil, fmt.Errorf("reply missing required fields")
	}

	return &ReviewVerdict{
		IsValid:          *payload.IsValid,
		Reason:           *payload.Reason,
		TrustScoreImpact: int(*payload.TrustScoreImpact),
	}, nil
}

func parseAggregateVerdict(reply string) (*AggregateVerdict, error) {
	obj, ok := extractJSONObject(reply)
	if !ok {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var payload struct {
		Summary            *string  `json:"summary"`
		IdentifiedIssues   []string `json:"identifiedIssues"`
		FairnessAssessment string   `json:"fairnessAssessment"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("malformed JSON object: %w", err)
	}
	if payload.Summary == nil {
		return nil, fmt.Errorf("reply missing summary")
	}

	issues := payload.IdentifiedIssues
	if issues == nil {
		issues = []string{}
	}

	fairness := payload.FairnessAssessment
	switch fairness {
	case models.FairnessPositive, models.FairnessNegative, models.FairnessNeutral:
	default:
		fairness = models.FairnessNeutral
	}

	return &AggregateVerdict{
		Summary:            *payload.Summary,
		IdentifiedIssues:   issues,
		FairnessAssessment: fairness,
	}, nil
}

func parseImageVerdict(reply string) (*ImageVerdict, error) {
	obj, ok := extractJSONObject(reply)
	if !ok {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var payload struct {
		IsValid *bool   `json:"isValid"`
		Reason  *string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("malformed JSON object: %w", err)
	}
	if payload.IsValid == nil || payload.Reason == nil {
		return nil, fmt.Errorf("reply missing required fields")
	}

	return &ImageVerdict{IsValid: *payload.IsValid, Reason: *payload.Reason}, nil
}

// --- Prompt construction ---

func buildReviewPrompt(rating int, reviewText string, issueTags []string, evidenceURL string) string {
	tags := "None specified"
	if len(issueTags) > 0 {
		tags = strings.Join(issueTags, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant analyzing a rental review for credibility and fairness.\n\n")
	b.WriteString("Review Details:\n")
	fmt.Fprintf(&b, "- Rating: %d/5 stars\n", rating)
	fmt.Fprintf(&b, "- Review Text: %q\n", reviewText)
	fmt.Fprintf(&b, "- Issue Types: %s\n", tags)
	if evidenceURL != "" {
		fmt.Fprintf(&b, "- Evidence Image: %s\n", evidenceURL)
	}
	b.WriteString(`
Please analyze this review for:
1. Credibility: Does the review text align with the rating?
2. Evidence consistency: If an image is provided, does it support the claims?
3. Fairness: Is the review balanced and constructive?
4. Trust score impact: Based on rating, severity, and evidence strength

Respond with a JSON object containing:
{
  "isValid": boolean,
  "reason": "Brief explanation of credibility decision",
  "trustScoreImpact": number (between -20 and +20)
}

Guidelines:
- 5-star reviews with positive text: +10 to +20 impact
- 4-star reviews with constructive feedback: +5 to +15 impact
- 3-star reviews: 0 to +5 impact
- 2-star reviews with valid issues: -5 to -15 impact
- 1-star reviews with serious issues: -10 to -20 impact
- Invalid or malicious reviews: 0 impact
`)
	return b.String()
}

func buildAggregatePrompt(reviews []ReviewInput) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant analyzing multiple rental reviews for a user to provide insights about their reliability and reputation.\n\n")
	b.WriteString("Reviews to analyze:\n")
	for _, r := range reviews {
		fmt.Fprintf(&b, "Rating: %d/5 - %q - Issues: %s\n\n", r.Rating, r.ReviewText, strings.Join(r.IssueTags, ", "))
	}
	b.WriteString(`Please provide a comprehensive analysis and respond with a JSON object containing:
{
  "summary": "Overall assessment of reliability based on all reviews",
  "identifiedIssues": ["list", "of", "recurring", "issues"],
  "fairnessAssessment": "positive|negative|neutral"
}

Focus on:
1. Overall reliability patterns
2. Recurring positive or negative themes
3. Fairness of the review collection (are they balanced or biased?)
4. Specific issues that appear multiple times
`)
	return b.String()
}

func buildImagePrompt(imageURL string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant verifying if an uploaded image is appropriate for a user avatar.\n\n")
	fmt.Fprintf(&b, "Image URL: %s\n", imageURL)
	b.WriteString(`
Please analyze this image and respond with a JSON object:
{
  "isValid": boolean,
  "reason": "Brief explanation"
}

The image should:
- Contain a human face
- Be appropriate and professional
- Not contain inappropriate content
- Be clear and recognizable
`)
	return b.String()
}
