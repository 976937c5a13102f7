package concepts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockExtractor extracts concepts with an AWS Bedrock model. It implements
// the same Extractor contract as PatternExtractor; on any Bedrock failure it
// falls back to the pattern extractor so callers always get a usable result.
// All data stays within AWS — no external API calls.
type BedrockExtractor struct {
	client   *bedrockruntime.Client
	modelID  string
	region   string
	fallback *PatternExtractor
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

const conceptSystemPrompt = `You are a concept extraction service for a content strategy platform.
Given a piece of social content, extract conceptual entities and respond ONLY with a JSON array.
Each element: {"type":"HOT_TAKE"|"BELIEF"|"TOPIC"|"CLAIM","text":"...","confidence":0.0-1.0,
"sentiment":"positive"|"negative"|"neutral","properties":{"engagement_potential":0.0-1.0}}.
Do not include any prose outside the JSON array.`

// NewBedrockExtractor creates a Bedrock-backed extractor using the default
// AWS credential chain.
func NewBedrockExtractor(modelID string) (*BedrockExtractor, error) {
	ctx := context.Background()

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}

	be := &BedrockExtractor{
		client:   bedrockruntime.NewFromConfig(cfg),
		modelID:  modelID,
		region:   region,
		fallback: NewPatternExtractor(),
	}

	log.Printf("BedrockExtractor: Initialized with model=%s, region=%s", modelID, region)
	return be, nil
}

// Extract calls Bedrock and parses its JSON answer. Any failure degrades to
// the deterministic pattern extractor rather than returning an error.
func (b *BedrockExtractor) Extract(ctx context.Context, text string, contextMap map[string]string) ([]ConceptualEntity, error) {
	userMessage := "Content:\n" + text
	if len(contextMap) > 0 {
		ctxJSON, _ := json.Marshal(contextMap)
		userMessage += "\n\nContext: " + string(ctxJSON)
	}

	request := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        2000,
		System:           conceptSystemPrompt,
		Messages: []bedrockMessage{
			{Role: "user", Content: []bedrockContentBlock{{Type: "text", Text: userMessage}}},
		},
		Temperature: 0.0,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		log.Printf("BedrockExtractor: marshal failed, using pattern fallback: %v", err)
		return b.fallback.Extract(ctx, text, contextMap)
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		log.Printf("BedrockExtractor: Bedrock API error, using pattern fallback: %v", err)
		return b.fallback.Extract(ctx, text, contextMap)
	}

	var response bedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		log.Printf("BedrockExtractor: response parse failed, using pattern fallback: %v", err)
		return b.fallback.Extract(ctx, text, contextMap)
	}

	var responseText string
	for _, content := range response.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	var entities []ConceptualEntity
	if err := json.Unmarshal([]byte(responseText), &entities); err != nil {
		log.Printf("BedrockExtractor: entity JSON parse failed, using pattern fallback: %v", err)
		return b.fallback.Extract(ctx, text, contextMap)
	}

	log.Printf("BedrockExtractor: extracted %d entities (in: %d tokens, out: %d tokens)",
		len(entities), response.Usage.InputTokens, response.Usage.OutputTokens)
	return entities, nil
}
