package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const defaultBedrockRegion = "us-east-1"

// bedrockClient invokes models hosted on AWS Bedrock. Authentication comes
// from the AWS default credential chain, so the descriptor carries no
// credential key.
type bedrockClient struct {
	provider    string
	model       string
	client      *bedrockruntime.Client
	temperature *float64
	maxTokens   *int
}

// NewBedrockClient constructs a Bedrock runtime client. cfg.Region falls back
// to us-east-1.
func NewBedrockClient(cfg ClientConfig) (Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultBedrockRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &bedrockClient{
		provider:    cfg.Provider,
		model:       cfg.Model,
		client:      bedrockruntime.NewFromConfig(awsCfg),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *bedrockClient) Provider() string { return c.provider }
func (c *bedrockClient) Model() string    { return c.model }

type bedrockClaudeRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      *float64           `json:"temperature,omitempty"`
}

type bedrockClaudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type bedrockTitanRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount,omitempty"`
		Temperature   float64 `json:"temperature,omitempty"`
	} `json:"textGenerationConfig"`
}

type bedrockTitanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// Complete dispatches on the Bedrock model family prefix.
func (c *bedrockClient) Complete(ctx context.Context, messages []Message) (string, error) {
	switch {
	case strings.HasPrefix(c.model, "anthropic."):
		return c.completeClaude(ctx, messages)
	case strings.HasPrefix(c.model, "amazon.titan"):
		return c.completeTitan(ctx, messages)
	default:
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unsupported Bedrock model family: %s", c.model)}
	}
}

func (c *bedrockClient) invoke(ctx context.Context, body []byte) ([]byte, error) {
	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed: %w", err)
	}
	return output.Body, nil
}

func (c *bedrockClient) completeClaude(ctx context.Context, messages []Message) (string, error) {
	var systemParts []string
	var turns []anthropicMessage
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		turns = append(turns, anthropicMessage{Role: msg.Role, Content: msg.Content})
	}

	maxTokens := defaultAnthropicMaxTokens
	if c.maxTokens != nil {
		maxTokens = *c.maxTokens
	}

	body, err := json.Marshal(bedrockClaudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		System:           strings.Join(systemParts, "\n"),
		Messages:         turns,
		Temperature:      c.temperature,
	})
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	respBody, err := c.invoke(ctx, body)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}

	var parsed bedrockClaudeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (c *bedrockClient) completeTitan(ctx context.Context, messages []Message) (string, error) {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	req := bedrockTitanRequest{InputText: sb.String()}
	if c.maxTokens != nil {
		req.TextGenerationConfig.MaxTokenCount = *c.maxTokens
	}
	if c.temperature != nil {
		req.TextGenerationConfig.Temperature = *c.temperature
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	respBody, err := c.invoke(ctx, body)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}

	var parsed bedrockTitanResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(parsed.Results) == 0 {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("response contained no results")}
	}
	return parsed.Results[0].OutputText, nil
}
