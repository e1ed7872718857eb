package assistant

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"rirekisho/pkg/requestcontext"
)

// OpenAIClient implements Completer over the OpenAI chat completions API.
// A per-request key from the request context overrides the server key; with
// neither, calls fail up front with an authentication error.
type OpenAIClient struct {
	client       openai.Client
	model        openai.ChatModel
	hasServerKey bool
}

// NewOpenAI constructs the production completer. The server key may be empty
// when every caller supplies their own.
func NewOpenAI(apiKey, model string) *OpenAIClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		model:        openai.ChatModel(model),
		hasServerKey: apiKey != "",
	}
}

func (c *OpenAIClient) requestOptions(ctx context.Context) ([]option.RequestOption, error) {
	if key := requestcontext.APIKey(ctx); key != "" {
		return []option.RequestOption{option.WithAPIKey(key)}, nil
	}
	if !c.hasServerKey {
		return nil, NewError(CategoryAuthentication, "complete", "no API key configured", nil)
	}
	return nil, nil
}

func (c *OpenAIClient) params(req CompletionRequest) openai.ChatCompletionNewParams {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.System),
	}
	if len(req.Messages) > 0 {
		for _, m := range req.Messages {
			if m.Role == "assistant" {
				messages = append(messages, openai.AssistantMessage(m.Content))
				continue
			}
			messages = append(messages, openai.UserMessage(m.Content))
		}
	} else {
		messages = append(messages, openai.UserMessage(req.User))
	}
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}
	return params
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	opts, err := c.requestOptions(ctx)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Chat.Completions.New(ctx, c.params(req), opts...)
	if err != nil {
		return "", classify("complete", err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(CategoryBadData, "complete", "empty completion response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, req CompletionRequest, onDelta func(string)) error {
	opts, err := c.requestOptions(ctx)
	if err != nil {
		return err
	}
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(req), opts...)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onDelta(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return classify("stream", err)
	}
	return nil
}

// classify normalizes SDK and transport failures into the category taxonomy.
func classify(operation string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return NewError(CategoryAuthentication, operation, "API key rejected", err)
		case apierr.StatusCode == http.StatusTooManyRequests:
			return NewError(CategoryRateLimited, operation, "rate limited", err)
		case apierr.StatusCode >= 500:
			return NewError(CategoryProviderOutage, operation, "provider error", err)
		default:
			return NewError(CategoryBadData, operation, "request rejected", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CategoryTimeout, operation, "provider timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CategoryInternal, operation, "request canceled", err)
	}
	return NewError(CategoryProviderOutage, operation, "provider unreachable", err)
}
