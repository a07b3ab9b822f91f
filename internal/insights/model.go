package insights

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// Model completes one system/user prompt pair.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type sdkModel struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewAnthropicModel creates a Model backed by the Anthropic SDK. A non-empty
// baseURL points it at a gateway. Retries are disabled.
func NewAnthropicModel(apiKey, baseURL, model string, maxTokens int64) Model {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &sdkModel{
		client:    sdk.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (m *sdkModel) Complete(ctx context.Context, system, user string) (string, error) {
	msg, err := m.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(m.model),
		MaxTokens: m.maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(user))},
	})
	if err != nil {
		return "", eris.Wrap(err, "insights: create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
