package llm

import "context"

const staticDefaultText = "I'm running without a language model right now, so I can only share the raw information I have on file."

// StaticClient returns a fixed completion. It backs local development when no
// model credentials are configured and doubles as a test stand-in.
type StaticClient struct {
	Text string
}

var _ Client = (*StaticClient)(nil)

func NewStaticClient(text string) *StaticClient {
	if text == "" {
		text = staticDefaultText
	}
	return &StaticClient{Text: text}
}

func (c *StaticClient) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	return Response{Text: c.Text, StopReason: "static"}, nil
}
