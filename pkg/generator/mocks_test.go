package generator

import (
	"context"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockAIClient struct {
	calls     int
	lastModel string
	lastParts []*genai.Part
	resp      *gemini.Response
	err       error
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.calls++
	m.lastModel = model
	m.lastParts = parts
	return m.resp, m.err
}

// factoryFor は常に同じモッククライアントを返すファクトリです。
func factoryFor(m *mockAIClient, created *int) ClientFactory {
	return func(ctx context.Context, apiKey string) (AIClient, error) {
		if created != nil {
			*created++
		}
		return m, nil
	}
}

// responseWith は指定パーツを持つ候補1件のレスポンスを作ります。
func responseWith(parts ...*genai.Part) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: parts},
			}},
		},
	}
}

func imagePart(mime string, data []byte) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}}
}
