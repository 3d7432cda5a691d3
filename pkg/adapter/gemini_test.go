package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"google.golang.org/genai"

	"github.com/harukit/ideaspark/pkg/adapter"
)

func TestGenerateContent(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, adapter.WithVertex(projectID, "us-central1"))
	gt.NoError(t, err)

	contents := []*genai.Content{
		genai.NewContentFromText("Suggest one startup idea for remote dog owners.", genai.RoleUser),
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	gt.NoError(t, err)

	text, err := adapter.ResponseText(resp)
	gt.NoError(t, err)
	gt.True(t, text != "")

	t.Log("response:", text)
}

func TestNewGeminiRequiresCredential(t *testing.T) {
	ctx := context.Background()
	_, err := adapter.NewGemini(ctx)
	gt.Error(t, err)
}

func TestResponseText(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		_, err := adapter.ResponseText(nil)
		gt.Error(t, err)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := adapter.ResponseText(&genai.GenerateContentResponse{})
		gt.Error(t, err)
	})

	t.Run("joins parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{
							{Text: "1. PupConnect"},
							{Text: " - a community for remote dog owners"},
						},
					},
				},
			},
		}

		text, err := adapter.ResponseText(resp)
		gt.NoError(t, err)
		gt.Equal(t, text, "1. PupConnect - a community for remote dog owners")
	})
}
