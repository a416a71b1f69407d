package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sagescript/sage_go_server/config"
	"github.com/sagescript/sage_go_server/internal/model"
)

// HTTPGenerator 调用外部生成网关的 Generator 实现。
// 网关内部怎么调 LLM 与本服务无关，这里只关心请求/响应契约。
type HTTPGenerator struct {
	endpoint  string
	apiKey    string
	modelName string
	client    *http.Client
}

func NewHTTPGenerator(cfg *config.GeneratorConfig) *HTTPGenerator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPGenerator{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		modelName: cfg.ModelName,
		client:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	UserStory          string `json:"user_story"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
	FrameworkChoice    string `json:"framework_choice"`
	ModelName          string `json:"model_name,omitempty"`
}

type generateResponse struct {
	TestCases []json.RawMessage `json:"test_cases"`
	Script    json.RawMessage   `json:"automation_script,omitempty"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, story *model.UserStory, framework string) (*GenerationResult, error) {
	body, err := json.Marshal(&generateRequest{
		UserStory:          story.UserStoryText,
		AcceptanceCriteria: story.AcceptanceCriteria,
		FrameworkChoice:    framework,
		ModelName:          g.modelName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode generator response: %w", err)
	}

	return &GenerationResult{
		TestCases: decoded.TestCases,
		Script:    decoded.Script,
	}, nil
}
