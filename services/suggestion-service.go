package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/logging"
)

// SuggestionService asks a chat-completion API for task title suggestions.
// The upstream is an external collaborator, so the call runs behind a
// circuit breaker and any failure is reported as a single internal error.
type SuggestionService struct {
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
	APIURL     string
	APIKey     string
	Model      string
}

func NewSuggestionService(httpClient *http.Client, breaker *gobreaker.CircuitBreaker, apiURL, apiKey string) *SuggestionService {
	return &SuggestionService{
		HTTPClient: httpClient,
		Breaker:    breaker,
		APIURL:     apiURL,
		APIKey:     apiKey,
		Model:      "gpt-3.5-turbo",
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SuggestTasks returns suggested task titles for a project.
func (s *SuggestionService) SuggestTasks(ctx context.Context, name, description string) ([]string, error) {
	if name == "" {
		return nil, errs.Validation("project name is required")
	}
	if description == "" {
		description = "N/A"
	}

	prompt := fmt.Sprintf(`Suggest 5 relevant task titles for a project.
Project Name: %s
Description: %s
Return only a JSON array of short task titles.`, name, description)

	result, err := s.Breaker.Execute(func() (interface{}, error) {
		return s.complete(ctx, prompt)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: AI_SUGGESTION_FAILED, Description: Task suggestion call failed: %v", err)
		return nil, errs.Internal("failed to generate task suggestions", err)
	}

	content := result.(string)

	var suggestions []string
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, errs.Internal("failed to generate task suggestions", err)
	}
	return suggestions, nil
}

func (s *SuggestionService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    s.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, payload)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
