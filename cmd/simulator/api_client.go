package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/draft-queue/internal/api/handlers"
	"github.com/dom/draft-queue/internal/domain"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Bot is a registered account the simulator plays as
type Bot struct {
	ID          domain.PlayerID
	DisplayName string
	Token       string
}

// RegisterBot creates a new account
func (c *APIClient) RegisterBot(baseName string) (*Bot, error) {
	displayName := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)
	body := map[string]string{
		"displayName": displayName,
		"password":    "testpassword123",
	}

	var result handlers.AuthResponse
	if err := c.call(http.MethodPost, "/auth/register", body, "", http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return &Bot{
		ID:          domain.PlayerID(result.Account.ID),
		DisplayName: result.Account.DisplayName,
		Token:       result.AccessToken,
	}, nil
}

// CreateSession opens a new queue for variant
func (c *APIClient) CreateSession(token string, variant domain.Variant) (*domain.Summary, error) {
	var summary domain.Summary
	body := handlers.CreateSessionRequest{Variant: variant}
	if err := c.call(http.MethodPost, "/sessions", body, token, http.StatusCreated, &summary); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &summary, nil
}

// GetSession fetches the current summary
func (c *APIClient) GetSession(token, sessionID string) (*domain.Summary, error) {
	var summary domain.Summary
	if err := c.call(http.MethodGet, "/sessions/"+sessionID, nil, token, http.StatusOK, &summary); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &summary, nil
}

// Command posts a session command such as "join" or "teams/0/score"
func (c *APIClient) Command(token, sessionID, action string, body *handlers.CommandRequest) (*handlers.CommandResponse, error) {
	var out handlers.CommandResponse
	var payload interface{}
	if body != nil {
		payload = body
	}
	if err := c.call(http.MethodPost, "/sessions/"+sessionID+"/"+action, payload, token, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return &out, nil
}

func (c *APIClient) call(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
