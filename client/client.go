// Package client is a small Go consumer of the Verba API. It is
// self-contained on purpose: importing it pulls in none of the server's
// internals.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Verba server. APIKey may be empty when the server runs
// unauthenticated.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,

		// No overall timeout: streams stay open for as long as the model
		// generates.
		httpClient: &http.Client{},
	}
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	var out Conversation
	if err := c.doJSON(ctx, http.MethodPost, "/api/conversations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/conversations/"+id, nil, nil)
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var out []Message
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StreamMessage sends content to a conversation and consumes the SSE
// response. onDelta, when non-nil, observes each fragment as it arrives.
// The returned string is every fragment concatenated in emission order —
// the complete assistant reply. An in-band error event surfaces as a Go
// error, with the partial text returned alongside it.
func (c *Client) StreamMessage(
	ctx context.Context,
	conversationID, content string,
	onDelta func(text string),
) (string, error) {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return "", err
	}

	path := "/api/conversations/" + conversationID + "/messages/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromResponse(resp)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			return full.String(), fmt.Errorf("malformed stream event: %w", err)
		}

		switch ev.Type {
		case "content_block_delta":
			full.WriteString(ev.Text)
			if onDelta != nil {
				onDelta(ev.Text)
			}
		case "message_stop":
			return full.String(), nil
		case "error":
			return full.String(), errors.New(ev.Error)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), err
	}

	// The server always terminates the stream with a stop or error event;
	// reaching EOF without one means the connection broke.
	return full.String(), errors.New("stream ended without terminal event")
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
