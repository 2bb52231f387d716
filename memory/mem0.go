package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/ginny/core"
)

// DefaultMem0BaseURL is the hosted Mem0 platform endpoint.
const DefaultMem0BaseURL = "https://api.mem0.ai"

var _ core.PreferenceStore = (*Mem0Store)(nil)

// Mem0Options configure the Mem0 connector.
type Mem0Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Mem0Store talks to the Mem0 memories API.
type Mem0Store struct {
	apiKey string
	opts   Mem0Options
	client *http.Client
}

// NewMem0Store creates a Mem0 connector authenticated with apiKey.
func NewMem0Store(apiKey string, optFns ...func(o *Mem0Options)) *Mem0Store {
	opts := Mem0Options{
		BaseURL: DefaultMem0BaseURL,
		Timeout: 15 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Mem0Store{apiKey: apiKey, opts: opts, client: client}
}

type mem0Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mem0AddRequest struct {
	Messages []mem0Message `json:"messages"`
	UserID   string        `json:"user_id"`
}

type mem0Memory struct {
	ID     string `json:"id"`
	Memory string `json:"memory"`
}

// Get lists the memories stored for userID.
func (s *Mem0Store) Get(ctx context.Context, userID string) ([]string, error) {
	endpoint := s.opts.BaseURL + "/v1/memories/?" + url.Values{"user_id": {userID}}.Encode()

	body, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, core.NewProviderError("mem0", "get", err)
	}

	memories, err := decodeMemories(body)
	if err != nil {
		return nil, core.NewProviderError("mem0", "get", err)
	}

	out := make([]string, 0, len(memories))
	for _, m := range memories {
		if m.Memory != "" {
			out = append(out, m.Memory)
		}
	}
	return out, nil
}

// Put adds statement as a user message to the user's memories.
func (s *Mem0Store) Put(ctx context.Context, userID, statement string) error {
	payload, err := json.Marshal(mem0AddRequest{
		Messages: []mem0Message{{Role: "user", Content: statement}},
		UserID:   userID,
	})
	if err != nil {
		return fmt.Errorf("encode mem0 request: %w", err)
	}

	if _, err := s.do(ctx, http.MethodPost, s.opts.BaseURL+"/v1/memories/", payload); err != nil {
		return core.NewProviderError("mem0", "put", err)
	}
	return nil
}

func (s *Mem0Store) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// decodeMemories accepts both a bare array and the paginated
// {"results": [...]} envelope.
func decodeMemories(body []byte) ([]mem0Memory, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []mem0Memory
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode memories: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Results []mem0Memory `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	return envelope.Results, nil
}
