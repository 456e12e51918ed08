package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client implements Identity and Backend over the REST API. It keeps the
// active session in memory and fans session changes out to subscribers,
// so one Client can serve as both capabilities for a Pipeline.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session *Session
	subs    map[int]func(*Session)
	subSeq  int
}

var (
	_ Identity = &Client{}
	_ Backend  = &Client{}
)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		subs: make(map[int]func(*Session)),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Id    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Name  string    `json:"name"`
	} `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type uploadResponse struct {
	Document Document `json:"document"`
}

func (c *Client) EstablishSession(ctx context.Context, email, password string) (*Session, error) {
	var res loginResponse
	err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}

	session := &Session{
		Identity: res.User.Id,
		Email:    res.User.Email,
		Token:    res.AccessToken,
	}
	c.setSession(session)
	return session, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.call(ctx, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, nil)
}

func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

func (c *Client) OnSessionChange(fn func(*Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subSeq++
	key := c.subSeq
	c.subs[key] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, key)
	}
}

func (c *Client) EndSession(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	var err error
	if session != nil {
		err = c.call(ctx, http.MethodPost, "/api/v1/auth/logout", session.Token, nil, nil)
	}
	c.setSession(nil)
	return err
}

func (c *Client) FetchState(ctx context.Context, token string) (*State, error) {
	var state State
	if err := c.call(ctx, http.MethodGet, "/api/v1/state", token, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) SubmitUpload(ctx context.Context, token string, upload Upload) (*Document, error) {
	var res uploadResponse
	err := c.call(ctx, http.MethodPost, "/api/v1/documents", token, map[string]string{
		"name":    upload.Name,
		"type":    upload.Type,
		"content": upload.Content,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Document, nil
}

func (c *Client) setSession(session *Session) {
	c.mu.Lock()
	c.session = session
	subs := make([]func(*Session), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}

func (c *Client) call(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBytes, &env); err != nil {
		return fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return fmt.Errorf("api error: status %d, message %s", resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return nil
}
