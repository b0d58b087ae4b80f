package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"office_presence_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
)

const (
	requestTimeout  = 10 * time.Second
	maxLoggedBody   = 2048
	topicPathPrefix = "/topics/"
)

// Client talks to the push backend's HTTP API. The bearer credential is read
// from the identity session at call time, so sends fail once the user signs
// out.
type Client struct {
	httpClient   *http.Client
	sendURL      string
	subscribeURL string
	session      user.Session
	log          *logrus.Logger
}

func NewClient(sendURL, subscribeURL string, session user.Session, log *logrus.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		sendURL:      sendURL,
		subscribeURL: subscribeURL,
		session:      session,
		log:          log,
	}
}

// Send posts a serialized envelope to the send endpoint. The response is not
// awaited for correctness: status code and body are logged only, never
// surfaced or retried.
func (c *Client) Send(ctx context.Context, payload []byte) error {
	resp, err := c.post(ctx, c.sendURL, payload)
	if err != nil {
		return err
	}
	c.logResponse("send", resp)
	return nil
}

// Subscribe adds this installation to a topic via the registration endpoint.
func (c *Client) Subscribe(ctx context.Context, topic string) error {
	body, err := json.Marshal(map[string]string{"to": topicPathPrefix + topic})
	if err != nil {
		return fmt.Errorf("encode subscribe request: %w", err)
	}
	resp, err := c.post(ctx, c.subscribeURL, body)
	if err != nil {
		return err
	}
	c.logResponse("subscribe "+topic, resp)
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("no access token for push backend: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build push backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push backend request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) logResponse(op string, resp *http.Response) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	if err != nil {
		c.log.Warnf("Push backend %s: status %d, failed to read body: %v", op, resp.StatusCode, err)
		return
	}
	if resp.StatusCode >= 300 {
		c.log.Warnf("Push backend %s: status %d, body: %s", op, resp.StatusCode, body)
		return
	}
	c.log.Debugf("Push backend %s: status %d, body: %s", op, resp.StatusCode, body)
}
