package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	DefaultURL     = "http://localhost:5000/"
	DefaultTimeout = 2 * time.Minute

	maxBodySize = 5 << 20
)

type request struct {
	Query string `json:"query"`
}

type response struct {
	Answer *string `json:"answer"`
	Error  string  `json:"error"`
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client asks the answer service over http. It implements models.AnswerService.
type Client struct {
	URL     string
	Timeout time.Duration

	client httpDoer
	debug  bool
}

func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL:     url,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		debug:   misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_ANSWER")),
	}
}

// Ask posts the query and returns the answer. Errors are always one of
// *ApplicationError, *TransportError or *UnexpectedError.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	req, err := c.createRequest(ctx, query)
	if err != nil {
		return "", &UnexpectedError{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", &UnexpectedError{Cause: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return "", &UnexpectedError{Cause: fmt.Errorf("failed to read response body: %w", err)}
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("answer service responded: %v, body: '%v'\n", res.Status, string(body)))
	}
	return handleResponse(res.StatusCode, res.Header.Get("Content-Type"), body)
}

func (c *Client) createRequest(ctx context.Context, query string) (*http.Request, error) {
	jsonData, err := json.Marshal(request{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleResponse(statusCode int, contentType string, body []byte) (string, error) {
	var parsed response
	decodeErr := json.Unmarshal(body, &parsed)

	// An explicit error message wins over the status code
	if decodeErr == nil && parsed.Error != "" {
		return "", &ApplicationError{StatusCode: statusCode, Msg: parsed.Error}
	}
	if statusCode < 200 || statusCode >= 300 {
		return "", &TransportError{
			StatusCode: statusCode,
			Detail:     bodyDetail(contentType, body),
		}
	}
	if decodeErr != nil {
		return "", &UnexpectedError{Cause: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	if parsed.Answer == nil {
		return "", &UnexpectedError{Cause: errors.New("response is missing field 'answer'")}
	}
	return *parsed.Answer, nil
}

func bodyDetail(contentType string, body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml+xml") {
		text, err := htmlText(bytes.NewReader(body), contentType)
		if err == nil {
			return text
		}
	}
	return strings.TrimSpace(string(body))
}
