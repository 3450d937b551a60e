package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type RequestOptions struct {
	Method  string
	Headers map[string]string
	Query   url.Values
	// Body is sent as JSON. Form takes precedence when both are set.
	Body any
	Form url.Values
}

type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

var ErrRequestFailed = errors.New("HTTP(S)Req Failed")
var ErrResponseFailed = errors.New("Failed to gather response")

var reqClient = &http.Client{}

// StatusError reports a response whose status code the caller did not accept.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %q. Response body: %s", e.StatusCode, e.URL, e.Body)
}

func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

type RestClient struct {
	Client *http.Client
}

func (c *RestClient) Request(ctx context.Context, url string, opt *RequestOptions, ret any) (Response, error) {
	if opt == nil {
		opt = &RequestOptions{}
	}

	return Request(ctx, url, opt, ret, c.Client)
}

func Request(ctx context.Context, rawURL string, opt *RequestOptions, ret any, client *http.Client) (Response, error) {
	if opt == nil {
		opt = &RequestOptions{}
	}
	method := http.MethodGet
	if opt.Method != "" {
		method = opt.Method
	}
	var response Response

	if len(opt.Query) != 0 {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return response, fmt.Errorf("%w: invalid url %q: %w", ErrRequestFailed, rawURL, err)
		}
		q := parsed.Query()
		for key, values := range opt.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		parsed.RawQuery = q.Encode()
		rawURL = parsed.String()
	}

	var body io.Reader
	contentType := ""
	switch {
	case opt.Form != nil:
		body = strings.NewReader(opt.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case opt.Body != nil:
		encoded, err := json.Marshal(opt.Body)
		if err != nil {
			return response, fmt.Errorf("%w: failed to marshal request body: %w", ErrRequestFailed, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return response, fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range opt.Headers {
		req.Header.Set(key, value)
	}

	useClient := reqClient
	if client != nil {
		useClient = client
	}

	now := time.Now()
	resp, err := useClient.Do(req)
	response.Duration = time.Since(now)
	if err != nil {
		return response, fmt.Errorf("%w: failed to send request: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	response.StatusCode = resp.StatusCode
	response.Header = resp.Header.Clone()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response, fmt.Errorf("%w: failed to read response: %w", ErrResponseFailed, err)
	}

	response.Body = data

	if ret != nil && IsSuccess(resp.StatusCode) {
		if err := json.Unmarshal(data, ret); err != nil {
			return response, fmt.Errorf("%w: failed to parse JSON: %w. Body: %s", ErrResponseFailed, err, string(data))
		}
	}

	return response, nil
}
