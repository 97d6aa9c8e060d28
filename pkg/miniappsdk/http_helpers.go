package miniappsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the SDKClient's HTTP client.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON sends in as a JSON body (when not nil) and decodes the answer into out.
func (c *SDKClient) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	var body io.Reader
	headers := map[string]string{"Accept": "application/json"}
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.doRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	if out == nil {
		return checkStatus(resp, expectedStatus)
	}
	return decodeJSON(resp, out, expectedStatus)
}

// decodeJSON decodes a JSON response into the target, or returns an *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if perr := parseErrorResponse(resp, bodyBytes); perr != nil {
			return perr
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// checkStatus returns a typed error if the response status is not expectedStatus.
func checkStatus(resp *http.Response, expectedStatus int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		if perr := parseErrorResponse(resp, bodyBytes); perr != nil {
			return perr
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
