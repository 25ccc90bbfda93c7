package directions

import (
	"ae-dashboard-service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type httpStatusError struct {
	Code int
	Body string
}

func (m *MapboxProvider) newRequest(
	ctx context.Context,
	endpoint string,
	params url.Values,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", m.token)
	req.URL.RawQuery = params.Encode()

	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do executes req and turns statuses >= 400 into *httpStatusError.
// Transport errors are wrapped with ErrNetwork; the request URL is stripped
// from them because it carries the access token.
func (m *MapboxProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := m.session.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Unwrap classifies the status: rejected input maps to ErrInput, anything
// else (auth, rate limits, 5xx) to ErrNetwork.
func (e *httpStatusError) Unwrap() error {
	if e.Code == http.StatusUnprocessableEntity || isInputCode(providerCode(e.Body)) {
		return domain.ErrInput
	}
	return domain.ErrNetwork
}

func providerCode(body string) string {
	var v struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return ""
	}
	return v.Code
}

func isInputCode(code string) bool {
	switch code {
	case "NoRoute", "NoSegment", "InvalidInput":
		return true
	}
	return false
}
