package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errReadBody = errors.New("read response body")

// fields checked, in order, for a server provided error message
var errorMessageFields = []string{"detail", "message"}

func normalize[T any](resp *http.Response) Result[T] {
	defer drainAndClose(resp.Body)

	body, readErr := readBody(resp)
	if readErr != nil {
		readErr = fmt.Errorf("%w: %w", errReadBody, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var info *ErrorInfo
		if readErr != nil {
			info = newErrorInfo(KindHTTP, readErr.Error(), readErr)
		} else {
			info = newErrorInfo(KindHTTP, httpErrorMessage(resp.StatusCode, body), nil)
		}
		info.StatusCode = resp.StatusCode
		return Failure[T](info)
	}

	if readErr != nil {
		info := newErrorInfo(KindParse, readErr.Error(), readErr)
		info.StatusCode = resp.StatusCode
		return Failure[T](info)
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		info := newErrorInfo(KindParse, fmt.Sprintf("failed to parse response: %s", err), err)
		info.StatusCode = resp.StatusCode
		return Failure[T](info)
	}

	return Success(value)
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	return io.ReadAll(resp.Body)
}

// httpErrorMessage derives the message of a failure response:
// detail, then message, then the raw text, then the status code.
func httpErrorMessage(statusCode int, body []byte) string {
	text := string(body)
	if len(body) == 0 {
		return fmt.Sprintf("HTTP %d", statusCode)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil || parsed == nil {
		return text
	}

	for _, field := range errorMessageFields {
		if msg, ok := messageValue(parsed[field]); ok {
			return msg
		}
	}

	return text
}

// messageValue reports whether v is a usable message: empty strings,
// zeros, false and null are not. Non-string values are kept as compact JSON.
func messageValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		if !val {
			return "", false
		}
	case float64:
		if val == 0 {
			return "", false
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(bytes.TrimSpace(raw)), true
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	// read a bit of what's left so the connection can be reused
	_, _ = io.CopyN(io.Discard, body, 4096)
	_ = body.Close()
}
