package analyzer

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"

	maxLoggedBody = 256
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// newMultipartRequest builds a form with the document under fileField followed by
// the plain text fields.
func (c *Client) newMultipartRequest(ctx context.Context, path, fileField string, doc Document, fields [][2]string) (*http.Request, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(doc.Name())))
	mediaType := doc.MediaType()
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}

	content, err := doc.Open()
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("cannot read %s: %v", doc.Name(), err)}
	}
	_, err = io.Copy(part, content)
	content.Close()
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("cannot read %s: %v", doc.Name(), err)}
	}

	for _, field := range fields {
		fw, err := w.CreateFormField(field[0])
		if err != nil {
			return nil, err
		}

		if _, err = io.Copy(fw, strings.NewReader(field[1])); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+path, &b)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req, nil
}

// do executes the request and maps the answer onto the error taxonomy. When payload
// is not empty the body is decoded as a JSON object; payload names it in schema errors.
// id is reported in NotFoundError for per-analysis endpoints.
func (c *Client) do(req *http.Request, id, payload string) (map[string]any, error) {
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	log := logger.ForCall(c.logger, c.APIURL, requestID)
	op := req.Method + " " + req.URL.Path

	log.Debug("make request", zap.String("url", req.URL.String()), zap.String("method", req.Method))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &NetworkError{Op: op, Err: err}
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	log.Debug("got response", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if err := statusError(resp.StatusCode, data, id); err != nil {
		log.Warn("service rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.Preview(string(data), maxLoggedBody)),
		)
		return nil, err
	}

	if payload == "" {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, &SchemaError{Payload: payload, Reason: "response body is not a JSON object"}
	}

	return raw, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Accept", contentType)

	return req
}

func statusError(status int, body []byte, id string) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	message := errorMessage(body)

	switch {
	case status == http.StatusNotFound && id != "":
		return &NotFoundError{ID: id, Message: message}
	case status >= http.StatusInternalServerError:
		return &ServerError{StatusCode: status, Message: message}
	case status >= http.StatusBadRequest && status != http.StatusNotFound:
		if message == "" {
			message = http.StatusText(status)
		}
		return &ValidationError{StatusCode: status, Message: message}
	default:
		return &ServerError{StatusCode: status, Message: message}
	}
}

// errorMessage extracts the service's {"error": "..."} text, if any.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}

	return strings.TrimSpace(payload.Message)
}
