package recraft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dukex/operion-recraft/pkg/nodes/recraft"

// Response is a completed HTTP exchange, whatever its status code.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client dispatches RequestDescriptors to the Recraft API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a client. A nil httpClient selects a fresh http.Client; timeouts come from
// each descriptor.
func NewClient(baseURL string, httpClient *http.Client, tracer trace.Tracer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     tracer,
	}
}

// Do sends the request. A non-nil error means no HTTP response was obtained.
func (c *Client) Do(ctx context.Context, d *models.RequestDescriptor) (*Response, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "recraft.dispatch",
		attribute.String(otelhelper.OperationKey, d.Operation.String()),
		attribute.String(otelhelper.HTTPMethodKey, d.Method),
		attribute.String(otelhelper.HTTPPathKey, d.Path),
	)
	defer span.End()

	if d.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, d)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response: %w", err)
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.HTTPStatusKey, resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		otelhelper.SetError(span, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, d *models.RequestDescriptor) (*http.Request, error) {
	target := c.baseURL + d.Path

	if len(d.Query) > 0 {
		q := url.Values{}
		for k, v := range d.Query {
			q.Set(k, v)
		}

		target += "?" + q.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case d.IsMultipart() || len(d.Form) > 0:
		buf, ct, err := encodeMultipart(d)
		if err != nil {
			return nil, fmt.Errorf("failed to encode multipart body: %w", err)
		}

		body, contentType = buf, ct
	case d.JSONBody != nil:
		data, err := json.Marshal(d.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON body: %w", err)
		}

		body, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range d.Headers {
		req.Header.Set(key, value)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(d *models.RequestDescriptor) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range d.Form {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range d.Files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.Name), quoteEscaper.Replace(file.FileName)))

		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h.Set("Content-Type", contentType)

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", err
		}

		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}
