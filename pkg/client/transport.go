package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/endpoints"
)

// Credentials is the opaque auth material handed to the transport. The
// wrapper never reads a credentials file itself; see the hosting package
// for the file-based collaborator.
type Credentials struct {
	SchoolNumber string
	Username     string
	Password     string

	// SessionToken is only consulted for endpoints with
	// AuthSessionToken.
	SessionToken string
}

type Request struct {
	URL      string
	Method   string
	AuthMode endpoints.AuthMode

	// FormFields triggers a multipart/form-data body (the vpdir
	// directory endpoint wants one).
	FormFields map[string]string

	IfModifiedSince time.Time
	IfNoneMatch     string
}

type Response struct {
	StatusCode   int
	Body         []byte
	LastModified string
	ETag         string
}

// Transport performs the actual HTTP exchange. It reports transport-level
// failures only; HTTP status interpretation stays in the facade.
type Transport interface {
	Do(ctx context.Context, request Request, credentials Credentials) (*Response, error)
}

// HTTPTransport is the default Transport on net/http.
type HTTPTransport struct {
	Client *http.Client
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (t *HTTPTransport) Do(ctx context.Context, request Request, credentials Credentials) (*Response, error) {
	var body io.Reader
	contentType := ""

	if request.FormFields != nil {
		buffer := &bytes.Buffer{}
		writer := multipart.NewWriter(buffer)

		for field, value := range request.FormFields {
			writer.WriteField(field, value)
		}
		writer.Close()

		body = buffer
		contentType = writer.FormDataContentType()
	}

	method := request.Method
	if method == "" {
		method = "GET"
	}

	req, err := http.NewRequestWithContext(ctx, method, request.URL, body)
	if err != nil {
		return nil, err
	}

	// The provider rejects unknown user agents on some hostings.
	req.Header.Set("User-Agent", "Indiware")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	switch request.AuthMode {
	case endpoints.AuthBasicCredentials:
		req.SetBasicAuth(credentials.Username, credentials.Password)
	case endpoints.AuthSessionToken:
		req.Header.Set("Authorization", "Bearer "+credentials.SessionToken)
	}

	if !request.IfModifiedSince.IsZero() {
		req.Header.Set("If-Modified-Since", request.IfModifiedSince.UTC().Format(http.TimeFormat))
	}
	if request.IfNoneMatch != "" {
		req.Header.Set("If-None-Match", request.IfNoneMatch)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:   resp.StatusCode,
		Body:         responseBody,
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
	}, nil
}
