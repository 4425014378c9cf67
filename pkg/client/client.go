package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/endpoints"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/parsers"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/reconcile"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/util"
)

const DefaultBaseURL = "https://www.stundenplan24.de"

var (
	ErrInvalidParameters = errors.New("parameters do not match the endpoint descriptor")

	// ErrDocumentUnavailable covers both "never published" and "expired
	// past the provider's retention window" - the two cannot be told
	// apart from the HTTP layer.
	ErrDocumentUnavailable = errors.New("no plan document available")

	ErrUnauthorized = errors.New("credentials were rejected")
	ErrNotModified  = errors.New("plan document not modified since")
)

// Client is the stateless facade tying catalog, transport and dialect
// parsers together. All fields are read-only after New, so a single Client
// is safe for concurrent use.
type Client struct {
	catalog     *endpoints.Catalog
	transport   Transport
	baseURL     string
	credentials Credentials
}

func New(catalog *endpoints.Catalog, transport Transport, baseURL string, credentials Credentials) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		catalog:     catalog,
		transport:   transport,
		baseURL:     baseURL,
		credentials: credentials,
	}
}

type FetchOptions struct {
	// Date selects the plan day on endpoints that support one.
	Date time.Time

	// Previous, when set, is reconciled with the fetched document and
	// the merged result returned. Previous itself is never modified.
	Previous *plan.PlanDocument

	IfModifiedSince time.Time
	IfNoneMatch     string
}

// Fetch resolves the endpoint, performs the authenticated retrieval, parses
// the response with the dialect parser the descriptor names and optionally
// reconciles it against a previously fetched document.
func (c *Client) Fetch(ctx context.Context, key endpoints.Key, options FetchOptions) (*plan.PlanDocument, error) {
	descriptor, err := c.catalog.Resolve(key)
	if err != nil {
		return nil, err
	}

	if err := validateParameters(descriptor, options); err != nil {
		return nil, err
	}

	response, err := c.transport.Do(ctx, Request{
		URL:             descriptor.URL(c.baseURL, c.credentials.SchoolNumber, options.Date),
		Method:          descriptor.Method,
		AuthMode:        descriptor.AuthMode,
		IfModifiedSince: options.IfModifiedSince,
		IfNoneMatch:     options.IfNoneMatch,
	}, c.credentials)
	if err != nil {
		// Transport failures are transient from the caller's point of
		// view, unlike a provider-confirmed 404.
		return nil, fmt.Errorf("fetching plan: %w", err)
	}

	if err := checkStatus(response.StatusCode); err != nil {
		return nil, err
	}

	document, err := parsers.Parse(descriptor.Dialect, response.Body)
	if err != nil {
		return nil, err
	}

	if options.Previous != nil {
		return reconcile.Merge(options.Previous, document)
	}

	return document, nil
}

func validateParameters(descriptor endpoints.Descriptor, options FetchOptions) error {
	if !options.Date.IsZero() && !descriptor.SupportsDateParam {
		return fmt.Errorf("%w: endpoint %q does not take a date", ErrInvalidParameters, descriptor.Key)
	}

	if options.Date.IsZero() && descriptor.RequiresDateParam {
		return fmt.Errorf("%w: endpoint %q requires a date", ErrInvalidParameters, descriptor.Key)
	}

	return nil
}

func checkStatus(statusCode int) error {
	switch statusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrDocumentUnavailable
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotModified:
		return ErrNotModified
	default:
		return fmt.Errorf("unexpected status code %d", statusCode)
	}
}

// The vpdir endpoint wants this exact multipart password.
const directoryPassword = "I N D I W A R E"

var directoryKeyByView = map[plan.View]endpoints.Key{
	plan.ViewStudent: endpoints.KeyMobilStudentDirectory,
	plan.ViewTeacher: endpoints.KeyMobilTeacherDirectory,
}

var directoryArtByView = map[plan.View]string{
	plan.ViewStudent: "mobk",
	plan.ViewTeacher: "mobl",
}

// AvailableFiles lists the plan files the provider currently serves for a
// view, with their last modification timestamps.
func (c *Client) AvailableFiles(ctx context.Context, view plan.View) (map[string]time.Time, error) {
	key, ok := directoryKeyByView[view]
	if !ok {
		return nil, fmt.Errorf("%w: no directory endpoint for view %q", endpoints.ErrUnknownEndpoint, view)
	}

	descriptor, err := c.catalog.Resolve(key)
	if err != nil {
		return nil, err
	}

	response, err := c.transport.Do(ctx, Request{
		URL:      descriptor.URL(c.baseURL, c.credentials.SchoolNumber, time.Time{}),
		Method:   descriptor.Method,
		AuthMode: descriptor.AuthMode,
		FormFields: map[string]string{
			"pw":  directoryPassword,
			"art": directoryArtByView[view],
		},
	}, c.credentials)
	if err != nil {
		return nil, fmt.Errorf("fetching plan file directory: %w", err)
	}

	if err := checkStatus(response.StatusCode); err != nil {
		return nil, err
	}

	files := parseDirectoryListing(string(response.Body))

	log.Debug().
		Str("view", string(view)).
		Int("files", len(files)).
		Msg("Fetched plan file directory")

	return files, nil
}

// The listing is semicolon separated "filename;dd.mm.yyyy hh:mm;..." pairs.
func parseDirectoryListing(listing string) map[string]time.Time {
	fields := strings.Split(listing, ";")
	files := map[string]time.Time{}

	for i := 0; i+1 < len(fields); i += 2 {
		filename := strings.TrimSpace(fields[i])
		if filename == "" {
			continue
		}

		modified, err := time.ParseInLocation("02.01.2006 15:04", strings.TrimSpace(fields[i+1]), util.ProviderLocation())
		if err != nil {
			continue
		}

		files[filename] = modified
	}

	return files
}
