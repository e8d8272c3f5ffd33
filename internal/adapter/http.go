package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

const apiPrefix = "/api/v1"

type httpAPIClient struct {
	client *resty.Client

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPAPIClient constructs a REST implementation of [APIClient].
// It normalises the base URL from cfg.HTTPAddress (a missing scheme means
// http) and configures the request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a URL.
func NewHTTPAPIClient(cfg config.ClientAdapter, logger *logger.Logger) (APIClient, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpAPIClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAPIClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpAPIClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Version GETs /api/version and returns the plain-text body.
func (h *httpAPIClient) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

// Signup POSTs to /api/v1/auth/signup. The server echoes the accepted
// username and email.
func (h *httpAPIClient) Signup(ctx context.Context, req models.SignupRequest) (models.SignupRequest, error) {
	var accepted models.SignupRequest

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&accepted).
		Post(apiPrefix + "/auth/signup")
	if err != nil {
		return models.SignupRequest{}, fmt.Errorf("signup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Err(err).Str("func", "*httpAPIClient.Signup").Msg("signup rejected")
		return models.SignupRequest{}, err
	}

	return accepted, nil
}

// ExchangeToken POSTs to /api/v1/auth/token and stores the returned token.
func (h *httpAPIClient) ExchangeToken(ctx context.Context, req models.TokenRequest) (string, error) {
	var token models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&token).
		Post(apiPrefix + "/auth/token")
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if token.Token == "" {
		return "", fmt.Errorf("token response carries no token")
	}

	h.SetToken(token.Token)
	return token.Token, nil
}

func (h *httpAPIClient) Me(ctx context.Context) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get(apiPrefix + "/users/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpAPIClient) UpdateMe(ctx context.Context, patch models.UserPatch) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&user).
		Patch(apiPrefix + "/users/me")
	if err != nil {
		return models.User{}, fmt.Errorf("update me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpAPIClient) ListTitles(ctx context.Context, page int) (models.Page[models.Title], error) {
	var titles models.Page[models.Title]

	resp, err := h.pagedRequest(ctx, page).
		SetResult(&titles).
		Get(apiPrefix + "/titles")
	if err != nil {
		return titles, fmt.Errorf("list titles request: %w", err)
	}

	return titles, mapHTTPError(resp)
}

func (h *httpAPIClient) ListReviews(ctx context.Context, titleID int64, page int) (models.Page[models.Review], error) {
	var reviews models.Page[models.Review]

	resp, err := h.pagedRequest(ctx, page).
		SetPathParam("title_id", strconv.FormatInt(titleID, 10)).
		SetResult(&reviews).
		Get(apiPrefix + "/titles/{title_id}/reviews")
	if err != nil {
		return reviews, fmt.Errorf("list reviews request: %w", err)
	}

	return reviews, mapHTTPError(resp)
}

func (h *httpAPIClient) CreateReview(ctx context.Context, titleID int64, input models.ContentInput) (models.Review, error) {
	var review models.Review

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("title_id", strconv.FormatInt(titleID, 10)).
		SetBody(input).
		SetResult(&review).
		Post(apiPrefix + "/titles/{title_id}/reviews")
	if err != nil {
		return models.Review{}, fmt.Errorf("create review request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Review{}, err
	}

	return review, nil
}

func (h *httpAPIClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (h *httpAPIClient) pagedRequest(ctx context.Context, page int) *resty.Request {
	req := h.authedRequest(ctx)
	if page > 1 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}
	return req
}
