package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"womart-storefront/models"
)

// ErrNotFound matches a *StatusError carrying 404.
var ErrNotFound = errors.New("upstream resource not found")

// StatusError is returned when the backend replies with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// APIClient talks to the marketplace backend. Every call that needs an
// identity takes the bearer token of the current session.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Do sends one request. body, when non-nil, is encoded as JSON.
func (a *APIClient) Do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return a.client.Do(req)
}

// DecodeJSON closes resp and decodes a 2xx body into out (which may be nil).
func DecodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges credentials for a token.
func (a *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.Do(ctx, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var out models.LoginResponse
	if err := DecodeJSON(resp, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (a *APIClient) FindCouponByCode(ctx context.Context, token, code string) (*models.Coupon, error) {
	resp, err := a.Do(ctx, http.MethodGet, "/api/cupons/codigo/"+url.PathEscape(code), token, nil)
	if err != nil {
		return nil, err
	}

	var coupon models.Coupon
	if err := DecodeJSON(resp, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (a *APIClient) FindProductByID(ctx context.Context, token string, id int64) (*models.Product, error) {
	resp, err := a.Do(ctx, http.MethodGet, "/api/produtos/"+strconv.FormatInt(id, 10), token, nil)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := DecodeJSON(resp, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder submits an order. Any 2xx status counts as success; the body
// is ignored.
func (a *APIClient) CreateOrder(ctx context.Context, token string, order *models.CreateOrderRequest) error {
	resp, err := a.Do(ctx, http.MethodPost, "/api/pedidos", token, order)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, nil)
}
