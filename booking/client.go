package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hsinyu-lin/classroom_booking/models"
)

// Client talks to the reservation server's JSON surface. It implements the
// planner's API interface and carries an optional bearer token on every
// request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used on subsequent requests. An empty
// token makes requests anonymous again.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := c.do(ctx, http.MethodGet, "/api/classrooms", nil, &classrooms); err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (c *Client) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", input, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is the flat token+profile payload register and login return.
type AuthResponse struct {
	Token string  `json:"token"`
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// Register creates an account and installs the returned token on the client.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentialsRequest{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Me fetches the authenticated profile, restoring session context from the
// installed token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// APIError is a non-2xx response decoded from the server's {message} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
