// Package notify sends templated emails through the GOV.UK Notify API.
package notify

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// EmailError is returned for any email Notify did not accept.
type EmailError struct {
	StatusCode int
	Message    string
}

func (e *EmailError) Error() string {
	return fmt.Sprintf("notify: %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	log             *slog.Logger
	baseURL         string
	serviceID       uuid.UUID
	secret          uuid.UUID
	redirectDomains map[string]string
	client          *http.Client
	now             func() time.Time
}

// New parses an API key of the form "<name>-<service id>-<secret>", where both
// ids are UUIDs.
func New(log *slog.Logger, apiKey, baseURL string, redirectDomains map[string]string) (*Client, error) {
	const op = "notify.New"

	if len(apiKey) < 74 {
		return nil, fmt.Errorf("%s: api key is too short", op)
	}
	secret, err := uuid.Parse(apiKey[len(apiKey)-36:])
	if err != nil {
		return nil, fmt.Errorf("%s: secret: %w", op, err)
	}
	serviceID, err := uuid.Parse(apiKey[len(apiKey)-73 : len(apiKey)-37])
	if err != nil {
		return nil, fmt.Errorf("%s: service id: %w", op, err)
	}

	return &Client{
		log:             log,
		baseURL:         strings.TrimRight(baseURL, "/"),
		serviceID:       serviceID,
		secret:          secret,
		redirectDomains: redirectDomains,
		client:          &http.Client{Timeout: 10 * time.Second},
		now:             time.Now,
	}, nil
}

type Email struct {
	To              string
	TemplateID      string
	Personalisation map[string]string
	Reference       string
}

type emailRequest struct {
	EmailAddress    string            `json:"email_address"`
	TemplateID      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Reference       string            `json:"reference,omitempty"`
}

// SendEmail returns the notification id Notify assigned to the email.
func (c *Client) SendEmail(ctx context.Context, email Email) (string, error) {
	const op = "notify.SendEmail"

	log := c.log.With(
		slog.String("op", op),
		slog.String("template_id", email.TemplateID),
		slog.String("reference", email.Reference),
	)

	body, err := json.Marshal(emailRequest{
		EmailAddress:    c.redirect(email.To),
		TemplateID:      email.TemplateID,
		Personalisation: email.Personalisation,
		Reference:       email.Reference,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := c.token()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/notifications/email", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, &EmailError{StatusCode: http.StatusServiceUnavailable, Message: err.Error()})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Errors []struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		message := http.StatusText(resp.StatusCode)
		if err := render.DecodeJSON(resp.Body, &payload); err == nil && len(payload.Errors) > 0 {
			message = payload.Errors[0].Message
		}
		return "", fmt.Errorf("%s: %w", op, &EmailError{StatusCode: resp.StatusCode, Message: message})
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := render.DecodeJSON(resp.Body, &created); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("email sent", slog.String("notification_id", created.ID))

	return created.ID, nil
}

func (c *Client) token() (string, error) {
	claims := jwt.MapClaims{
		"iss": c.serviceID.String(),
		"iat": c.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret.String()))
}

func (c *Client) redirect(address string) string {
	_, domain, ok := strings.Cut(address, "@")
	if !ok {
		return address
	}
	if to, ok := c.redirectDomains[strings.ToLower(domain)]; ok {
		return to
	}
	return address
}

// HashString gives a stable, non-reversible tag for an email address so it can
// be used in a Notify reference without leaking the address.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.URLEncoding.EncodeToString(sum[:])
}
