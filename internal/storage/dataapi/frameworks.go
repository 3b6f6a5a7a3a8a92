package dataapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
)

func (s *Storage) GetFramework(ctx context.Context, slug string) (brief.Framework, error) {
	const op = "storage.dataapi.GetFramework"
	var result struct {
		Frameworks brief.Framework `json:"frameworks"`
	}

	err := s.request(ctx, http.MethodGet, "/frameworks/"+url.PathEscape(slug), nil, nil, &result)
	if err != nil {
		return brief.Framework{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.Frameworks, nil
}

func (s *Storage) GetSupplierFramework(ctx context.Context, supplierID int, frameworkSlug string) (brief.SupplierFramework, error) {
	const op = "storage.dataapi.GetSupplierFramework"
	var result struct {
		FrameworkInterest brief.SupplierFramework `json:"frameworkInterest"`
	}

	path := fmt.Sprintf("/suppliers/%d/frameworks/%s", supplierID, url.PathEscape(frameworkSlug))
	err := s.request(ctx, http.MethodGet, path, nil, nil, &result)
	if err != nil {
		return brief.SupplierFramework{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.FrameworkInterest, nil
}

type ServiceFilter struct {
	SupplierID int
	Framework  string
	Lot        string
	Status     string
}

func (s *Storage) FindServices(ctx context.Context, filter ServiceFilter) ([]brief.Service, error) {
	const op = "storage.dataapi.FindServices"
	var result struct {
		Services []brief.Service `json:"services"`
	}

	q := url.Values{}
	if filter.SupplierID != 0 {
		q.Set("supplier_id", strconv.Itoa(filter.SupplierID))
	}
	if filter.Framework != "" {
		q.Set("framework", filter.Framework)
	}
	if filter.Lot != "" {
		q.Set("lot", filter.Lot)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}

	err := s.request(ctx, http.MethodGet, "/services", q, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result.Services, nil
}

func (s *Storage) GetUser(ctx context.Context, userID int) (user.User, error) {
	const op = "storage.dataapi.GetUser"
	var result struct {
		Users user.User `json:"users"`
	}

	err := s.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, nil, &result)
	if err != nil {
		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.Users, nil
}

const AuditSendClarificationQuestion = "send_clarification_question"

type AuditEvent struct {
	Type       string         `json:"type"`
	User       string         `json:"user"`
	ObjectType string         `json:"objectType"`
	ObjectID   int            `json:"objectId"`
	Data       map[string]any `json:"data"`
}

func (s *Storage) CreateAuditEvent(ctx context.Context, event AuditEvent) error {
	const op = "storage.dataapi.CreateAuditEvent"

	body := map[string]any{"auditEvents": event}
	if err := s.request(ctx, http.MethodPost, "/audit-events", nil, body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Status returns the API's own health document.
func (s *Storage) Status(ctx context.Context) (map[string]any, error) {
	const op = "storage.dataapi.Status"
	var result map[string]any

	if err := s.request(ctx, http.MethodGet, "/_status", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}
