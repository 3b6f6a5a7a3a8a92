package dataapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"brief_responses/internal/models/brief"
)

func (s *Storage) GetBrief(ctx context.Context, briefID int) (brief.Brief, error) {
	const op = "storage.dataapi.GetBrief"
	var result struct {
		Briefs brief.Brief `json:"briefs"`
	}

	err := s.request(ctx, http.MethodGet, fmt.Sprintf("/briefs/%d", briefID), nil, nil, &result)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.Briefs, nil
}

// IsSupplierEligibleForBrief asks the API for the supplier's services that
// match the brief's framework, lot and role. Any match makes them eligible.
func (s *Storage) IsSupplierEligibleForBrief(ctx context.Context, supplierID, briefID int) (bool, error) {
	const op = "storage.dataapi.IsSupplierEligibleForBrief"
	var result struct {
		Services []brief.Service `json:"services"`
	}

	query := url.Values{"supplier_id": {strconv.Itoa(supplierID)}}
	err := s.request(ctx, http.MethodGet, fmt.Sprintf("/briefs/%d/services", briefID), query, nil, &result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return len(result.Services) > 0, nil
}

type ResponseFilter struct {
	BriefID    int
	SupplierID int
	Framework  string
	Statuses   []brief.ResponseStatus
	// WithData=false asks the API to leave answers out of the listing.
	WithData *bool
}

func (f ResponseFilter) query() url.Values {
	q := url.Values{}
	if f.BriefID != 0 {
		q.Set("brief_id", strconv.Itoa(f.BriefID))
	}
	if f.SupplierID != 0 {
		q.Set("supplier_id", strconv.Itoa(f.SupplierID))
	}
	if f.Framework != "" {
		q.Set("framework", f.Framework)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		q.Set("status", strings.Join(statuses, ","))
	}
	if f.WithData != nil {
		q.Set("with-data", strconv.FormatBool(*f.WithData))
	}
	return q
}

func (s *Storage) FindBriefResponses(ctx context.Context, filter ResponseFilter) ([]brief.Response, error) {
	const op = "storage.dataapi.FindBriefResponses"
	var result struct {
		BriefResponses []brief.Response `json:"briefResponses"`
	}

	err := s.request(ctx, http.MethodGet, "/brief-responses", filter.query(), nil, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result.BriefResponses, nil
}

func (s *Storage) GetBriefResponse(ctx context.Context, responseID int) (brief.Response, error) {
	const op = "storage.dataapi.GetBriefResponse"
	var result struct {
		BriefResponses brief.Response `json:"briefResponses"`
	}

	err := s.request(ctx, http.MethodGet, fmt.Sprintf("/brief-responses/%d", responseID), nil, nil, &result)
	if err != nil {
		return brief.Response{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.BriefResponses, nil
}

func (s *Storage) CreateBriefResponse(ctx context.Context, briefID, supplierID int, data map[string]any, updatedBy string) (brief.Response, error) {
	const op = "storage.dataapi.CreateBriefResponse"
	var result struct {
		BriefResponses brief.Response `json:"briefResponses"`
	}

	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload["briefId"] = briefID
	payload["supplierId"] = supplierID

	body := map[string]any{"briefResponses": payload, "updated_by": updatedBy}
	err := s.request(ctx, http.MethodPost, "/brief-responses", nil, body, &result)
	if err != nil {
		return brief.Response{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.BriefResponses, nil
}

// UpdateBriefResponse saves one page of answers. pageQuestions limits the
// API's validation to the questions shown on that page.
func (s *Storage) UpdateBriefResponse(ctx context.Context, responseID int, data map[string]any, updatedBy string, pageQuestions []string) (brief.Response, error) {
	const op = "storage.dataapi.UpdateBriefResponse"
	var result struct {
		BriefResponses brief.Response `json:"briefResponses"`
	}

	body := map[string]any{
		"briefResponses": data,
		"updated_by":     updatedBy,
		"page_questions": pageQuestions,
	}
	err := s.request(ctx, http.MethodPost, fmt.Sprintf("/brief-responses/%d", responseID), nil, body, &result)
	if err != nil {
		return brief.Response{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.BriefResponses, nil
}

func (s *Storage) SubmitBriefResponse(ctx context.Context, responseID int, updatedBy string) (brief.Response, error) {
	const op = "storage.dataapi.SubmitBriefResponse"
	var result struct {
		BriefResponses brief.Response `json:"briefResponses"`
	}

	body := map[string]any{"updated_by": updatedBy}
	err := s.request(ctx, http.MethodPost, fmt.Sprintf("/brief-responses/%d/submit", responseID), nil, body, &result)
	if err != nil {
		return brief.Response{}, fmt.Errorf("%s: %w", op, err)
	}

	return result.BriefResponses, nil
}
