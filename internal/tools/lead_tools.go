package tools

import (
	"context"

	"slotwise/internal/scheduling/repository"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/model"
)

func (r *Router) leadCreate(ctx context.Context, input map[string]any) (any, error) {
	var lead model.Lead
	if err := decodeInput(input, &lead); err != nil {
		return nil, err
	}
	return r.leads.Create(ctx, &lead)
}

func (r *Router) leadGet(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	return r.leads.GetByID(ctx, id)
}

func (r *Router) leadList(ctx context.Context, input map[string]any) (any, error) {
	var req struct {
		Status   string `json:"status,omitempty"`
		Priority string `json:"priority,omitempty"`
		Source   string `json:"source,omitempty"`
		Email    string `json:"email,omitempty"`
		Limit    int    `json:"limit,omitempty"`
		Offset   int64  `json:"offset,omitempty"`
	}
	if err := decodeInput(input, &req); err != nil {
		return nil, err
	}

	filter := repository.LeadFilter{
		Status:   req.Status,
		Priority: req.Priority,
		Source:   req.Source,
		Email:    req.Email,
	}
	limit := config.NormalizePaginationLimit(req.Limit)
	offset := config.NormalizeOffset(req.Offset)

	leads, total, err := r.leads.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return httputil.PaginatedResponse{
		Data: leads,
		Pagination: httputil.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+int64(limit) < total,
		},
	}, nil
}

func (r *Router) leadUpdate(ctx context.Context, input map[string]any) (any, error) {
	id := stringArg(input, "id")
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	var update model.LeadUpdate
	if err := decodeInput(input, &update); err != nil {
		return nil, err
	}
	return r.leads.Update(ctx, id, &update)
}

func (r *Router) leadStats(ctx context.Context, input map[string]any) (any, error) {
	return r.leads.Stats(ctx)
}
