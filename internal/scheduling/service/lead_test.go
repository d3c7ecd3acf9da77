package service

import (
	"context"
	"errors"
	"testing"

	"slotwise/internal/scheduling/repository"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

func TestLeadCreate_AppliesDefaults(t *testing.T) {
	env := newTestEnv()

	lead, err := env.leads.Create(context.Background(), &model.Lead{
		Name:  "  Priya Shah ",
		Email: "Priya@Example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if lead.ID == "" {
		t.Error("expected a generated id")
	}
	if lead.Status != model.LeadStatusNew {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if lead.Priority != model.LeadPriorityMedium {
		t.Errorf("priority = %q, want medium", lead.Priority)
	}
	if lead.Source != model.LeadSourceOther {
		t.Errorf("source = %q, want other", lead.Source)
	}
	if lead.Email != "priya@example.com" {
		t.Errorf("email not normalized: %q", lead.Email)
	}
	if got := env.broadcast.published(); len(got) != 1 || got[0] != "lead.created" {
		t.Errorf("events = %v, want [lead.created]", got)
	}
}

func TestLeadCreate_DuplicateActiveEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.leads.Create(ctx, &model.Lead{Name: "Priya Shah", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err = env.leads.Create(ctx, &model.Lead{Name: "Priya S", Email: "PRIYA@example.com"})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.CodeDuplicateLead {
		t.Errorf("code = %q, want DUPLICATE_LEAD", appErr.Code)
	}
	if appErr.Details["existingLeadId"] != first.ID {
		t.Errorf("details should carry the existing lead id, got %v", appErr.Details)
	}
}

func TestLeadCreate_TerminalLeadDoesNotBlockReentry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	lead, err := env.leads.Create(ctx, &model.Lead{Name: "Priya Shah", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := env.leads.Update(ctx, lead.ID, &model.LeadUpdate{Status: model.LeadStatusLost}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := env.leads.Create(ctx, &model.Lead{Name: "Priya Shah", Email: "priya@example.com"}); err != nil {
		t.Fatalf("a lost lead must not block a new one for the same email: %v", err)
	}
}

func TestLeadUpdate_MergesFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	lead, err := env.leads.Create(ctx, &model.Lead{
		Name:   "Priya Shah",
		Email:  "priya@example.com",
		Notes:  "met at conference",
		Source: model.LeadSourceReferral,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	company := "Acme Corp"
	updated, err := env.leads.Update(ctx, lead.ID, &model.LeadUpdate{
		Status:   model.LeadStatusContacted,
		Priority: model.LeadPriorityHigh,
		Company:  &company,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != model.LeadStatusContacted || updated.Priority != model.LeadPriorityHigh {
		t.Errorf("status/priority = %q/%q", updated.Status, updated.Priority)
	}
	if updated.Company != "Acme Corp" {
		t.Errorf("company = %q", updated.Company)
	}
	if updated.Notes != "met at conference" {
		t.Errorf("untouched field lost: notes = %q", updated.Notes)
	}
	if updated.Source != model.LeadSourceReferral {
		t.Errorf("untouched field lost: source = %q", updated.Source)
	}
}

func TestLeadStats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	seed := []*model.Lead{
		{Name: "A", Email: "a@example.com", Source: model.LeadSourceWebsite},
		{Name: "B", Email: "b@example.com", Source: model.LeadSourceWebsite, Priority: model.LeadPriorityHigh},
		{Name: "C", Email: "c@example.com", Source: model.LeadSourceChatbot},
	}
	for _, l := range seed {
		if _, err := env.leads.Create(ctx, l); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	stats, err := env.leads.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.ByStatus[model.LeadStatusNew] != 3 {
		t.Errorf("byStatus[new] = %d, want 3", stats.ByStatus[model.LeadStatusNew])
	}
	if stats.BySource[model.LeadSourceWebsite] != 2 || stats.BySource[model.LeadSourceChatbot] != 1 {
		t.Errorf("bySource = %v", stats.BySource)
	}
	if stats.ByPriority[model.LeadPriorityHigh] != 1 || stats.ByPriority[model.LeadPriorityMedium] != 2 {
		t.Errorf("byPriority = %v", stats.ByPriority)
	}
}

func TestLeadDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	lead, err := env.leads.Create(ctx, &model.Lead{Name: "Priya Shah", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := env.leads.Delete(ctx, lead.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.leads.GetByID(ctx, lead.ID); err == nil {
		t.Error("deleted lead still readable")
	}

	err = env.leads.Delete(ctx, lead.ID)
	if code := appCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestLeadList_Filters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.leads.Create(ctx, &model.Lead{Name: "A", Email: "a@example.com", Source: model.LeadSourceWebsite}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := env.leads.Create(ctx, &model.Lead{Name: "B", Email: "b@example.com", Source: model.LeadSourceChatbot}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	leads, total, err := env.leads.List(ctx, repository.LeadFilter{Source: model.LeadSourceChatbot}, 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(leads) != 1 || leads[0].Email != "b@example.com" {
		t.Errorf("filtered list = %d/%d entries", len(leads), total)
	}
}
