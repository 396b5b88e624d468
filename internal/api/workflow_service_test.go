package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"nriassist/internal/appstore"
	"nriassist/internal/catalog"
	"nriassist/internal/services"
	"nriassist/internal/workflow"
)

type historyStub struct {
	records []appstore.TransitionRecord
	err     error
}

func (h *historyStub) History(context.Context, string) ([]appstore.TransitionRecord, error) {
	return h.records, h.err
}

func newService(history HistoryReader) *WorkflowService {
	return NewWorkflowService(workflow.NewEngine(catalog.Default(), workflow.SeedApplications()), history)
}

func TestWorkflowServiceList(t *testing.T) {
	svc := newService(nil)
	all, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 6 || all[0].ID != "NRI100234" {
		t.Fatalf("unexpected list %+v", all)
	}
	if all[0].AccountDescription != "Non-Resident External Account" || all[0].Progress != 2 || all[0].Owner != "Branch Staff" {
		t.Fatalf("derived fields missing: %+v", all[0])
	}

	branch, err := svc.List("branch", "completed")
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(branch) != 3 {
		t.Fatalf("filtered list has %d entries", len(branch))
	}

	if _, err := svc.List("archived"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkflowServiceDescribe(t *testing.T) {
	at := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	history := &historyStub{records: []appstore.TransitionRecord{{
		ApplicationID: "NRI100567",
		Role:          catalog.RoleBranch,
		From:          catalog.StatusBranchReview,
		To:            catalog.StatusProcessing,
		OccurredAt:    at,
	}}}
	svc := newService(history)

	resp, err := svc.Describe(context.Background(), "NRI100567")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if resp.Application.Chip.Label != "Processing" || len(resp.Steps) != 5 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Steps[2].State != string(workflow.StepCurrent) {
		t.Fatalf("step 3 state = %q", resp.Steps[2].State)
	}
	if len(resp.History) != 1 || resp.History[0].OccurredAt != "2026-01-05T10:00:00.000Z" {
		t.Fatalf("unexpected history %+v", resp.History)
	}

	if _, err := svc.Describe(context.Background(), "NRI000000"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	history.err = errors.New("db closed")
	if _, err := svc.Describe(context.Background(), "NRI100567"); err == nil {
		t.Fatal("expected history error to propagate")
	}
}

func TestWorkflowServiceInbox(t *testing.T) {
	svc := newService(nil)
	resp, err := svc.Inbox("ops")
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if resp.Dashboard.Title != "Operations Dashboard" || resp.Empty || len(resp.Applications) != 2 {
		t.Fatalf("unexpected inbox %+v", resp)
	}

	customer, err := svc.Inbox("customer")
	if err != nil {
		t.Fatalf("Inbox customer: %v", err)
	}
	if !customer.Empty || customer.Applications == nil {
		t.Fatalf("customer inbox should be empty and non-nil: %+v", customer)
	}

	if _, err := svc.Inbox("auditor"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkflowServiceStatisticsAndCatalog(t *testing.T) {
	svc := newService(nil)
	stats, err := svc.Statistics("compliance team")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats != (Statistics{Role: "Compliance Team", Total: 6, Pending: 1, Processed: 1}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := svc.Catalog().Stages; len(got) != 5 || got[4].Ordinal != 5 {
		t.Fatalf("unexpected catalog %+v", got)
	}
	if got := svc.Roles().Roles; len(got) != 4 || got[0].Staff {
		t.Fatalf("unexpected roles %+v", got)
	}
	counts := svc.StatusCounts()
	if counts[string(catalog.StatusBranchReview)] != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestNewWorkflowServiceNilEngine(t *testing.T) {
	if svc := NewWorkflowService(nil, nil); svc != nil {
		t.Fatal("expected nil service")
	}
}
