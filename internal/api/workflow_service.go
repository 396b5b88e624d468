package api

import (
	"context"
	"fmt"

	"nriassist/internal/appstore"
	"nriassist/internal/catalog"
	"nriassist/internal/services"
	"nriassist/internal/workflow"
)

// WorkflowReader abstracts the workflow engine read paths needed for API
// queries.
type WorkflowReader interface {
	Catalog() *catalog.Catalog
	List() []workflow.Application
	Get(id string) (workflow.Application, bool)
	Inbox(role catalog.Role) []workflow.Application
	Statistics(role catalog.Role) workflow.Statistics
	Progress(app workflow.Application) []workflow.Step
	Counts() map[catalog.Status]int
}

// HistoryReader supplies persisted transition logs.
type HistoryReader interface {
	History(ctx context.Context, id string) ([]appstore.TransitionRecord, error)
}

// WorkflowService exposes read-only workflow operations returning API DTOs.
type WorkflowService struct {
	engine  WorkflowReader
	history HistoryReader
}

// NewWorkflowService constructs a WorkflowService around engine. history
// may be nil when no store is configured.
func NewWorkflowService(engine WorkflowReader, history HistoryReader) *WorkflowService {
	if engine == nil {
		return nil
	}
	return &WorkflowService{engine: engine, history: history}
}

// ParseRole resolves a role name or alias.
func ParseRole(value string) (catalog.Role, error) {
	role, ok := catalog.ParseRole(value)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "api", "parse role", fmt.Sprintf("unknown role %q", value), nil)
	}
	return role, nil
}

// ParseStatuses resolves status labels or aliases.
func ParseStatuses(values []string) ([]catalog.Status, error) {
	out := make([]catalog.Status, 0, len(values))
	for _, value := range values {
		status, ok := catalog.ParseStatus(value)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "api", "parse status", fmt.Sprintf("unknown status %q", value), nil)
		}
		out = append(out, status)
	}
	return out, nil
}

// List returns applications in collection order, optionally filtered by
// status.
func (s *WorkflowService) List(statuses ...string) ([]Application, error) {
	if s == nil {
		return nil, nil
	}
	filter, err := ParseStatuses(statuses)
	if err != nil {
		return nil, err
	}
	apps := s.engine.List()
	if len(filter) > 0 {
		wanted := make(map[catalog.Status]struct{}, len(filter))
		for _, status := range filter {
			wanted[status] = struct{}{}
		}
		kept := apps[:0]
		for _, app := range apps {
			if _, ok := wanted[app.Status]; ok {
				kept = append(kept, app)
			}
		}
		apps = kept
	}
	return FromApplications(s.engine.Catalog(), apps), nil
}

// Describe fetches a single application with its stepper and, when a store
// is configured, its transition history.
func (s *WorkflowService) Describe(ctx context.Context, id string) (ApplicationResponse, error) {
	if s == nil {
		return ApplicationResponse{}, services.Wrap(services.ErrNotFound, "api", "describe", "workflow unavailable", nil)
	}
	app, ok := s.engine.Get(id)
	if !ok {
		return ApplicationResponse{}, services.Wrap(services.ErrNotFound, "api", "describe", fmt.Sprintf("application %q", id), nil)
	}
	resp := ApplicationResponse{
		Application: FromApplication(s.engine.Catalog(), app),
		Steps:       FromSteps(s.engine.Progress(app)),
	}
	if s.history != nil {
		records, err := s.history.History(ctx, app.ID)
		if err != nil {
			return ApplicationResponse{}, err
		}
		resp.History = FromTransitionRecords(records)
	}
	return resp, nil
}

// Inbox returns the role's dashboard and actionable applications.
func (s *WorkflowService) Inbox(roleName string) (InboxResponse, error) {
	role, err := ParseRole(roleName)
	if err != nil {
		return InboxResponse{}, err
	}
	cat := s.engine.Catalog()
	apps := FromApplications(cat, s.engine.Inbox(role))
	return InboxResponse{
		Dashboard:    FromStageConfig(role, cat.Config(role)),
		Applications: apps,
		Empty:        len(apps) == 0,
	}, nil
}

// Statistics returns the role's dashboard counters.
func (s *WorkflowService) Statistics(roleName string) (Statistics, error) {
	role, err := ParseRole(roleName)
	if err != nil {
		return Statistics{}, err
	}
	return FromStatistics(role, s.engine.Statistics(role)), nil
}

// Catalog returns the stage table.
func (s *WorkflowService) Catalog() CatalogResponse {
	return CatalogResponse{Stages: FromStages(s.engine.Catalog().Stages())}
}

// Roles returns the role selector entries.
func (s *WorkflowService) Roles() RolesResponse {
	return RolesResponse{Roles: FromRoles(s.engine.Catalog().Roles())}
}

// StatusCounts returns application counts keyed by status label.
func (s *WorkflowService) StatusCounts() map[string]int {
	return FromCounts(s.engine.Counts())
}
