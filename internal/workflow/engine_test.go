package workflow_test

import (
	"errors"
	"fmt"
	"testing"

	"nriassist/internal/catalog"
	"nriassist/internal/services"
	"nriassist/internal/workflow"
)

var staffRoles = []catalog.Role{catalog.RoleBranch, catalog.RoleOperations, catalog.RoleCompliance}

func newSeedEngine() *workflow.Engine {
	return workflow.NewEngine(catalog.Default(), workflow.SeedApplications())
}

func TestTransitionBranchStaffAdvancesApplication(t *testing.T) {
	engine := newSeedEngine()
	before, _ := engine.Get("NRI100234")

	updated, err := engine.Transition("NRI100234", catalog.RoleBranch)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != catalog.StatusProcessing {
		t.Fatalf("status = %q, want %q", updated.Status, catalog.StatusProcessing)
	}
	after := before
	after.Status = catalog.StatusProcessing
	if updated != after {
		t.Fatalf("unexpected field change: %+v vs %+v", updated, after)
	}
	stored, _ := engine.Get("NRI100234")
	if stored != updated {
		t.Fatalf("stored application not updated: %+v", stored)
	}
}

func TestTransitionWrongRoleIsRejected(t *testing.T) {
	engine := newSeedEngine()
	_, err := engine.Transition("NRI100234", catalog.RoleCompliance)
	if !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	app, _ := engine.Get("NRI100234")
	if app.Status != catalog.StatusBranchReview {
		t.Fatalf("status changed to %q", app.Status)
	}
}

func TestTransitionUnknownApplication(t *testing.T) {
	engine := newSeedEngine()
	_, err := engine.Transition("NRI999999", catalog.RoleBranch)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransitionCustomerAndUnknownRolesHaveNoAuthority(t *testing.T) {
	engine := workflow.NewEngine(nil, []workflow.Application{
		{ID: "A1", Status: catalog.StatusAwaitingUpload},
		{ID: "A2", Status: ""},
	})
	for _, role := range []catalog.Role{catalog.RoleCustomer, catalog.Role("Auditor")} {
		for _, id := range []string{"A1", "A2"} {
			if _, err := engine.Transition(id, role); !errors.Is(err, services.ErrInvalidTransition) {
				t.Fatalf("%s on %s: expected invalid transition, got %v", role, id, err)
			}
		}
	}
}

func TestTransitionSucceedsIffStatusMatchesFilter(t *testing.T) {
	cat := catalog.Default()
	for _, status := range catalog.AllStatuses() {
		for _, role := range staffRoles {
			engine := workflow.NewEngine(cat, []workflow.Application{{ID: "X", AccountType: catalog.AccountNRE, Status: status, ApplicantName: "Test", Branch: "Pune"}})
			cfg := cat.Config(role)
			updated, err := engine.Transition("X", role)
			if status == cfg.FilterStatus {
				if err != nil {
					t.Fatalf("%s from %q: unexpected error %v", role, status, err)
				}
				if updated.Status != cfg.NextStatus {
					t.Fatalf("%s from %q: got %q", role, status, updated.Status)
				}
				continue
			}
			if !errors.Is(err, services.ErrInvalidTransition) {
				t.Fatalf("%s from %q: expected invalid transition, got %v", role, status, err)
			}
		}
	}
}

func TestRepeatedTransitionsAreMonotonic(t *testing.T) {
	engine := workflow.NewEngine(nil, []workflow.Application{{ID: "M1", Status: catalog.StatusBranchReview}})
	last := 2
	for _, role := range staffRoles {
		app, err := engine.Transition("M1", role)
		if err != nil {
			t.Fatalf("%s: %v", role, err)
		}
		pos := engine.ProgressPosition(app)
		if pos != last+1 {
			t.Fatalf("%s: position %d after %d", role, pos, last)
		}
		last = pos
	}
	for _, role := range staffRoles {
		if _, err := engine.Transition("M1", role); err == nil {
			t.Fatalf("%s: completed application moved again", role)
		}
	}
}

func TestPlanDoesNotMutate(t *testing.T) {
	engine := newSeedEngine()
	change, err := engine.Plan("NRI100890", catalog.RoleCompliance)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if change.From != catalog.StatusComplianceReview || change.To != catalog.StatusCompleted {
		t.Fatalf("unexpected change %+v", change)
	}
	app, _ := engine.Get("NRI100890")
	if app.Status != catalog.StatusComplianceReview {
		t.Fatalf("Plan mutated status to %q", app.Status)
	}
}

func TestInboxPreservesOrder(t *testing.T) {
	engine := newSeedEngine()
	inbox := engine.Inbox(catalog.RoleBranch)
	if len(inbox) != 2 || inbox[0].ID != "NRI100234" || inbox[1].ID != "NRI100445" {
		t.Fatalf("unexpected branch inbox %+v", inbox)
	}
	ops := engine.Inbox(catalog.RoleOperations)
	if len(ops) != 2 || ops[0].ID != "NRI100567" || ops[1].ID != "NRI100778" {
		t.Fatalf("unexpected operations inbox %+v", ops)
	}
	if got := engine.Inbox(catalog.RoleCustomer); len(got) != 0 {
		t.Fatalf("customer inbox should be empty, got %d", len(got))
	}
}

func TestStatistics(t *testing.T) {
	engine := newSeedEngine()
	tests := []struct {
		role catalog.Role
		want workflow.Statistics
	}{
		{catalog.RoleBranch, workflow.Statistics{Total: 6, Pending: 2, Processed: 4}},
		{catalog.RoleOperations, workflow.Statistics{Total: 6, Pending: 2, Processed: 2}},
		{catalog.RoleCompliance, workflow.Statistics{Total: 6, Pending: 1, Processed: 1}},
		{catalog.Role("Auditor"), workflow.Statistics{Total: 6}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := engine.Statistics(tt.role)
			if got != tt.want {
				t.Fatalf("Statistics = %+v, want %+v", got, tt.want)
			}
			if got.Pending != len(engine.Inbox(tt.role)) {
				t.Fatalf("pending %d != inbox %d", got.Pending, len(engine.Inbox(tt.role)))
			}
		})
	}
}

func TestStatisticsSnapshotIsConsistentDuringTransitions(t *testing.T) {
	const n = 200
	apps := make([]workflow.Application, 0, n)
	for i := 0; i < n; i++ {
		apps = append(apps, workflow.Application{ID: fmt.Sprintf("NRI%06d", i), Status: catalog.StatusBranchReview})
	}
	engine := workflow.NewEngine(catalog.Default(), apps)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, app := range apps {
			if _, err := engine.Transition(app.ID, catalog.RoleBranch); err != nil {
				t.Errorf("Transition %s: %v", app.ID, err)
				return
			}
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		stats := engine.Statistics(catalog.RoleBranch)
		if stats.Total != n || stats.Pending+stats.Processed != n {
			t.Fatalf("inconsistent snapshot %+v", stats)
		}
	}
	if stats := engine.Statistics(catalog.RoleBranch); stats.Pending != 0 || stats.Processed != n {
		t.Fatalf("final stats %+v", stats)
	}
}

func TestStatisticsTerminalRoleCountsOnlyCompleted(t *testing.T) {
	engine := workflow.NewEngine(nil, []workflow.Application{
		{ID: "C1", Status: catalog.StatusCompleted},
		{ID: "C2", Status: catalog.StatusComplianceReview},
		{ID: "C3", Status: catalog.Status("Archived")},
	})
	stats := engine.Statistics(catalog.RoleCompliance)
	if stats.Processed != 1 || stats.Pending != 1 || stats.Total != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestPartitionCoversCollection(t *testing.T) {
	apps := append(workflow.SeedApplications(),
		workflow.Application{ID: "NRI200001", Status: catalog.StatusAwaitingUpload},
		workflow.Application{ID: "NRI200002", Status: catalog.Status("Archived")},
	)
	engine := workflow.NewEngine(nil, apps)
	seen := make(map[string]string)
	for key, group := range engine.Partition() {
		for _, app := range group {
			if prev, dup := seen[app.ID]; dup {
				t.Fatalf("%s appears in %s and %s", app.ID, prev, key)
			}
			seen[app.ID] = key
		}
	}
	if len(seen) != len(apps) {
		t.Fatalf("partition covers %d of %d applications", len(seen), len(apps))
	}
	for _, role := range staffRoles {
		for _, app := range engine.Inbox(role) {
			if seen[app.ID] != string(role) {
				t.Fatalf("%s grouped under %s, want %s", app.ID, seen[app.ID], role)
			}
		}
	}
	if seen["NRI100112"] != workflow.PartitionCompleted {
		t.Fatalf("completed application grouped under %s", seen["NRI100112"])
	}
	if seen["NRI200001"] != string(catalog.RoleCustomer) {
		t.Fatalf("customer-stage application grouped under %s", seen["NRI200001"])
	}
}

func TestProgressPositionFallsBack(t *testing.T) {
	engine := newSeedEngine()
	if got := engine.ProgressPosition(workflow.Application{Status: "Archived"}); got != 1 {
		t.Fatalf("fallback position = %d", got)
	}
	app, _ := engine.Get("NRI100890")
	if got := engine.ProgressPosition(app); got != 4 {
		t.Fatalf("compliance position = %d", got)
	}
}

func TestProgressSteps(t *testing.T) {
	engine := newSeedEngine()
	app, _ := engine.Get("NRI100567")
	steps := engine.Progress(app)
	want := []workflow.StepState{workflow.StepDone, workflow.StepDone, workflow.StepCurrent, workflow.StepUpcoming, workflow.StepUpcoming}
	for i, step := range steps {
		if step.State != want[i] {
			t.Fatalf("step %d state %q, want %q", i+1, step.State, want[i])
		}
	}
	done, _ := engine.Get("NRI100112")
	for _, step := range engine.Progress(done) {
		if step.State != workflow.StepDone {
			t.Fatalf("completed application step %d is %q", step.Ordinal, step.State)
		}
	}
}

func TestNewEngineSkipsDuplicatesAndBlankIDs(t *testing.T) {
	engine := workflow.NewEngine(nil, []workflow.Application{
		{ID: "A", Branch: "first"},
		{ID: " ", Branch: "blank"},
		{ID: "A", Branch: "second"},
	})
	if engine.Len() != 1 {
		t.Fatalf("Len = %d", engine.Len())
	}
	app, _ := engine.Get("A")
	if app.Branch != "first" {
		t.Fatalf("kept %q", app.Branch)
	}
}

func TestCounts(t *testing.T) {
	counts := newSeedEngine().Counts()
	if counts[catalog.StatusBranchReview] != 2 || counts[catalog.StatusAwaitingUpload] != 0 || counts[catalog.StatusCompleted] != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
