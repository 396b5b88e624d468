package catalog

import "strings"

// Role names a participant in the workflow.
type Role string

const (
	RoleCustomer   Role = "Customer"
	RoleBranch     Role = "Branch Staff"
	RoleOperations Role = "Operations Team"
	RoleCompliance Role = "Compliance Team"
)

var roleAliases = map[string]Role{
	"customer":        RoleCustomer,
	"branch":          RoleBranch,
	"branch staff":    RoleBranch,
	"staff":           RoleBranch,
	"operations":      RoleOperations,
	"operations team": RoleOperations,
	"ops":             RoleOperations,
	"compliance":      RoleCompliance,
	"compliance team": RoleCompliance,
}

// ParseRole resolves a role name case-insensitively. Hyphens and underscores
// are treated as spaces, so "branch-staff" and "operations_team" parse.
func ParseRole(value string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if key == "" {
		return "", false
	}
	role, ok := roleAliases[key]
	return role, ok
}

// StageConfig describes what a staff role reads and writes.
type StageConfig struct {
	Role         Role
	Title        string
	Description  string
	Icon         string
	FilterStatus Status
	NextStatus   Status
	ActionLabel  string
	EmptyMessage string
}

// Actionable reports whether the config grants a transition.
func (c StageConfig) Actionable() bool {
	return c.FilterStatus != "" && c.NextStatus != ""
}

// RoleInfo is the selector entry for a role.
type RoleInfo struct {
	Role        Role
	Description string
	Icon        string
	Staff       bool
}

// Config returns the stage config for role. Roles without one (Customer and
// anything unknown) get an empty filter and next status and the generic
// empty-state message.
func (c *Catalog) Config(role Role) StageConfig {
	if idx, ok := c.byRole[role]; ok {
		return c.configs[idx]
	}
	return StageConfig{Role: role, EmptyMessage: DefaultEmptyMessage}
}

// StaffConfigs returns the staff stage configs in chain order.
func (c *Catalog) StaffConfigs() []StageConfig {
	out := make([]StageConfig, len(c.configs))
	copy(out, c.configs)
	return out
}

// IsStaff reports whether role owns a transition.
func (c *Catalog) IsStaff(role Role) bool {
	_, ok := c.byRole[role]
	return ok
}

// IsTerminalRole reports whether role writes the terminal status.
func (c *Catalog) IsTerminalRole(role Role) bool {
	cfg := c.Config(role)
	return cfg.Actionable() && c.IsTerminal(cfg.NextStatus)
}

// Roles returns every selectable role, Customer first.
func (c *Catalog) Roles() []RoleInfo {
	out := make([]RoleInfo, len(c.roles))
	copy(out, c.roles)
	return out
}

// RoleInfo returns the selector entry for role.
func (c *Catalog) RoleInfo(role Role) (RoleInfo, bool) {
	for _, info := range c.roles {
		if info.Role == role {
			return info, true
		}
	}
	return RoleInfo{}, false
}

func defaultStages() []Stage {
	return []Stage{
		{Ordinal: 1, Status: StatusAwaitingUpload, StepLabel: "Document Upload", Icon: "📄", ChipLabel: "Awaiting Upload", Owner: RoleCustomer},
		{Ordinal: 2, Status: StatusBranchReview, StepLabel: "Branch Verification", Icon: "🏦", ChipLabel: "Branch Review", Owner: RoleBranch},
		{Ordinal: 3, Status: StatusProcessing, StepLabel: "Operations Processing", Icon: "⚙️", ChipLabel: "Processing", Owner: RoleOperations},
		{Ordinal: 4, Status: StatusComplianceReview, StepLabel: "Compliance Review", Icon: "✅", ChipLabel: "Final Review", Owner: RoleCompliance},
		{Ordinal: 5, Status: StatusCompleted, StepLabel: "Account Active", Icon: "🎉", ChipLabel: "Completed"},
	}
}

func defaultConfigs() []StageConfig {
	return []StageConfig{
		{
			Role:         RoleBranch,
			Title:        "Branch Staff Dashboard",
			Description:  "Review and verify incoming NRI account applications",
			Icon:         "🏦",
			FilterStatus: StatusBranchReview,
			NextStatus:   StatusProcessing,
			ActionLabel:  "✅ Verify & Submit to Operations",
			EmptyMessage: "No applications pending branch verification",
		},
		{
			Role:         RoleOperations,
			Title:        "Operations Dashboard",
			Description:  "Process verified applications and setup new accounts",
			Icon:         "⚙️",
			FilterStatus: StatusProcessing,
			NextStatus:   StatusComplianceReview,
			ActionLabel:  "🔄 Process & Send to Compliance",
			EmptyMessage: "No applications awaiting operations processing",
		},
		{
			Role:         RoleCompliance,
			Title:        "Compliance Dashboard",
			Description:  "Review applications for regulatory compliance and final approval",
			Icon:         "✅",
			FilterStatus: StatusComplianceReview,
			NextStatus:   StatusCompleted,
			ActionLabel:  "🎉 Approve & Finalize Account",
			EmptyMessage: "No applications pending compliance review",
		},
	}
}

func defaultRoles() []RoleInfo {
	return []RoleInfo{
		{Role: RoleCustomer, Description: "Open an NRI account or check status", Icon: "👤"},
		{Role: RoleBranch, Description: "Verify documents and applications", Icon: "🏦", Staff: true},
		{Role: RoleOperations, Description: "Process and setup new accounts", Icon: "⚙️", Staff: true},
		{Role: RoleCompliance, Description: "Review and approve applications", Icon: "✅", Staff: true},
	}
}
