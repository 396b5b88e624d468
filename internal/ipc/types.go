package ipc

import "nriassist/internal/api"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon status information.
type StatusResponse = api.DaemonStatus

// ApplicationListRequest filters application listing by status.
type ApplicationListRequest struct {
	Statuses []string `json:"statuses"`
}

// ApplicationListResponse contains applications in display order.
type ApplicationListResponse = api.ApplicationListResponse

// ApplicationDescribeRequest fetches a single application by id.
type ApplicationDescribeRequest struct {
	ID string `json:"id"`
}

// ApplicationDescribeResponse contains the application, its stepper, and
// its transition history.
type ApplicationDescribeResponse = api.ApplicationResponse

// RoleRequest names the role a dashboard query is for.
type RoleRequest struct {
	Role string `json:"role"`
}

// InboxResponse contains the role's dashboard and actionable applications.
type InboxResponse = api.InboxResponse

// StatisticsResponse contains the role's dashboard counters.
type StatisticsResponse = api.Statistics

// TransitionRequest advances an application on behalf of a role.
type TransitionRequest struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// TransitionResponse reports the applied transition.
type TransitionResponse = api.TransitionResponse

// CatalogRequest fetches the stage table.
type CatalogRequest struct{}

// CatalogResponse contains the stage table.
type CatalogResponse = api.CatalogResponse

// RolesRequest fetches the role selector entries.
type RolesRequest struct{}

// RolesResponse contains the role selector entries.
type RolesResponse = api.RolesResponse

// SearchRequest ranks the guide script against Query.
type SearchRequest struct {
	Query     string  `json:"query"`
	Threshold float64 `json:"threshold"`
	Scorer    string  `json:"scorer"`
}

// SearchResponse contains ranked guide entries.
type SearchResponse = api.SearchResponse
