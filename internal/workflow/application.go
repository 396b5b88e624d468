package workflow

import (
	"nriassist/internal/catalog"
)

// Application is one account-opening request.
type Application struct {
	ID            string
	AccountType   catalog.AccountType
	Status        catalog.Status
	ApplicantName string
	Branch        string
	SubmittedDate string
}

// Change describes a validated status move.
type Change struct {
	Application Application
	Role        catalog.Role
	From        catalog.Status
	To          catalog.Status
}

// SeedApplications returns the demo collection loaded when no store is
// configured. The order is the display order.
func SeedApplications() []Application {
	return []Application{
		{ID: "NRI100234", AccountType: catalog.AccountNRE, Status: catalog.StatusBranchReview, ApplicantName: "Rajesh Kumar", Branch: "New Delhi", SubmittedDate: "2024-01-15"},
		{ID: "NRI100567", AccountType: catalog.AccountFCNR, Status: catalog.StatusProcessing, ApplicantName: "Priya Sharma", Branch: "Mumbai", SubmittedDate: "2024-01-14"},
		{ID: "NRI100890", AccountType: catalog.AccountNRO, Status: catalog.StatusComplianceReview, ApplicantName: "Amit Patel", Branch: "Bengaluru", SubmittedDate: "2024-01-13"},
		{ID: "NRI100112", AccountType: catalog.AccountNRE, Status: catalog.StatusCompleted, ApplicantName: "Sania Gupta", Branch: "Chennai", SubmittedDate: "2024-01-10"},
		{ID: "NRI100445", AccountType: catalog.AccountNRO, Status: catalog.StatusBranchReview, ApplicantName: "Vikram Singh", Branch: "Pune", SubmittedDate: "2024-01-16"},
		{ID: "NRI100778", AccountType: catalog.AccountFCNR, Status: catalog.StatusProcessing, ApplicantName: "Deepa Nair", Branch: "Hyderabad", SubmittedDate: "2024-01-12"},
	}
}
