package admin

import "github.com/sngm3741/cafe-finder/api/internal/cafe/application"

type decisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (req decisionRequest) toCommand() application.DecideCommand {
	return application.DecideCommand{Decision: req.Decision, Notes: req.Notes}
}

type statsResponse struct {
	TotalReviews    int64 `json:"totalReviews"`
	PendingReviews  int64 `json:"pendingReviews"`
	ApprovedReviews int64 `json:"approvedReviews"`
	RejectedReviews int64 `json:"rejectedReviews"`
	PendingClaims   int64 `json:"pendingClaims"`
}
