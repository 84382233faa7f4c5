package models

// ClaimStatus is the admin-progressed state shared by return and refund
// requests.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "Pending"
	ClaimStatusApproved ClaimStatus = "Approved"
	ClaimStatusRejected ClaimStatus = "Rejected"
	ClaimStatusRefunded ClaimStatus = "Refunded"
)

// claimTransitions is the legal transition table for claim statuses.
// Pending may jump straight to Refunded (manual/phone resolutions skip the
// approval step). Rejected and Refunded are terminal.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusPending:  {ClaimStatusApproved, ClaimStatusRejected, ClaimStatusRefunded},
	ClaimStatusApproved: {ClaimStatusRefunded, ClaimStatusRejected},
	ClaimStatusRejected: {},
	ClaimStatusRefunded: {},
}

// ValidClaimStatus reports whether s is one of the known claim status values.
func ValidClaimStatus(s ClaimStatus) bool {
	_, ok := claimTransitions[s]
	return ok
}

// CanTransitionClaim reports whether a claim may move from one status to
// another. Repeating the current status is legal.
func CanTransitionClaim(from, to ClaimStatus) bool {
	if from == to {
		return ValidClaimStatus(from)
	}
	for _, next := range claimTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateClaimStatusRequest is the admin payload for progressing a claim.
type UpdateClaimStatusRequest struct {
	Status    ClaimStatus `json:"status" binding:"required"`
	AdminNote string      `json:"admin_note"`
}
