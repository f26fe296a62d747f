package dto

// StepUpRequest is the payload for confirming a pending transaction
type StepUpRequest struct {
	PIN      string `json:"pin"`
	Decision string `json:"decision"` // approve | deny
}

// ResolveAlertRequest is the operator override payload
type ResolveAlertRequest struct {
	AlertID int    `json:"alert_id"`
	Status  string `json:"status"` // cleared | resolved
}
