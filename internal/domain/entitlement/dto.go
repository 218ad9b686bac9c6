// internal/domain/entitlement/dto.go
package entitlement

// Decision is the outcome of checking one resource against a plan.
// Limit and Remaining use Unlimited (-1) for uncapped resources so
// callers can render "X of Y used" messages directly.
type Decision struct {
	Resource  ResourceKey `json:"resource"`
	Plan      PlanKey     `json:"plan"`
	Allowed   bool        `json:"allowed"`
	Unbounded bool        `json:"unbounded"`
	Limit     int         `json:"limit"`
	Used      int         `json:"used"`
	Remaining int         `json:"remaining"`
}

// EntitlementResponse is the API shape of a reconciled entitlement.
type EntitlementResponse struct {
	Entitlement Entitlement `json:"entitlement"`
	PlanKey     PlanKey     `json:"plan_key"`
	Limits      Limits      `json:"limits"`
}
