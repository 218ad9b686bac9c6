// internal/service/entitlement/limits.go
package entitlement

import (
	"resellerpro-service/internal/domain/entitlement"
)

// CheckLimit decides whether one more resource of the given category
// may be created under the plan. Pure function of its inputs: no I/O,
// no side effects. An unknown plan key resolves to the free tier's
// limits (least privilege) through an explicit branch.
func CheckLimit(plan entitlement.PlanKey, resource entitlement.ResourceKey, used int) entitlement.Decision {
	effective := plan
	if _, ok := entitlement.PlanCatalog[effective]; !ok {
		effective = entitlement.PlanKeyFree
	}

	limit := entitlement.LimitsFor(effective).Resource(resource)

	decision := entitlement.Decision{
		Resource: resource,
		Plan:     effective,
		Limit:    limit,
		Used:     used,
	}

	if limit == entitlement.Unlimited {
		decision.Allowed = true
		decision.Unbounded = true
		decision.Remaining = entitlement.Unlimited
		return decision
	}

	decision.Allowed = used < limit
	decision.Remaining = limit - used
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}

	return decision
}
