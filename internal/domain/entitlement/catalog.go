// internal/domain/entitlement/catalog.go
package entitlement

// PlanKey is the stable identifier of a billing tier.
type PlanKey string

const (
	PlanKeyFree         PlanKey = "free"
	PlanKeyBeginner     PlanKey = "beginner"
	PlanKeyProfessional PlanKey = "professional"
	PlanKeyBusiness     PlanKey = "business"

	// PlanKeyUnknown marks a stored plan name that is not in the
	// catalog. Limits resolve to the free tier for it.
	PlanKeyUnknown PlanKey = "unknown"
)

// ResourceKey identifies a limited resource category.
type ResourceKey string

const (
	ResourceOrders        ResourceKey = "orders"
	ResourceEnquiries     ResourceKey = "enquiries"
	ResourceCustomers     ResourceKey = "customers"
	ResourceProducts      ResourceKey = "products"
	ResourceProductImages ResourceKey = "product_images"
)

// Unlimited marks a resource with no cap.
const Unlimited = -1

// Limits holds the per-resource caps of one plan tier.
type Limits struct {
	Orders        int
	Enquiries     int
	Customers     int
	Products      int
	ProductImages int
}

// PlanCatalog maps plan keys to their resource limits. This is static
// configuration, changed only with a deploy, never at runtime.
var PlanCatalog = map[PlanKey]Limits{
	PlanKeyFree: {
		Orders:        50,
		Enquiries:     25,
		Customers:     25,
		Products:      10,
		ProductImages: 20,
	},
	PlanKeyBeginner: {
		Orders:        500,
		Enquiries:     250,
		Customers:     250,
		Products:      50,
		ProductImages: 150,
	},
	PlanKeyProfessional: {
		Orders:        5000,
		Enquiries:     2500,
		Customers:     2500,
		Products:      500,
		ProductImages: 2000,
	},
	PlanKeyBusiness: {
		Orders:        Unlimited,
		Enquiries:     Unlimited,
		Customers:     Unlimited,
		Products:      Unlimited,
		ProductImages: Unlimited,
	},
}

// ParsePlanKey maps a stored plan name to a catalog key. Names not in
// the catalog come back as PlanKeyUnknown so callers can log the
// fallback instead of silently absorbing it.
func ParsePlanKey(name string) PlanKey {
	switch PlanKey(name) {
	case PlanKeyFree, PlanKeyBeginner, PlanKeyProfessional, PlanKeyBusiness:
		return PlanKey(name)
	default:
		return PlanKeyUnknown
	}
}

// ParseResourceKey validates a resource name from the request path.
func ParseResourceKey(name string) (ResourceKey, bool) {
	switch ResourceKey(name) {
	case ResourceOrders, ResourceEnquiries, ResourceCustomers, ResourceProducts, ResourceProductImages:
		return ResourceKey(name), true
	default:
		return "", false
	}
}

// LimitsFor resolves a plan key against the catalog. Unknown keys get
// the free tier's limits (least privilege).
func LimitsFor(key PlanKey) Limits {
	if l, ok := PlanCatalog[key]; ok {
		return l
	}
	return PlanCatalog[PlanKeyFree]
}

// Resource returns the cap for one resource category.
func (l Limits) Resource(key ResourceKey) int {
	switch key {
	case ResourceOrders:
		return l.Orders
	case ResourceEnquiries:
		return l.Enquiries
	case ResourceCustomers:
		return l.Customers
	case ResourceProducts:
		return l.Products
	case ResourceProductImages:
		return l.ProductImages
	default:
		return 0
	}
}
