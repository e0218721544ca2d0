package domain

type GovernanceState string

const (
	StateDraft     GovernanceState = "DRAFT"
	StateSubmitted GovernanceState = "SUBMITTED"
	StateApproved  GovernanceState = "APPROVED"
	StateRejected  GovernanceState = "REJECTED"
	StateLocked    GovernanceState = "LOCKED"
	StateArchived  GovernanceState = "ARCHIVED"
)

type FeatureState string

const (
	FeatureDiscovery  FeatureState = "DISCOVERY"
	FeatureReady      FeatureState = "READY"
	FeatureInProgress FeatureState = "IN_PROGRESS"
	FeatureReleased   FeatureState = "RELEASED"
	FeatureArchived   FeatureState = "ARCHIVED"
)

type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleProgramManager Role = "PROGRAM_MANAGER"
	RoleProductManager Role = "PRODUCT_MANAGER"
	RoleViewer         Role = "VIEWER"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"SUPER_ADMIN": true, "PROGRAM_MANAGER": true,
	"PRODUCT_MANAGER": true, "VIEWER": true,
}

type EntityType string

const (
	EntityPortfolio EntityType = "PORTFOLIO"
	EntityProduct   EntityType = "PRODUCT"
	EntityFeature   EntityType = "FEATURE"
	EntityRelease   EntityType = "RELEASE"
)

// ValidEntityTypes is the canonical set of cost-entry target types.
var ValidEntityTypes = map[string]bool{
	"PORTFOLIO": true, "PRODUCT": true, "FEATURE": true, "RELEASE": true,
}

type GoNoGoDecision string

const (
	DecisionGo   GoNoGoDecision = "GO"
	DecisionNoGo GoNoGoDecision = "NO_GO"
)
