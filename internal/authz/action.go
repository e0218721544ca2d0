// Package authz implements the permission engine. Every mutation and every
// governance transition goes through Engine.CanPerform before anything else
// touches the store.
package authz

// Action is a closed union of everything an actor can ask to do. Each kind
// carries the context ids its authorization rule needs, so a rule can never
// be evaluated against missing context. New kinds must be added to the
// Engine.CanPerform switch; there is no string-keyed fallthrough.
type Action interface {
	isAction()
	// Name is a stable identifier used for audit events and log lines.
	Name() string
	// Write reports whether the action mutates state. Write actions are
	// denied for every non-admin role while the system freeze is set.
	Write() bool
}

// Portfolio actions.
type (
	CreatePortfolio  struct{}
	EditPortfolio    struct{ PortfolioID string }
	SubmitPortfolio  struct{ PortfolioID string }
	ApprovePortfolio struct{ PortfolioID string }
	RejectPortfolio  struct{ PortfolioID string }
	ArchivePortfolio struct{ PortfolioID string }
	LockPortfolio    struct{ PortfolioID string }
	UnlockPortfolio  struct{ PortfolioID string }
)

// Product actions.
type (
	CreateProduct  struct{ PortfolioID string }
	EditProduct    struct{ ProductID string }
	SubmitProduct  struct{ ProductID string }
	ApproveProduct struct{ ProductID string }
	RejectProduct  struct{ ProductID string }
	ArchiveProduct struct{ ProductID string }
	LockProduct    struct{ ProductID string }
)

// Feature actions.
type (
	CreateFeature     struct{ ProductID string }
	EditFeature       struct{ FeatureID string }
	TransitionFeature struct{ FeatureID string }
)

// Release actions. Go/No-Go decision authority sits one level above
// submission authority: product managers submit, program managers decide.
type (
	CreateRelease struct{ ProductID string }
	EditRelease   struct{ ReleaseID string }
	SubmitGoNoGo  struct{ ReleaseID string }
	DecideGoNoGo  struct{ ReleaseID string }
	LockRelease   struct{ ReleaseID string }
)

// Cost-ledger actions. No ownership scoping, only role exclusion.
type (
	ViewCosts       struct{}
	CreateCostEntry struct{}
	EditCostEntry   struct{}
	DeleteCostEntry struct{}
)

// Resource-allocation actions.
type (
	CreateAllocation struct{ PortfolioID string }
	DeleteAllocation struct{ AllocationID string }
	ViewAllocations  struct{ PortfolioID string }
)

// Administrative actions.
type (
	ManageUsers     struct{}
	ManageRateCards struct{}
	ViewAudit       struct{}
	ControlFreeze   struct{}
)

func (CreatePortfolio) isAction()  {}
func (EditPortfolio) isAction()    {}
func (SubmitPortfolio) isAction()  {}
func (ApprovePortfolio) isAction() {}
func (RejectPortfolio) isAction()  {}
func (ArchivePortfolio) isAction() {}
func (LockPortfolio) isAction()    {}
func (UnlockPortfolio) isAction()  {}

func (CreateProduct) isAction()  {}
func (EditProduct) isAction()    {}
func (SubmitProduct) isAction()  {}
func (ApproveProduct) isAction() {}
func (RejectProduct) isAction()  {}
func (ArchiveProduct) isAction() {}
func (LockProduct) isAction()    {}

func (CreateFeature) isAction()     {}
func (EditFeature) isAction()       {}
func (TransitionFeature) isAction() {}

func (CreateRelease) isAction() {}
func (EditRelease) isAction()   {}
func (SubmitGoNoGo) isAction()  {}
func (DecideGoNoGo) isAction()  {}
func (LockRelease) isAction()   {}

func (ViewCosts) isAction()       {}
func (CreateCostEntry) isAction() {}
func (EditCostEntry) isAction()   {}
func (DeleteCostEntry) isAction() {}

func (CreateAllocation) isAction() {}
func (DeleteAllocation) isAction() {}
func (ViewAllocations) isAction()  {}

func (ManageUsers) isAction()     {}
func (ManageRateCards) isAction() {}
func (ViewAudit) isAction()       {}
func (ControlFreeze) isAction()   {}

func (CreatePortfolio) Name() string  { return "portfolio.create" }
func (EditPortfolio) Name() string    { return "portfolio.edit" }
func (SubmitPortfolio) Name() string  { return "portfolio.submit" }
func (ApprovePortfolio) Name() string { return "portfolio.approve" }
func (RejectPortfolio) Name() string  { return "portfolio.reject" }
func (ArchivePortfolio) Name() string { return "portfolio.archive" }
func (LockPortfolio) Name() string    { return "portfolio.lock" }
func (UnlockPortfolio) Name() string  { return "portfolio.unlock" }

func (CreateProduct) Name() string  { return "product.create" }
func (EditProduct) Name() string    { return "product.edit" }
func (SubmitProduct) Name() string  { return "product.submit" }
func (ApproveProduct) Name() string { return "product.approve" }
func (RejectProduct) Name() string  { return "product.reject" }
func (ArchiveProduct) Name() string { return "product.archive" }
func (LockProduct) Name() string    { return "product.lock" }

func (CreateFeature) Name() string     { return "feature.create" }
func (EditFeature) Name() string       { return "feature.edit" }
func (TransitionFeature) Name() string { return "feature.transition" }

func (CreateRelease) Name() string { return "release.create" }
func (EditRelease) Name() string   { return "release.edit" }
func (SubmitGoNoGo) Name() string  { return "release.gonogo.submit" }
func (DecideGoNoGo) Name() string  { return "release.gonogo.decide" }
func (LockRelease) Name() string   { return "release.lock" }

func (ViewCosts) Name() string       { return "cost.view" }
func (CreateCostEntry) Name() string { return "cost.create" }
func (EditCostEntry) Name() string   { return "cost.edit" }
func (DeleteCostEntry) Name() string { return "cost.delete" }

func (CreateAllocation) Name() string { return "allocation.create" }
func (DeleteAllocation) Name() string { return "allocation.delete" }
func (ViewAllocations) Name() string  { return "allocation.view" }

func (ManageUsers) Name() string     { return "admin.users" }
func (ManageRateCards) Name() string { return "admin.ratecards" }
func (ViewAudit) Name() string       { return "admin.audit" }
func (ControlFreeze) Name() string   { return "admin.freeze" }

func (CreatePortfolio) Write() bool  { return true }
func (EditPortfolio) Write() bool    { return true }
func (SubmitPortfolio) Write() bool  { return true }
func (ApprovePortfolio) Write() bool { return true }
func (RejectPortfolio) Write() bool  { return true }
func (ArchivePortfolio) Write() bool { return true }
func (LockPortfolio) Write() bool    { return true }
func (UnlockPortfolio) Write() bool  { return true }

func (CreateProduct) Write() bool  { return true }
func (EditProduct) Write() bool    { return true }
func (SubmitProduct) Write() bool  { return true }
func (ApproveProduct) Write() bool { return true }
func (RejectProduct) Write() bool  { return true }
func (ArchiveProduct) Write() bool { return true }
func (LockProduct) Write() bool    { return true }

func (CreateFeature) Write() bool     { return true }
func (EditFeature) Write() bool       { return true }
func (TransitionFeature) Write() bool { return true }

func (CreateRelease) Write() bool { return true }
func (EditRelease) Write() bool   { return true }
func (SubmitGoNoGo) Write() bool  { return true }
func (DecideGoNoGo) Write() bool  { return true }
func (LockRelease) Write() bool   { return true }

func (ViewCosts) Write() bool       { return false }
func (CreateCostEntry) Write() bool { return true }
func (EditCostEntry) Write() bool   { return true }
func (DeleteCostEntry) Write() bool { return true }

func (CreateAllocation) Write() bool { return true }
func (DeleteAllocation) Write() bool { return true }
func (ViewAllocations) Write() bool  { return false }

func (ManageUsers) Write() bool     { return true }
func (ManageRateCards) Write() bool { return true }
func (ViewAudit) Write() bool       { return false }
func (ControlFreeze) Write() bool   { return true }
