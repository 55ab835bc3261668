package pricing

// Role identifies a build-phase engineering role billed by the day.
type Role string

const (
	RoleSolutionArchitect Role = "solution_architect"
	RoleMLEngineer        Role = "ml_engineer"
	RoleBackend           Role = "backend"
	RoleFrontend          Role = "frontend"
	RoleDevOps            Role = "devops"
	RoleQA                Role = "qa"
	RoleProjectManager    Role = "project_manager"
)

const roleCount = 7

var roles = [roleCount]Role{
	RoleSolutionArchitect,
	RoleMLEngineer,
	RoleBackend,
	RoleFrontend,
	RoleDevOps,
	RoleQA,
	RoleProjectManager,
}

var roleLabels = map[Role]string{
	RoleSolutionArchitect: "Solution Architect",
	RoleMLEngineer:        "ML Engineer",
	RoleBackend:           "Backend Developer",
	RoleFrontend:          "Frontend Developer",
	RoleDevOps:            "DevOps Engineer",
	RoleQA:                "QA Engineer",
	RoleProjectManager:    "Project Manager",
}

// Roles returns all build roles in line-item order.
func Roles() []Role {
	out := make([]Role, roleCount)
	copy(out, roles[:])
	return out
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Scenario is a named pricing strategy: role day-rates plus the two margin rates.
// Margins must be in [0, 1); the catalog rejects anything else when it is loaded.
type Scenario struct {
	Key               string           `json:"key" yaml:"key" validate:"required"`
	Name              string           `json:"name" yaml:"name" validate:"required"`
	Description       string           `json:"description" yaml:"description"`
	DayRates          map[Role]float64 `json:"dayRates" yaml:"dayRates" validate:"required,dive,keys,oneof=solution_architect ml_engineer backend frontend devops qa project_manager,endkeys,gte=0"`
	AnalystRate       float64          `json:"analystRate" yaml:"analystRate" validate:"gte=0"`
	LaborMargin       float64          `json:"laborMargin" yaml:"laborMargin" validate:"gte=0,lt=1"`
	PassthroughMargin float64          `json:"passthroughMargin" yaml:"passthroughMargin" validate:"gte=0,lt=1"`
	TargetMargin      float64          `json:"targetMargin" yaml:"targetMargin" validate:"gte=0,lt=1"`
}

// DayRate returns the configured day-rate for role, or 0 when none is set.
func (s Scenario) DayRate(role Role) float64 {
	return s.DayRates[role]
}

// Clone returns a deep copy so callers cannot mutate a shared catalog entry.
func (s Scenario) Clone() Scenario {
	rates := make(map[Role]float64, len(s.DayRates))
	for role, rate := range s.DayRates {
		rates[role] = rate
	}
	s.DayRates = rates
	return s
}
