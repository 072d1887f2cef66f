package model

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// Scope carries the per-request caller identity.
type Scope struct {
	UserID   string // Stable user identifier (e.g. "web_1042")
	Username string
	Role     string // Caller-supplied role hint (e.g. "employee", "manager")
}
