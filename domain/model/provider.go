package model

// Provider identifies an infrastructure provider a cluster target runs on.
type Provider struct {
	Name     string            // provider name (unique within a fleet config)
	Driver   string            // e.g., "gke", "aks"
	Settings map[string]string // driver-specific settings (credentials, location, project)
}
