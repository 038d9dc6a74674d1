// Package fleetcfg defines the configuration schema (structs) for fleetform.yml.
// This package is intended for YAML -> struct deserialization.
// Loading helpers and validations are implemented separately.
package fleetcfg

// Root is the root structure of fleetform.yml.
type Root struct {
	Version  string   `yaml:"version"`
	Defaults Defaults `yaml:"defaults"`
	Targets  []Target `yaml:"targets"`
}

// Defaults holds settings shared by every target.
type Defaults struct {
	Replicas      int32        `yaml:"replicas"`
	CPURequest    string       `yaml:"cpuRequest"`
	CPULimit      string       `yaml:"cpuLimit"`
	MachineType   string       `yaml:"machineType"`
	MinNodes      int32        `yaml:"minNodes"`
	MaxNodes      int32        `yaml:"maxNodes"`
	Preemptible   bool         `yaml:"preemptible"`
	LivenessPath  string       `yaml:"livenessPath"`
	ReadinessPath string       `yaml:"readinessPath"`
	Autoscaling   *Autoscaling `yaml:"autoscaling,omitempty"`
}

// Autoscaling holds the replica policy attached to each deployment
// when present.
type Autoscaling struct {
	TargetCPUUtilization int32 `yaml:"targetCPUUtilization"`
	MinReplicas          int32 `yaml:"minReplicas"`
	MaxReplicas          int32 `yaml:"maxReplicas"`
}

// Target describes one cluster to provision and deploy to.
type Target struct {
	Name     string            `yaml:"name"`
	Driver   string            `yaml:"driver"`   // e.g., "gke", "aks"
	Location string            `yaml:"location"` // provider region or location
	Settings map[string]string `yaml:"settings"` // driver-specific settings
	StaticIP string            `yaml:"staticIP,omitempty"`
}
