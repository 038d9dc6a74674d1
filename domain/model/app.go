package model

// ImageRepository is the fixed container image repository; only the tag is
// caller-supplied.
const ImageRepository = "docker.io/fleetform/webapp"

// ClaimMountPath is the fixed container path a bound storage claim is
// mounted at when present.
const ClaimMountPath = "/mnt/shared"

// Probe timing is fixed for both liveness and readiness probes.
const (
	ProbeInitialDelaySeconds = 5
	ProbeTimeoutSeconds      = 1
	ProbePeriodSeconds       = 10
	ProbeFailureThreshold    = 3
)

// HostAlias maps hostnames to one fixed IP inside the pod's network spec.
// It models an out-of-cluster dependency reachable only by address.
type HostAlias struct {
	IP        string
	Hostnames []string
}

// DeploymentSpec describes the replicated web workload.
type DeploymentSpec struct {
	Name          string
	ImageTag      string // appended to ImageRepository
	Replicas      int32
	ContainerPort int32
	CPURequest    string // e.g. "100m"
	CPULimit      string // e.g. "500m"

	// Env is the forwarded environment bag. Keys are restricted to the
	// configuration whitelist; values may be empty when the corresponding
	// process variable is unset.
	Env map[string]string

	// HostAliases are injected verbatim when non-empty.
	HostAliases []HostAlias

	LivenessPath  string
	ReadinessPath string
}

// Image returns the full image reference.
func (d *DeploymentSpec) Image() string {
	return ImageRepository + ":" + d.ImageTag
}

// ServiceExposedPort is the fixed externally exposed service port.
const ServiceExposedPort int32 = 80

// ServiceSpec describes the load-balanced endpoint for a deployment.
type ServiceSpec struct {
	Name       string
	Port       int32 // exposed port, ServiceExposedPort
	TargetPort int32 // container port, default 3000

	// StaticIP pins the load balancer address when the provider requires a
	// pre-allocated address; empty means provider-allocated.
	StaticIP string
}

// AppURL is the resolved reachable endpoint of one deployed target.
type AppURL struct {
	ClusterName string `json:"clusterName"`
	URL         string `json:"url"`
}
