package model

// ClusterSpec describes a managed Kubernetes cluster to provision.
// Immutable once submitted to a driver.
type ClusterSpec struct {
	Name     string // cluster name, unique per provider location
	Provider string // provider identifier (driver name)
	Location string // region or zone, provider-dependent

	// RemoveDefaultNodePool requests that the throwaway pool the provider
	// forces at creation time be deleted once the cluster exists. Managed
	// clusters cannot be created with zero node pools; real capacity comes
	// from the dedicated pool provisioned afterwards.
	RemoveDefaultNodePool bool

	NodePool NodePoolSpec // dedicated node pool created after the cluster
}

// NodePoolSpec describes the dedicated, separately autoscaled node pool.
type NodePoolSpec struct {
	Name         string
	MachineType  string
	InitialCount int32
	MinCount     int32
	MaxCount     int32
	Preemptible  bool
}

// ClusterInfo is the driver-reported state of a provisioned cluster,
// consumed by the node-pool and access-credential stages.
type ClusterInfo struct {
	Name     string
	Location string
	Endpoint string // API server URL or host
	CACert   []byte // PEM-encoded cluster CA certificate
}

// AccessCredential is the authentication material needed to issue API calls
// against a provisioned cluster. Exactly one of ClientCert/ClientKey or Exec
// is populated: providers with indirect authentication (the GKE family)
// carry an exec-plugin descriptor instead of raw keys.
type AccessCredential struct {
	Endpoint   string
	CACert     []byte
	ClientCert []byte
	ClientKey  []byte
	Exec       *ExecCredential
}

// ExecCredential describes an exec-based client-go credential plugin.
type ExecCredential struct {
	Command    string
	Args       []string
	APIVersion string // client.authentication.k8s.io version
}

// ClusterHandle references a provisioned cluster with usable capacity.
// It is produced only after the dedicated node pool exists, so consumers
// never observe a cluster with nothing but the throwaway default pool.
type ClusterHandle struct {
	Name       string
	Credential *AccessCredential
}
