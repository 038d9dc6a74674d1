package model

// ClusterTarget is the orchestrator's unit of parallel work: one cluster to
// provision and deploy to, with its provider binding and optional
// pre-allocated load-balancer address.
type ClusterTarget struct {
	Name     string
	Provider Provider
	Location string
	StaticIP string // required by some providers' load balancers, optional otherwise
}
