package model

import "fmt"

// EndpointPolicy selects which load-balancer status field carries the
// external address. Which field a provider populates is not normalized by
// the Kubernetes API, so the quirk list lives here, closed and testable,
// instead of inline string comparisons in deployment code.
type EndpointPolicy int

const (
	// UseHostname reads the ingress hostname field (the default).
	UseHostname EndpointPolicy = iota
	// UseIP reads the ingress IP field.
	UseIP
)

// ipOnlyTargets names the cluster targets whose providers populate only the
// ingress IP field. Keyed on the target name, not on the service object.
var ipOnlyTargets = map[string]bool{
	"gke": true,
	"aks": true,
}

// EndpointPolicyFor returns the address selection policy for a cluster
// target name.
func EndpointPolicyFor(targetName string) EndpointPolicy {
	if ipOnlyTargets[targetName] {
		return UseIP
	}
	return UseHostname
}

// LoadBalancerIngress is the provider-reported external endpoint of a
// load-balanced service. Exactly one field is usually populated.
type LoadBalancerIngress struct {
	Hostname string
	IP       string
}

// Resolve picks the address according to policy.
func (in LoadBalancerIngress) Resolve(p EndpointPolicy) (string, error) {
	switch p {
	case UseIP:
		if in.IP == "" {
			return "", fmt.Errorf("load balancer ingress has no IP")
		}
		return in.IP, nil
	default:
		if in.Hostname == "" {
			return "", fmt.Errorf("load balancer ingress has no hostname")
		}
		return in.Hostname, nil
	}
}

// EndpointURL builds the reachable URL from a resolved address and the
// service's declared external port.
func EndpointURL(address string, port int32) string {
	return fmt.Sprintf("http://%s:%d", address, port)
}
