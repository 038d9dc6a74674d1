package model

import (
	"errors"
	"fmt"
)

// ErrEndpointNotFound is returned by endpoint repositories for unknown records.
var ErrEndpointNotFound = errors.New("endpoint not found")

// ConfigurationError reports missing or invalid configuration, detected
// before any provisioning begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// ProvisioningError wraps a provider API rejection of a create/update
// operation (cluster, node pool, file share, volume, claim). No rollback is
// attempted; orphan cleanup is the caller's destroy cycle.
type ProvisioningError struct {
	Resource string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %s: %v", e.Resource, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// DeploymentError wraps a rejection of the workload or service resources.
type DeploymentError struct {
	Resource string
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deploying %s: %v", e.Resource, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
