package fleetcfg

import (
	"fmt"

	"github.com/fleetform/fleetform/domain/model"
)

// Validate performs semantic validation on the configuration tree.
func (r *Root) Validate() error {
	if len(r.Targets) == 0 {
		return &model.ConfigurationError{Field: "targets", Reason: "at least one target is required"}
	}
	seen := make(map[string]struct{}, len(r.Targets))
	for i, t := range r.Targets {
		if t.Name == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("targets[%d].name", i), Reason: "name is required"}
		}
		if _, exists := seen[t.Name]; exists {
			return &model.ConfigurationError{Field: fmt.Sprintf("targets[%d].name", i), Reason: fmt.Sprintf("duplicate target name %q", t.Name)}
		}
		seen[t.Name] = struct{}{}
		if t.Driver == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("targets[%d].driver", i), Reason: "driver is required"}
		}
		if t.Location == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("targets[%d].location", i), Reason: "location is required"}
		}
	}
	if d := r.Defaults; d.Autoscaling != nil {
		a := d.Autoscaling
		if a.MinReplicas <= 0 || a.MaxReplicas < a.MinReplicas {
			return &model.ConfigurationError{Field: "defaults.autoscaling", Reason: "replica bounds must satisfy 0 < min <= max"}
		}
		if a.TargetCPUUtilization <= 0 || a.TargetCPUUtilization > 100 {
			return &model.ConfigurationError{Field: "defaults.autoscaling.targetCPUUtilization", Reason: "must be a percentage in (0, 100]"}
		}
	}
	return nil
}
