// Package gke implements the provider driver for Google Kubernetes Engine
// with Filestore-backed shared storage.
package gke

import (
	"fmt"
	"strings"

	"google.golang.org/api/option"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/domain/model"
)

// driver implements the GKE provider driver.
type driver struct {
	Project       string
	Region        string
	Network       string
	FilestoreZone string
	ClientOpts    []option.ClientOption
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "gke" }

func init() {
	providerdrv.Register("gke", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}

		project := get("GOOGLE_PROJECT_ID")
		region := get("GOOGLE_REGION")
		missing := make([]string, 0, 2)
		if project == "" {
			missing = append(missing, "GOOGLE_PROJECT_ID")
		}
		if region == "" {
			missing = append(missing, "GOOGLE_REGION")
		}
		if len(missing) > 0 {
			return nil, &model.ConfigurationError{
				Field:  strings.Join(missing, ", "),
				Reason: "required GKE settings are not set",
			}
		}

		network := get("GOOGLE_NETWORK")
		if network == "" {
			network = "default"
		}

		var opts []option.ClientOption
		if f := get("GOOGLE_CREDENTIALS_FILE"); f != "" {
			opts = append(opts, option.WithCredentialsFile(f))
		}

		return &driver{
			Project:       project,
			Region:        region,
			Network:       network,
			FilestoreZone: get("GOOGLE_FILESTORE_ZONE"),
			ClientOpts:    opts,
		}, nil
	})
}

// locationPath returns the parent path for location-scoped requests.
func (d *driver) locationPath(location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", d.Project, location)
}

// clusterPath returns the fully qualified cluster resource name.
func (d *driver) clusterPath(location, cluster string) string {
	return fmt.Sprintf("%s/clusters/%s", d.locationPath(location), cluster)
}

var _ providerdrv.Driver = (*driver)(nil)
