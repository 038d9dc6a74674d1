package fleetcfg

import (
	"os"
	"strconv"

	"github.com/fleetform/fleetform/domain/model"
)

const (
	// DefaultImageTag is used when FLEETFORM_IMAGE_TAG is unset or empty.
	DefaultImageTag = "latest"
	// DefaultContainerPort is used when FLEETFORM_CONTAINER_PORT is unset
	// or not a number.
	DefaultContainerPort int32 = 3000
)

// ForwardedEnvNames is the fixed set of process environment variables
// forwarded into the deployed workload. Nothing outside this list is ever
// forwarded; every listed name is forwarded even when unset.
var ForwardedEnvNames = []string{
	"NODE_ENV",
	"LOG_LEVEL",
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"SESSION_SECRET",
	"ANALYTICS_API_KEY",
}

// dbAliasHostnames are the fixed names resolved to FLEETFORM_DB_NODES_IP.
var dbAliasHostnames = []string{"db-0.internal", "db-1.internal", "db-2.internal"}

// Env is the process-environment surface of a run.
type Env struct {
	ImageTag      string
	ContainerPort int32
	StorageGB     int64
	HostAliases   []model.HostAlias
	WorkloadEnv   map[string]string
}

// ReadEnv ingests the process environment. FLEETFORM_STORAGE_GB is the only
// required value; everything else falls back to a default.
func ReadEnv() (*Env, error) {
	e := &Env{
		ImageTag:      DefaultImageTag,
		ContainerPort: DefaultContainerPort,
		WorkloadEnv:   make(map[string]string, len(ForwardedEnvNames)),
	}

	if v := os.Getenv("FLEETFORM_IMAGE_TAG"); v != "" {
		e.ImageTag = v
	}

	if v := os.Getenv("FLEETFORM_CONTAINER_PORT"); v != "" {
		if p, err := strconv.ParseInt(v, 10, 32); err == nil && p > 0 {
			e.ContainerPort = int32(p)
		}
	}

	v, ok := os.LookupEnv("FLEETFORM_STORAGE_GB")
	if !ok {
		return nil, &model.ConfigurationError{Field: "FLEETFORM_STORAGE_GB", Reason: "required value is not set"}
	}
	gb, err := strconv.ParseInt(v, 10, 64)
	if err != nil || gb <= 0 {
		return nil, &model.ConfigurationError{Field: "FLEETFORM_STORAGE_GB", Reason: "must be a positive integer"}
	}
	e.StorageGB = gb

	if ip := os.Getenv("FLEETFORM_DB_NODES_IP"); ip != "" {
		for _, h := range dbAliasHostnames {
			e.HostAliases = append(e.HostAliases, model.HostAlias{IP: ip, Hostnames: []string{h}})
		}
	}

	for _, name := range ForwardedEnvNames {
		e.WorkloadEnv[name] = os.Getenv(name)
	}

	return e, nil
}
