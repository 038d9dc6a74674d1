package gke

import (
	"context"
	"fmt"
	"time"

	filestore "cloud.google.com/go/filestore/apiv1"
	"cloud.google.com/go/filestore/apiv1/filestorepb"

	"github.com/fleetform/fleetform/domain/model"
)

// fileShareName is the export name configured on every Filestore instance.
// The instance name varies per target; the share inside it does not.
const fileShareName = "share1"

// defaultShareZoneSuffix pins Filestore instances to a zone within the
// driver's region when GOOGLE_FILESTORE_ZONE is not set.
const defaultShareZoneSuffix = "-b"

// FileShareCreate provisions a Filestore instance as the shared NFS backend.
func (d *driver) FileShareCreate(ctx context.Context, spec *model.StorageSpec) (info *model.FileShareInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "FileShareCreate")
	defer func() { cleanup(err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	client, err := filestore.NewCloudFilestoreManagerClient(ctx, d.ClientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create filestore client: %w", err)
	}
	defer client.Close()

	req := &filestorepb.CreateInstanceRequest{
		Parent:     d.locationPath(d.shareZone()),
		InstanceId: spec.Name,
		Instance: &filestorepb.Instance{
			Tier: filestorepb.Instance_BASIC_HDD,
			FileShares: []*filestorepb.FileShareConfig{
				{Name: fileShareName, CapacityGb: spec.CapacityGB},
			},
			Networks: []*filestorepb.NetworkConfig{
				{Network: d.Network},
			},
		},
	}
	op, err := client.CreateInstance(ctx, req)
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "file share " + spec.Name, Err: err}
	}
	inst, err := op.Wait(ctx)
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "file share " + spec.Name, Err: err}
	}

	nets := inst.GetNetworks()
	if len(nets) == 0 || len(nets[0].GetIpAddresses()) == 0 {
		return nil, fmt.Errorf("filestore instance %s reported no address", spec.Name)
	}

	return &model.FileShareInfo{
		ServerAddress: nets[0].GetIpAddresses()[0],
		ExportPath:    "/" + fileShareName,
		CapacityGB:    spec.CapacityGB,
	}, nil
}

// shareZone returns the zone Filestore instances are placed in.
func (d *driver) shareZone() string {
	if d.FilestoreZone != "" {
		return d.FilestoreZone
	}
	return d.Region + defaultShareZoneSuffix
}
