package model

import "fmt"

// StorageClassName is the fixed class shared by the volume and its claim.
// Binding requires textual equality on both objects.
const StorageClassName = "fleetform-nfs"

// StorageAccessMode is fixed: the share is mounted read-write from multiple
// nodes simultaneously.
const StorageAccessMode = "ReadWriteMany"

// StorageSpec describes a shared network file share request.
type StorageSpec struct {
	Name             string
	CapacityGB       int64  // requested capacity, positive
	StorageClassName string // must be StorageClassName; kept explicit so a mismatch is detectable
}

// Validate rejects specs that cannot produce a bindable claim.
func (s *StorageSpec) Validate() error {
	if s.CapacityGB <= 0 {
		return &ConfigurationError{Field: "storage.capacityGB", Reason: fmt.Sprintf("must be positive, got %d", s.CapacityGB)}
	}
	if s.StorageClassName != StorageClassName {
		return &ConfigurationError{Field: "storage.storageClassName", Reason: fmt.Sprintf("must be %q, got %q", StorageClassName, s.StorageClassName)}
	}
	return nil
}

// FileShareInfo is the driver-reported location of a managed file share.
type FileShareInfo struct {
	ServerAddress string // NFS server address
	ExportPath    string // exported path on the server
	CapacityGB    int64
}

// StorageClaimHandle references a bound persistent volume claim. Valid only
// when the claim and its volume carry the same storage class name and the
// claim references the volume by name.
type StorageClaimHandle struct {
	ClaimName        string
	VolumeName       string
	StorageClassName string
	CapacityGB       int64
}

// CheckBinding enforces the binding precondition between a volume's and a
// claim's storage class names. A mismatch is a configuration defect, not a
// runtime-recoverable error.
func CheckBinding(volumeClass, claimClass string) error {
	if volumeClass != claimClass {
		return &ConfigurationError{
			Field:  "storageClassName",
			Reason: fmt.Sprintf("volume class %q does not match claim class %q", volumeClass, claimClass),
		}
	}
	return nil
}
