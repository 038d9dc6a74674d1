// Package naming centralizes derivation of resource names shared between
// cloud provider APIs and in-cluster objects. Provider APIs constrain name
// length and charset (storage accounts most aggressively), so derived names
// carry a short deterministic hash of their inputs instead of raw
// concatenation.
package naming

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// hashLength is the hex length of short hashes appended to derived names.
const hashLength = 6

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// NodePoolName derives the dedicated node pool name for a cluster.
func NodePoolName(clusterName string) string {
	return clusterName + "-pool"
}

// FileShareName derives the managed file share name for a target.
func FileShareName(targetName string) string {
	return targetName + "-share"
}

// VolumeName derives the persistent volume name for a target.
func VolumeName(targetName string) string {
	return targetName + "-nfs-pv"
}

// ClaimName derives the persistent volume claim name for a target.
func ClaimName(targetName string) string {
	return targetName + "-nfs-pvc"
}

// DeploymentName derives the workload name for a target.
func DeploymentName(targetName string) string {
	return targetName + "-webapp"
}

// ServiceName derives the load-balancer service name for a target.
func ServiceName(targetName string) string {
	return targetName + "-webapp-svc"
}

// StorageAccountName derives an Azure storage account name: 3-24 chars,
// lowercase alphanumerics only. The hash keeps distinct targets distinct
// after the charset squeeze.
func StorageAccountName(targetName string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, targetName)
	if len(base) > 14 {
		base = base[:14]
	}
	return "ff" + base + ShortHash(targetName, hashLength)
}
