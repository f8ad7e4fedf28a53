package license

import "fmt"

// Cache keys are namespaced per hashed instance identifier so that multiple
// deployments can share one Redis. Exported so operational tooling can
// invalidate entries out of band (see cmd/licensectl).

// StatusKey is where the last confirmed status+features snapshot lives.
func StatusKey(instanceID string) string {
	return fmt.Sprintf("license:%s:status", instanceID)
}

// PreviousResultKey is where the grace-period fallback record lives.
func PreviousResultKey(instanceID string) string {
	return fmt.Sprintf("license:%s:previous_result", instanceID)
}

// FetchLockKey is the advisory lock bounding concurrent verification calls.
func FetchLockKey(instanceID string) string {
	return fmt.Sprintf("license:%s:fetch_lock", instanceID)
}
