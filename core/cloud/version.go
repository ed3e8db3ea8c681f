package cloud

// Version and Fingerprint are reported by Model.Status. They are set at
// build time with -ldflags "-X github.com/kilianp07/skycloud/core/cloud.Version=...".
var (
	Version     = "dev"
	Fingerprint = "unknown"
)
