package k8s

const (
	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 // seconds

	// In-cluster context name
	InClusterContext = "in-cluster"
)
