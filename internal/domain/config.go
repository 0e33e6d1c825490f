package domain

// VectorConfig holds internal vectorization settings, not exposed to users.
type VectorConfig struct {
	Model      string
	Dimensions int
}

// DefaultVectorConfig returns the default configuration tuned for text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	}
}

// KeyPrefix namespaces every key resindex writes to a shared cache.
const KeyPrefix = "resindex:"
