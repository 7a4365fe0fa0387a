package model

// HealthStatus represents the health check status
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Storage string `json:"storage,omitempty"`
}
