package scoring

// Weights holds the penalty magnitude for each base scoring rule. A Weights
// value is fixed for the lifetime of a Pipeline; callers needing different
// magnitudes construct a new value instead of mutating a shared one.
type Weights struct {
	DockerExposure      float64
	TLSIssues           float64
	DatabaseExposure    float64
	Vulnerabilities     float64
	SSHExposure         float64
	PortExposurePerPort float64
}

// Recognized keys for map- and file-based weight configuration.
const (
	WeightDockerExposure      = "dockerExposure"
	WeightTLSIssues           = "tlsIssues"
	WeightDatabaseExposure    = "databaseExposure"
	WeightVulnerabilities     = "vulnerabilities"
	WeightSSHExposure         = "sshExposure"
	WeightPortExposurePerPort = "portExposurePerPort"
)

// DefaultWeights returns the standard penalty magnitudes.
func DefaultWeights() Weights {
	return Weights{
		DockerExposure:      35,
		TLSIssues:           28,
		DatabaseExposure:    30,
		Vulnerabilities:     18,
		SSHExposure:         12,
		PortExposurePerPort: 2,
	}
}

// WeightsFromMap overlays recognized keys from m onto the defaults.
// Unrecognized keys are ignored, not errors.
func WeightsFromMap(m map[string]float64) Weights {
	w := DefaultWeights()
	for key, value := range m {
		switch key {
		case WeightDockerExposure:
			w.DockerExposure = value
		case WeightTLSIssues:
			w.TLSIssues = value
		case WeightDatabaseExposure:
			w.DatabaseExposure = value
		case WeightVulnerabilities:
			w.Vulnerabilities = value
		case WeightSSHExposure:
			w.SSHExposure = value
		case WeightPortExposurePerPort:
			w.PortExposurePerPort = value
		}
	}
	return w
}
