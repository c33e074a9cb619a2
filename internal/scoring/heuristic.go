package scoring

import (
	"net/netip"
	"strings"
)

// MLAnalysis is the output of the heuristic analysis stage.
type MLAnalysis struct {
	MLRiskLevel     RiskLevel `json:"mlRiskLevel"`
	ScoreAdjustment float64   `json:"scoreAdjustment"`
	AnomalyFlags    []string  `json:"anomalyFlags"`
}

// Signed adjustments applied to the base score per heuristic signal.
const (
	adjSuspiciousPattern = -15.0
	adjPublicAddress     = -5.0
	adjBehavioralAnomaly = -20.0
	adjBestPractices     = +5.0
)

// Penalties per signal on the independent 100-point anomaly scale.
const (
	anomalyPortPattern = 30.0
	anomalyGeographic  = 20.0
	anomalyBehavioral  = 40.0
	anomalyGoodBonus   = 10.0
)

// Analyzer computes the secondary heuristic risk signal. It is stateless and
// deterministic: identical input always yields identical output.
type Analyzer struct{}

// Analyze inspects input with heuristics that sit outside the base rules and
// returns a bounded signed score adjustment plus an anomaly risk level
// classified independently of the base score's risk level.
func (Analyzer) Analyze(in *ScanInput, baseScore float64) MLAnalysis {
	var adjustment float64
	anomaly := 100.0 // independent scale, starts clean
	flags := []string{}

	if suspiciousPortPattern(in) {
		adjustment += adjSuspiciousPattern
		anomaly -= anomalyPortPattern
		flags = append(flags, "ML: Suspicious port pattern detected")
	}
	if publicAddress(in.IP) {
		adjustment += adjPublicAddress
		anomaly -= anomalyGeographic
		flags = append(flags, "ML: Public address exposure")
	}
	if behavioralAnomaly(in) {
		adjustment += adjBehavioralAnomaly
		anomaly -= anomalyBehavioral
		flags = append(flags, "ML: Behavioral anomaly detected")
	}
	if securityBestPractices(in) {
		adjustment += adjBestPractices
		anomaly += anomalyGoodBonus
		flags = append(flags, "ML: Security best practices detected")
	}

	anomaly = clampScore(anomaly)

	// The adjustment must never push the final score outside [0,100].
	adjustment = clampScore(baseScore+adjustment) - baseScore

	_, level := Classify(anomaly)
	return MLAnalysis{
		MLRiskLevel:     level,
		ScoreAdjustment: adjustment,
		AnomalyFlags:    flags,
	}
}

// suspiciousPortPattern recognizes service combinations associated with
// poorly segmented or attacker-staged hosts: a sprawling port set, or a
// database engine reachable next to a remote-management port with no usable
// TLS in front of either.
func suspiciousPortPattern(in *ScanInput) bool {
	if len(in.OpenPorts) > 10 {
		return true
	}
	db := in.hasAnyPort(3306, 5432, 27017, 6379, 1433, 1521)
	mgmt := in.hasAnyPort(sshPort, dockerPlainPort, 3389, 5900)
	return db && mgmt && !trustedIssuer(in.TLS)
}

// publicAddress reports whether ip parses as a public unicast address.
// Private, loopback, link-local and otherwise reserved ranges are neutral,
// as is an absent or unparseable address. This is a coarse static
// classification, not a geolocation lookup.
func publicAddress(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return !(addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified())
}

// behavioralAnomaly fires on the SSH + database + web + docker co-exposure
// profile, a combination the base rules penalize individually but which
// together suggests a compromised or badly partitioned host.
func behavioralAnomaly(in *ScanInput) bool {
	ssh := in.HasPort(sshPort)
	db := in.hasAnyPort(3306, 5432, 27017)
	web := in.hasAnyPort(80, 443)
	docker := in.HasPort(dockerPlainPort)
	return ssh && db && web && docker
}

// securityBestPractices recognizes a minimal, well-curated exposure: HTTPS
// without plain HTTP, a trusted certificate, and at most three open ports.
func securityBestPractices(in *ScanInput) bool {
	https := in.HasPort(443)
	http := in.HasPort(80)
	return https && !http && trustedIssuer(in.TLS) && len(in.OpenPorts) <= 3
}

// trustedIssuer reports whether the presented certificate has an issuer that
// is not self-signed or otherwise untrusted.
func trustedIssuer(tls *TLSInfo) bool {
	if tls == nil || strings.TrimSpace(tls.Issuer) == "" {
		return false
	}
	issuer := strings.ToLower(tls.Issuer)
	return !strings.Contains(issuer, "self-signed") && !strings.Contains(issuer, "self signed") &&
		!strings.Contains(issuer, "untrusted")
}
