package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	baseScore    = 100
	portBaseline = 5 // open ports tolerated before the per-port penalty

	// Share of the docker weight charged when the socket is behind TLS.
	dockerTLSFraction = 0.4
)

const (
	dockerPlainPort = 2375
	dockerTLSPort   = 2376
	sshPort         = 22
)

// Well-known database ports checked by the database-exposure rule.
var databasePorts = map[int]string{
	3306:  "MySQL",
	5432:  "PostgreSQL",
	27017: "MongoDB",
	6379:  "Redis",
	1433:  "MSSQL",
	1521:  "Oracle",
}

// Alternate SSH ports recognized alongside 22.
var defaultSSHAltPorts = []int{2222, 2200, 2022}

// RuleEvaluator applies the weighted base rules to one scan input. Rules are
// independent: evaluation order affects flag order only, never the raw score.
type RuleEvaluator struct {
	weights     Weights
	sshAltPorts []int
	now         time.Time
}

// Evaluate scores input starting from 100 and subtracting the weighted
// penalty of every rule that fires. The returned raw score is not clamped;
// clamping is the pipeline's job.
func (e *RuleEvaluator) Evaluate(in *ScanInput) (float64, []string) {
	score := float64(baseScore)
	var flags []string

	// Docker socket exposure. An unencrypted socket is an immediate
	// critical finding; a TLS-guarded one still widens the attack surface.
	if in.HasPort(dockerPlainPort) {
		score -= e.weights.DockerExposure
		flags = append(flags, "CRITICAL: Docker socket exposed (unencrypted)")
	} else if in.HasPort(dockerTLSPort) {
		score -= e.weights.DockerExposure * dockerTLSFraction
		flags = append(flags, "WARNING: Docker TLS socket exposed")
	}

	// SSH exposure, standard and alternate ports. Charged once.
	if ssh := e.openSSHPorts(in); len(ssh) > 0 {
		score -= e.weights.SSHExposure
		flags = append(flags, fmt.Sprintf("SSH exposed on port(s) %s", joinPorts(ssh)))
	}

	// Database exposure is charged once no matter how many engines are open.
	if exposed := exposedDatabases(in); len(exposed) > 0 {
		score -= e.weights.DatabaseExposure
		flags = append(flags, "CRITICAL: Database service(s) exposed: "+strings.Join(exposed, ", "))
	}

	// TLS quality.
	if deficiency := e.tlsDeficiency(in.TLS); deficiency != "" {
		score -= e.weights.TLSIssues
		flags = append(flags, "TLS configuration issue: "+deficiency)
	}

	// Vulnerabilities, one severity-weighted sub-penalty per entry.
	// Identifiers are walked in sorted order so flag output is stable.
	for _, id := range sortedKeys(in.Vulnerabilities) {
		sev := AssessSeverity(id, in.Vulnerabilities[id])
		score -= e.weights.Vulnerabilities * sev.multiplier()
		if sev == SeverityUnknown {
			flags = append(flags, fmt.Sprintf("Vulnerability: %s (unknown severity)", id))
		} else {
			flags = append(flags, fmt.Sprintf("Vulnerability: %s (%s)", id, sev))
		}
	}

	// Excessive port exposure beyond the baseline. Deliberately uncapped:
	// a host with hundreds of open ports should bottom out the score.
	if n := len(in.OpenPorts); n > portBaseline {
		score -= float64(n-portBaseline) * e.weights.PortExposurePerPort
		flags = append(flags, fmt.Sprintf("Excessive port exposure: %d ports open", n))
	}

	return score, flags
}

// openSSHPorts returns the SSH ports present in the input, sorted.
func (e *RuleEvaluator) openSSHPorts(in *ScanInput) []int {
	var open []int
	if in.HasPort(sshPort) {
		open = append(open, sshPort)
	}
	for _, p := range e.sshAltPorts {
		if in.HasPort(p) {
			open = append(open, p)
		}
	}
	sort.Ints(open)
	return open
}

// exposedDatabases names the database services whose well-known ports are
// open, sorted by port number.
func exposedDatabases(in *ScanInput) []string {
	var ports []int
	for p := range databasePorts {
		if in.HasPort(p) {
			ports = append(ports, p)
		}
	}
	sort.Ints(ports)

	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, databasePorts[p])
	}
	return names
}

// tlsDeficiency describes what is wrong with the presented certificate, or
// returns "" when the certificate passes every check. Missing TLS data is a
// deficiency, not an error.
func (e *RuleEvaluator) tlsDeficiency(tls *TLSInfo) string {
	if tls == nil {
		return "no TLS detected"
	}
	issuer := strings.ToLower(strings.TrimSpace(tls.Issuer))
	if issuer == "" {
		return "certificate issuer missing"
	}
	if strings.Contains(issuer, "self-signed") || strings.Contains(issuer, "self signed") ||
		strings.Contains(issuer, "untrusted") {
		return "self-signed or untrusted certificate"
	}
	if tls.Expiry == "" {
		return "certificate expiry missing"
	}
	if exp, ok := parseExpiry(tls.Expiry); ok && !exp.After(e.now) {
		return "certificate expired on " + exp.Format("2006-01-02")
	}
	return ""
}

// parseExpiry accepts the date formats upstream scanners commonly emit. An
// unparseable string skips the expiry check instead of failing the input.
func parseExpiry(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
