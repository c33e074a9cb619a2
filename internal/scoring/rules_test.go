package scoring

import (
	"strings"
	"testing"
	"time"
)

var testRefTime = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestEvaluator() *RuleEvaluator {
	return &RuleEvaluator{
		weights:     DefaultWeights(),
		sshAltPorts: defaultSSHAltPorts,
		now:         testRefTime,
	}
}

func goodTLS() *TLSInfo {
	return &TLSInfo{Issuer: "DigiCert", Expiry: "2026-01-15"}
}

func TestEvaluateCleanHost(t *testing.T) {
	e := newTestEvaluator()
	score, flags := e.Evaluate(&ScanInput{OpenPorts: []int{443}, TLS: goodTLS()})
	if score != 100 {
		t.Fatalf("expected score 100, got %v", score)
	}
	if len(flags) != 0 {
		t.Fatalf("expected no flags, got %v", flags)
	}
}

func TestEvaluateDockerExposure(t *testing.T) {
	e := newTestEvaluator()

	score, flags := e.Evaluate(&ScanInput{OpenPorts: []int{2375}, TLS: goodTLS()})
	if score != 100-e.weights.DockerExposure {
		t.Fatalf("unexpected score for plain docker socket: %v", score)
	}
	if len(flags) != 1 || flags[0] != "CRITICAL: Docker socket exposed (unencrypted)" {
		t.Fatalf("unexpected flags: %v", flags)
	}

	tlsScore, tlsFlags := e.Evaluate(&ScanInput{OpenPorts: []int{2376}, TLS: goodTLS()})
	if tlsScore <= score {
		t.Fatalf("TLS-guarded docker socket must be penalized less: %v vs %v", tlsScore, score)
	}
	if len(tlsFlags) != 1 || !strings.HasPrefix(tlsFlags[0], "WARNING:") {
		t.Fatalf("expected a WARNING flag, got %v", tlsFlags)
	}
}

func TestEvaluateSSHExposure(t *testing.T) {
	e := newTestEvaluator()

	score, flags := e.Evaluate(&ScanInput{OpenPorts: []int{22}, TLS: goodTLS()})
	if score != 100-e.weights.SSHExposure {
		t.Fatalf("unexpected score: %v", score)
	}
	if len(flags) != 1 || !strings.Contains(flags[0], "SSH") {
		t.Fatalf("expected an SSH flag, got %v", flags)
	}

	// Alternate ports count as SSH exposure too, but the penalty is charged once.
	altScore, altFlags := e.Evaluate(&ScanInput{OpenPorts: []int{22, 2222}, TLS: goodTLS()})
	if altScore != score {
		t.Fatalf("SSH penalty must be charged once, got %v vs %v", altScore, score)
	}
	if !strings.Contains(altFlags[0], "2222") {
		t.Fatalf("flag should name the alternate port: %v", altFlags)
	}
}

func TestEvaluateDatabaseExposureChargedOnce(t *testing.T) {
	e := newTestEvaluator()

	one, _ := e.Evaluate(&ScanInput{OpenPorts: []int{3306}, TLS: goodTLS()})
	three, flags := e.Evaluate(&ScanInput{OpenPorts: []int{3306, 5432, 6379}, TLS: goodTLS()})
	if one != three {
		t.Fatalf("database penalty must not scale with port count: %v vs %v", one, three)
	}

	var dbFlag string
	for _, f := range flags {
		if strings.Contains(f, "Database") {
			dbFlag = f
		}
	}
	if !strings.HasPrefix(dbFlag, "CRITICAL:") {
		t.Fatalf("database flag must be CRITICAL: %q", dbFlag)
	}
	for _, name := range []string{"MySQL", "PostgreSQL", "Redis"} {
		if !strings.Contains(dbFlag, name) {
			t.Fatalf("database flag should name %s: %q", name, dbFlag)
		}
	}
}

func TestEvaluateTLSDeficiencies(t *testing.T) {
	e := newTestEvaluator()
	penalized := 100 - e.weights.TLSIssues

	cases := []struct {
		name string
		tls  *TLSInfo
		want float64
	}{
		{"missing entirely", nil, penalized},
		{"self-signed issuer", &TLSInfo{Issuer: "Self-signed", Expiry: "2026-01-15"}, penalized},
		{"empty issuer", &TLSInfo{Expiry: "2026-01-15"}, penalized},
		{"missing expiry", &TLSInfo{Issuer: "DigiCert"}, penalized},
		{"expired", &TLSInfo{Issuer: "DigiCert", Expiry: "2024-01-15"}, penalized},
		{"valid", goodTLS(), 100},
	}

	for _, tc := range cases {
		score, flags := e.Evaluate(&ScanInput{TLS: tc.tls})
		if score != tc.want {
			t.Fatalf("%s: expected score %v, got %v (flags %v)", tc.name, tc.want, score, flags)
		}
		if tc.want < 100 && len(flags) != 1 {
			t.Fatalf("%s: expected exactly one TLS flag, got %v", tc.name, flags)
		}
	}
}

func TestEvaluateVulnerabilitySeverityWeighting(t *testing.T) {
	e := newTestEvaluator()

	scoreFor := func(severity string) float64 {
		s, _ := e.Evaluate(&ScanInput{
			TLS:             goodTLS(),
			Vulnerabilities: map[string]string{"CVE-2023-0001": severity},
		})
		return s
	}

	critical := scoreFor("critical")
	high := scoreFor("high")
	medium := scoreFor("medium")
	low := scoreFor("low")
	unknown := scoreFor("???")

	if !(critical < high && high < medium && medium < low && low < unknown) {
		t.Fatalf("severity ladder violated: critical=%v high=%v medium=%v low=%v unknown=%v",
			critical, high, medium, low, unknown)
	}
	if unknown >= 100 {
		t.Fatalf("unknown severity must still be penalized, got %v", unknown)
	}
}

func TestEvaluateUnknownSeverityFlagged(t *testing.T) {
	e := newTestEvaluator()
	_, flags := e.Evaluate(&ScanInput{
		TLS:             goodTLS(),
		Vulnerabilities: map[string]string{"VULN-1": "???"},
	})
	if len(flags) != 1 || !strings.Contains(flags[0], "unknown severity") {
		t.Fatalf("expected an unknown-severity flag, got %v", flags)
	}
}

func TestEvaluatePortExposureUncapped(t *testing.T) {
	e := newTestEvaluator()

	ports := make([]int, 50)
	for i := range ports {
		ports[i] = 8000 + i
	}

	score, flags := e.Evaluate(&ScanInput{OpenPorts: ports, TLS: goodTLS()})
	want := 100 - float64(50-portBaseline)*e.weights.PortExposurePerPort
	if score != want {
		t.Fatalf("expected raw score %v, got %v", want, score)
	}
	if len(flags) != 1 || !strings.Contains(flags[0], "50 ports") {
		t.Fatalf("unexpected flags: %v", flags)
	}
}

func TestEvaluateMonotonicDegradation(t *testing.T) {
	e := newTestEvaluator()

	base := &ScanInput{OpenPorts: []int{443}, TLS: goodTLS()}
	baseScore, _ := e.Evaluate(base)

	withVuln, _ := e.Evaluate(&ScanInput{
		OpenPorts:       []int{443},
		TLS:             goodTLS(),
		Vulnerabilities: map[string]string{"CVE-1": "low"},
	})
	if withVuln > baseScore {
		t.Fatalf("adding a vulnerability increased the score: %v > %v", withVuln, baseScore)
	}

	withPort, _ := e.Evaluate(&ScanInput{OpenPorts: []int{443, 22}, TLS: goodTLS()})
	if withPort > baseScore {
		t.Fatalf("opening a port increased the score: %v > %v", withPort, baseScore)
	}

	withoutTLS, _ := e.Evaluate(&ScanInput{OpenPorts: []int{443}})
	if withoutTLS > baseScore {
		t.Fatalf("removing TLS increased the score: %v > %v", withoutTLS, baseScore)
	}
}

func TestEvaluateOrderIndependentScore(t *testing.T) {
	e := newTestEvaluator()

	a, _ := e.Evaluate(&ScanInput{OpenPorts: []int{22, 2375, 3306}})
	b, _ := e.Evaluate(&ScanInput{OpenPorts: []int{3306, 22, 2375}})
	if a != b {
		t.Fatalf("port order changed the score: %v vs %v", a, b)
	}
}
