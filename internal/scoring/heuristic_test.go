package scoring

import (
	"reflect"
	"testing"
)

func TestAnalyzeDeterministic(t *testing.T) {
	in := &ScanInput{
		IP:        "203.0.113.9",
		OpenPorts: []int{22, 80, 443, 3306},
		TLS:       &TLSInfo{Issuer: "Self-signed"},
	}

	first := Analyzer{}.Analyze(in, 60)
	second := Analyzer{}.Analyze(in, 60)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis is not deterministic: %+v vs %+v", first, second)
	}
}

func TestAnalyzeSuspiciousPortPattern(t *testing.T) {
	// Database next to remote management with no usable TLS.
	in := &ScanInput{OpenPorts: []int{22, 5432}}
	ml := Analyzer{}.Analyze(in, 80)
	if ml.ScoreAdjustment >= 0 {
		t.Fatalf("expected a negative adjustment, got %v", ml.ScoreAdjustment)
	}
	if len(ml.AnomalyFlags) == 0 {
		t.Fatal("expected anomaly flags")
	}

	// Same ports behind a trusted certificate: the pattern does not fire.
	trusted := &ScanInput{OpenPorts: []int{22, 5432}, TLS: goodTLS()}
	if ml := (Analyzer{}).Analyze(trusted, 80); ml.ScoreAdjustment != 0 {
		t.Fatalf("expected a neutral adjustment, got %v", ml.ScoreAdjustment)
	}
}

func TestAnalyzeSprawlingPortSet(t *testing.T) {
	ports := make([]int, 12)
	for i := range ports {
		ports[i] = 8000 + i
	}
	ml := Analyzer{}.Analyze(&ScanInput{OpenPorts: ports, TLS: goodTLS()}, 70)
	if ml.ScoreAdjustment >= 0 {
		t.Fatalf("expected a negative adjustment for a sprawling port set, got %v", ml.ScoreAdjustment)
	}
}

func TestAnalyzeGeographicClassification(t *testing.T) {
	private := []string{"", "192.168.1.10", "10.0.0.5", "172.16.3.2", "127.0.0.1", "not-an-ip"}
	for _, ip := range private {
		ml := Analyzer{}.Analyze(&ScanInput{IP: ip, OpenPorts: []int{443}, TLS: goodTLS()}, 90)
		for _, f := range ml.AnomalyFlags {
			if f == "ML: Public address exposure" {
				t.Fatalf("address %q must be neutral", ip)
			}
		}
	}

	ml := Analyzer{}.Analyze(&ScanInput{IP: "203.0.113.9", OpenPorts: []int{80}}, 90)
	found := false
	for _, f := range ml.AnomalyFlags {
		if f == "ML: Public address exposure" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a public-address flag, got %v", ml.AnomalyFlags)
	}
}

func TestAnalyzeBehavioralAnomaly(t *testing.T) {
	in := &ScanInput{OpenPorts: []int{22, 80, 2375, 3306}}
	ml := Analyzer{}.Analyze(in, 50)

	found := false
	for _, f := range ml.AnomalyFlags {
		if f == "ML: Behavioral anomaly detected" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a behavioral anomaly flag, got %v", ml.AnomalyFlags)
	}
	if ml.MLRiskLevel != RiskCritical {
		t.Fatalf("expected CRITICAL anomaly risk, got %s", ml.MLRiskLevel)
	}
}

func TestAnalyzeBestPractices(t *testing.T) {
	in := &ScanInput{OpenPorts: []int{443}, TLS: goodTLS()}
	ml := Analyzer{}.Analyze(in, 80)
	if ml.ScoreAdjustment <= 0 {
		t.Fatalf("expected a positive adjustment, got %v", ml.ScoreAdjustment)
	}
	if ml.MLRiskLevel != RiskMinimal {
		t.Fatalf("expected MINIMAL anomaly risk, got %s", ml.MLRiskLevel)
	}
}

func TestAnalyzeAdjustmentBounded(t *testing.T) {
	// A base score near the floor: the negative signals must not be able to
	// push the final score below zero.
	in := &ScanInput{IP: "203.0.113.9", OpenPorts: []int{22, 80, 2375, 3306}}
	ml := Analyzer{}.Analyze(in, 5)
	if final := 5 + ml.ScoreAdjustment; final < 0 || final > 100 {
		t.Fatalf("adjusted score out of bounds: %v", final)
	}

	// And near the ceiling for positive signals.
	top := &ScanInput{OpenPorts: []int{443}, TLS: goodTLS()}
	mlTop := Analyzer{}.Analyze(top, 100)
	if final := 100 + mlTop.ScoreAdjustment; final < 0 || final > 100 {
		t.Fatalf("adjusted score out of bounds: %v", final)
	}
}
