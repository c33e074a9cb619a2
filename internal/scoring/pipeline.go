// Package scoring converts a single infrastructure scan result into a trust
// score in [0,100], a set of human-readable security flags, a letter grade
// and a categorical risk level, optionally enriched by a secondary heuristic
// analysis stage. The engine is a pure, synchronous function of its input:
// it performs no I/O and keeps no state across calls.
package scoring

import "time"

// Mode selects which stages the pipeline runs.
type Mode int

const (
	// ModeBase runs the weighted rule evaluation only.
	ModeBase Mode = iota
	// ModeEnhanced additionally runs the heuristic analyzer and applies its
	// score adjustment.
	ModeEnhanced
)

// SecurityMetrics groups the classifier output carried on a result.
type SecurityMetrics struct {
	SecurityGrade Grade `json:"securityGrade"`
}

// Result is the immutable outcome of one scoring call.
type Result struct {
	IP              string          `json:"ip,omitempty"`
	Score           float64         `json:"score"`
	Flags           []string        `json:"flags"`
	SecurityMetrics SecurityMetrics `json:"securityMetrics"`
	RiskLevel       RiskLevel       `json:"riskLevel"`
	MLAnalysis      *MLAnalysis     `json:"mlAnalysis,omitempty"`
}

// Pipeline orchestrates rule evaluation, clamping, classification and the
// optional heuristic stage. Configuration is fixed at construction, so a
// Pipeline is safe for concurrent use; every call allocates its own working
// state.
type Pipeline struct {
	evaluator RuleEvaluator
	analyzer  Analyzer
}

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithWeights replaces the default penalty magnitudes.
func WithWeights(w Weights) Option {
	return func(p *Pipeline) { p.evaluator.weights = w }
}

// WithSSHAltPorts replaces the alternate SSH ports the SSH rule recognizes
// alongside 22.
func WithSSHAltPorts(ports ...int) Option {
	return func(p *Pipeline) { p.evaluator.sshAltPorts = ports }
}

// WithReferenceTime fixes the clock used for certificate-expiry checks.
// Defaults to the construction time, so one pipeline instance classifies
// identically for its whole lifetime.
func WithReferenceTime(t time.Time) Option {
	return func(p *Pipeline) { p.evaluator.now = t }
}

// NewPipeline builds a scoring pipeline with default configuration, then
// applies opts in order.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		evaluator: RuleEvaluator{
			weights:     DefaultWeights(),
			sshAltPorts: defaultSSHAltPorts,
			now:         time.Now().UTC(),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Score runs one scan input through the pipeline: evaluate, clamp into
// [0,100], classify, and in enhanced mode analyze, apply the adjustment and
// re-clamp. The grade and risk level on the result always reflect the final
// score.
func (p *Pipeline) Score(in *ScanInput, mode Mode) (*Result, error) {
	if in == nil {
		return nil, &ValidationError{Field: "(root)", Reason: "scan input is nil"}
	}

	raw, flags := p.evaluator.Evaluate(in)
	score := clampScore(raw)

	res := &Result{
		IP:    in.IP,
		Score: score,
		Flags: flags,
	}
	if res.Flags == nil {
		res.Flags = []string{}
	}

	if mode == ModeEnhanced {
		ml := p.analyzer.Analyze(in, score)
		score = clampScore(score + ml.ScoreAdjustment)
		res.Score = score
		res.MLAnalysis = &ml
	}

	grade, level := Classify(score)
	res.SecurityMetrics = SecurityMetrics{SecurityGrade: grade}
	res.RiskLevel = level
	return res, nil
}

// ScoreJSON decodes raw scan-result JSON and scores it.
func (p *Pipeline) ScoreJSON(data []byte, mode Mode) (*Result, error) {
	in, err := DecodeScanInput(data)
	if err != nil {
		return nil, err
	}
	return p.Score(in, mode)
}

// clampScore bounds a score to [0,100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
