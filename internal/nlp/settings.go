package nlp

import (
	"math"
	"sync/atomic"
)

const (
	DefaultConfidenceThreshold = 0.3
	MinConfidenceThreshold     = 0.1
	MaxConfidenceThreshold     = 0.9
)

// Processing modes reported with every response.
const (
	ModeSimple   = "simple"
	ModeAdvanced = "advanced"
)

// Settings is the runtime-tunable classifier configuration. It is safe for
// concurrent use.
type Settings struct {
	threshold atomic.Uint64
	advanced  atomic.Bool
}

type SettingsSnapshot struct {
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	AdvancedProcessing  bool    `json:"advanced_processing_enabled"`
}

func NewSettings(threshold float64, advanced bool) *Settings {
	s := &Settings{}
	s.threshold.Store(math.Float64bits(DefaultConfidenceThreshold))
	s.SetConfidenceThreshold(threshold)
	s.advanced.Store(advanced)
	return s
}

func DefaultSettings() *Settings {
	return NewSettings(DefaultConfidenceThreshold, true)
}

func (s *Settings) ConfidenceThreshold() float64 {
	return math.Float64frombits(s.threshold.Load())
}

// SetConfidenceThreshold clamps v into [0.1, 0.9] and returns the stored
// value. NaN leaves the threshold unchanged.
func (s *Settings) SetConfidenceThreshold(v float64) float64 {
	if math.IsNaN(v) {
		return s.ConfidenceThreshold()
	}
	v = math.Max(MinConfidenceThreshold, math.Min(MaxConfidenceThreshold, v))
	s.threshold.Store(math.Float64bits(v))
	return v
}

func (s *Settings) AdvancedProcessing() bool {
	return s.advanced.Load()
}

func (s *Settings) SetAdvancedProcessing(on bool) {
	s.advanced.Store(on)
}

func (s *Settings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		ConfidenceThreshold: s.ConfidenceThreshold(),
		AdvancedProcessing:  s.AdvancedProcessing(),
	}
}

// Mode picks the processing mode for a classification confidence.
func (s *Settings) Mode(confidence float64) string {
	if confidence >= s.ConfidenceThreshold() {
		return ModeSimple
	}
	return ModeAdvanced
}
