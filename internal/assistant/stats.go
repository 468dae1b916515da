package assistant

import (
	"math"
	"sync"

	"bookhub/internal/nlp"
)

const (
	msgStatsReset = "Estatísticas resetadas com sucesso"
	msgConfigured = "Configuração atualizada com sucesso"
)

// Stats counts processed messages.
type Stats struct {
	mu       sync.Mutex
	total    int
	simple   int
	advanced int
	unknown  int
}

func (s *Stats) record(mode string, unknown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if mode == nlp.ModeSimple {
		s.simple++
	} else {
		s.advanced++
	}
	if unknown {
		s.unknown++
	}
}

func (s *Stats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total, s.simple, s.advanced, s.unknown = 0, 0, 0, 0
}

// StatsReport is the /ai/stats payload. Percentages use max(total, 1) as
// the denominator and are rounded to two decimals.
type StatsReport struct {
	TotalRequests      int                  `json:"total_requests"`
	SimpleProcessing   int                  `json:"simple_processing"`
	AdvancedProcessing int                  `json:"advanced_processing"`
	UnknownIntents     int                  `json:"unknown_intents"`
	SimplePercentage   float64              `json:"simple_processing_percentage"`
	AdvancedPercentage float64              `json:"advanced_processing_percentage"`
	UnknownPercentage  float64              `json:"unknown_intents_percentage"`
	SuccessRate        float64              `json:"success_rate"`
	Settings           nlp.SettingsSnapshot `json:"nlp_settings"`
}

func (s *Stats) report(settings nlp.SettingsSnapshot) StatsReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	denom := float64(max(s.total, 1))
	pct := func(n int) float64 { return round2(float64(n) / denom * 100) }
	return StatsReport{
		TotalRequests:      s.total,
		SimpleProcessing:   s.simple,
		AdvancedProcessing: s.advanced,
		UnknownIntents:     s.unknown,
		SimplePercentage:   pct(s.simple),
		AdvancedPercentage: pct(s.advanced),
		UnknownPercentage:  pct(s.unknown),
		SuccessRate:        round2((denom - float64(s.unknown)) / denom * 100),
		Settings:           settings,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (a *Assistant) Stats() StatsReport {
	return a.stats.report(a.pipeline.Settings().Snapshot())
}

func (a *Assistant) ResetStats() string {
	a.stats.reset()
	return msgStatsReset
}

// Configure updates the classifier settings; nil leaves a value unchanged.
// The threshold is clamped to [0.1, 0.9].
func (a *Assistant) Configure(threshold *float64, advanced *bool) nlp.SettingsSnapshot {
	s := a.pipeline.Settings()
	if threshold != nil {
		s.SetConfidenceThreshold(*threshold)
	}
	if advanced != nil {
		s.SetAdvancedProcessing(*advanced)
	}
	return s.Snapshot()
}

// ProcessingReport shows how a message would be handled without answering it.
type ProcessingReport struct {
	Message        string            `json:"message"`
	Hybrid         nlp.Intent        `json:"hybrid_result"`
	Advanced       nlp.ComplexResult `json:"advanced_processing"`
	ProcessingUsed string            `json:"processing_used"`
}

// TestProcessing classifies message and runs the full analysis. It does
// not touch the statistics.
func (a *Assistant) TestProcessing(message string) ProcessingReport {
	intent := a.pipeline.Process(message)
	return ProcessingReport{
		Message:        message,
		Hybrid:         intent,
		Advanced:       a.pipeline.ProcessComplex(message),
		ProcessingUsed: a.pipeline.Settings().Mode(intent.Confidence),
	}
}
