package funnel

// Benchmark is a configured threshold for one rate. Benchmarks are injected
// by the caller (loaded from config), never hardcoded here.
type Benchmark struct {
	Metric        string  `json:"metric"`
	Threshold     float64 `json:"threshold"`
	LowerIsBetter bool    `json:"lowerIsBetter"`
}

// Health is the tri-state classification of a rate against its benchmark.
type Health string

const (
	HealthGreen   Health = "green"
	HealthRed     Health = "red"
	HealthNeutral Health = "neutral"
)

// Classify compares a rate value against a benchmark. A value of exactly 0
// is always neutral regardless of threshold: zero is read as "no data yet",
// not as a bad metric. Total function, never fails.
func Classify(value float64, b Benchmark) Health {
	if value == 0 {
		return HealthNeutral
	}
	if b.LowerIsBetter {
		if value <= b.Threshold {
			return HealthGreen
		}
		return HealthRed
	}
	if value >= b.Threshold {
		return HealthGreen
	}
	return HealthRed
}
