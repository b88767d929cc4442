package domain

import "time"

// Metrics receives operational observations from the core services.
type Metrics interface {
	ObserveResolve(source ToolType, err error)
	ObserveSearch(results int)
	ObservePayloadLoad(duration time.Duration, err error)
	ObserveGeneration(duration time.Duration, err error)
	ObserveUsageEvent(kind string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveResolve(ToolType, error)          {}
func (nopMetrics) ObserveSearch(int)                       {}
func (nopMetrics) ObservePayloadLoad(time.Duration, error) {}
func (nopMetrics) ObserveGeneration(time.Duration, error)  {}
func (nopMetrics) ObserveUsageEvent(string)                {}

// NopMetrics discards all observations.
func NopMetrics() Metrics { return nopMetrics{} }
