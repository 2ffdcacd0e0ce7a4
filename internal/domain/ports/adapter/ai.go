package adapter

import "context"

// InsightModel is the port for the hosted completion API behind AI insights.
type InsightModel interface {
	Name() string
	// Complete answers a single prompt with the given system instruction.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
