package converter

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

// ReportToProto converts a catch-up report to a protobuf Struct
func ReportToProto(report *simulation.CatchUpReport) (*structpb.Struct, error) {
	if report == nil {
		return nil, fmt.Errorf("nil catch-up report")
	}
	runs := make(map[string]any, len(report.Runs))
	for st, n := range report.Runs {
		runs[string(st)] = float64(n)
	}
	spillover := make(map[string]any, len(report.Spillover))
	for st, v := range report.Spillover {
		spillover[string(st)] = v
	}

	st, err := structpb.NewStruct(map[string]any{
		"duration":       report.Duration,
		"max_generation": resourcesToFields(report.MaxGeneration),
		"generation":     resourcesToFields(report.Generation),
		"runs":           runs,
		"spillover":      spillover,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build report struct: %w", err)
	}
	return st, nil
}

// StructureStatusToProto converts the live state of a structure to a Struct
// for clients that only display it
func StructureStatusToProto(s *simulation.Structure) (*structpb.Struct, error) {
	lines := make([]any, 0, len(s.Production()))
	for _, p := range s.Production() {
		lines = append(lines, map[string]any{
			"input":   string(p.InputType()),
			"output":  string(p.OutputType()),
			"in":      p.InputCount(),
			"out":     p.OutputCount(),
			"running": p.Running(),
		})
	}
	st, err := structpb.NewStruct(map[string]any{
		"type":      string(s.Type()),
		"name":      s.Name(),
		"unlocked":  s.IsUnlocked(),
		"managed":   s.HasManager(),
		"running":   s.IsRunning(),
		"remaining": s.TimeRemaining(),
		"workers":   float64(len(s.Workers())),
		"lines":     lines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build status of %s: %w", s.Type(), err)
	}
	return st, nil
}

func resourcesToFields(m map[models.ResourceType]float64) map[string]any {
	out := make(map[string]any, len(m))
	for rt, v := range m {
		out[string(rt)] = v
	}
	return out
}
