package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ddpnode/internal/sim"
)

type ExportData struct {
	RunInfo
	StepsTaken int                `json:"steps_taken"`
	TotalCost  float64            `json:"total_cost"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Controls   [][]float64        `json:"controls"`
	Costs      []float64          `json:"costs"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes the whole rollout as one indented JSON document.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	data := ExportData{
		RunInfo:    info,
		StepsTaken: result.StepsTaken,
		TotalCost:  result.TotalCost,
		Times:      result.Times,
		States:     result.States,
		Controls:   result.Controls,
		Costs:      result.Costs,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
