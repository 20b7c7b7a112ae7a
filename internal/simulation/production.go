package simulation

import "github.com/napolitain/idle-economy/internal/models"

// ProductionLine is one input -> output recipe within a structure.
// InputCount and OutputCount are cached totals over the structure's workers;
// they are kept current on roster or skill changes, not recomputed per tick.
type ProductionLine struct {
	config      *models.ProductionConfig
	inputCount  float64
	outputCount float64
	running     bool // input was reserved for the in-flight run
}

// NewProductionLine creates an empty line for a recipe
func NewProductionLine(config *models.ProductionConfig) *ProductionLine {
	return &ProductionLine{config: config}
}

// InputType returns the consumed resource
func (p *ProductionLine) InputType() models.ResourceType { return p.config.Input }

// OutputType returns the produced resource
func (p *ProductionLine) OutputType() models.ResourceType { return p.config.Output }

// InputCount returns the input consumed by one run
func (p *ProductionLine) InputCount() float64 { return p.inputCount }

// OutputCount returns the output produced by one run
func (p *ProductionLine) OutputCount() float64 { return p.outputCount }

// Running returns true if input is reserved for the in-flight run
func (p *ProductionLine) Running() bool { return p.running }

// workerOutput is the base output plus every matching skill bonus
func (p *ProductionLine) workerOutput(w *Worker) float64 {
	out := p.config.BaseOutputPerWorker
	for _, b := range p.config.WorkerBonus {
		if w.HasSkill(b.Skill) {
			out += b.FlatIncrease
		}
	}
	return out
}

// Calculate recomputes the cached totals from scratch
func (p *ProductionLine) Calculate(workers []*Worker) {
	p.inputCount = 0
	p.outputCount = 0
	for _, w := range workers {
		p.inputCount += p.config.InputPerWorker
		p.outputCount += p.workerOutput(w)
	}
}

// AddWorker adds one worker's contribution to the cached totals
func (p *ProductionLine) AddWorker(w *Worker) {
	p.inputCount += p.config.InputPerWorker
	p.outputCount += p.workerOutput(w)
}

// RemoveWorker removes one worker's contribution from the cached totals
func (p *ProductionLine) RemoveWorker(w *Worker) {
	p.inputCount -= p.config.InputPerWorker
	p.outputCount -= p.workerOutput(w)
}
