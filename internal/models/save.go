package models

// WorkerData is the persisted form of a worker. Keys are kept short to keep
// save blobs small.
type WorkerData struct {
	Level      int         `json:"l"`
	Experience float64     `json:"e"`
	Skills     WorkerSkill `json:"s"`
}

// StructureData is the persisted form of a structure
type StructureData struct {
	Workers  []WorkerData `json:"w"`
	Running  []bool       `json:"r"` // parallel to the production lines
	Timer    float64      `json:"t"` // seconds remaining, meaningful only if a line is running
	Unlocked bool         `json:"u"`
	Managed  bool         `json:"m"`
}

// SaveData is the persisted form of the whole economy
type SaveData struct {
	Pool       map[ResourceType]float64        `json:"p"`
	Structures map[StructureType]StructureData `json:"s"`
	LastSaved  int64                           `json:"l"` // milliseconds since epoch
}

// NewWorkerData returns the record of a freshly hired worker
func NewWorkerData() WorkerData {
	return WorkerData{}
}

// DefaultSave returns the starting economy: an empty pool, every structure
// staffed by one new worker, and only free structures unlocked.
func DefaultSave(c *Catalog) *SaveData {
	save := &SaveData{
		Pool:       make(map[ResourceType]float64),
		Structures: make(map[StructureType]StructureData),
		LastSaved:  0,
	}
	for _, rt := range AllResourceTypes() {
		save.Pool[rt] = 0
	}
	for _, s := range c.Structures {
		save.Structures[s.Type] = StructureData{
			Workers:  []WorkerData{NewWorkerData()},
			Running:  make([]bool, len(s.Production)),
			Timer:    0,
			Unlocked: s.UnlockCost == 0,
			Managed:  false,
		}
	}
	return save
}
