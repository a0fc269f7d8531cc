package domain

type SchedulingParameters struct {
	PopulationSize int     `json:"populationSize"`
	Generations    int     `json:"generations"`
	CrossoverRate  float64 `json:"crossoverRate"`
	MutationRate   float64 `json:"mutationRate"`
	Seed           int64   `json:"seed"`
}

type SchedulingResultSlot struct {
	Slot         int     `json:"slot"` // 从 1 开始
	ProgramCode  string  `json:"programCode"`
	ProgramTitle string  `json:"programTitle"`
	Rating       float64 `json:"rating"`
}

type SchedulingResult struct {
	Slots       []SchedulingResultSlot `json:"slots"`
	Fitness     float64                `json:"fitness"`
	Generations int                    `json:"generations"`
	Evaluations int                    `json:"evaluations"`
	History     []float64              `json:"history"`
	DurationMS  int64                  `json:"durationMS"`
	Parameters  SchedulingParameters   `json:"parameters"`
}
