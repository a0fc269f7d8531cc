package scheduler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"time"
)

type Scheduler struct {
	parameters *Parameters
	items      []string
	ratings    map[string]float64
	rng        *rand.Rand
}

func New(parameters *Parameters, items []string, ratings map[string]float64, rng *rand.Rand) (*Scheduler, error) {
	if parameters == nil {
		return nil, fmt.Errorf("%w: 参数为空", ErrInvalidInput)
	}
	if rng == nil {
		return nil, errors.New("随机数生成器未初始化")
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}
	if err := validateCatalog(items, ratings); err != nil {
		return nil, err
	}

	params := *parameters
	s := &Scheduler{
		parameters: &params,
		items:      make([]string, len(items)),
		ratings:    maps.Clone(ratings),
		rng:        rng,
	}
	copy(s.items, items)

	return s, nil
}

// Run 使用给定的随机数生成器完成一次完整的排期
func Run(rng *rand.Rand, items []string, ratings map[string]float64, parameters Parameters) (*Result, error) {
	s, err := New(&parameters, items, ratings, rng)
	if err != nil {
		return nil, err
	}
	return s.Schedule(context.Background())
}

func (s *Scheduler) Schedule(ctx context.Context) (*Result, error) {
	start := time.Now()

	// 生成初始种群
	pop, err := InitializePopulation(s.rng, s.items, s.parameters.PopulationSize)
	if err != nil {
		return nil, err
	}

	// 历史最优，第一代的最优个体一定会被记录
	var bestScheduleEver Schedule
	bestFitnessEver := 0.0
	hasBest := false

	history := make([]float64, 0, s.parameters.Generations)
	evaluations := 0

	for gen := 0; gen < s.parameters.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 选择
		selected, err := Selection(pop, s.ratings)
		if err != nil {
			return nil, err
		}
		evaluations += len(pop)

		// 繁殖
		newPop := make([]Schedule, 0, len(pop))
		for len(newPop) < len(pop) {
			// 有放回地选择两个父本
			p1 := selected[s.rng.Intn(len(selected))]
			p2 := selected[s.rng.Intn(len(selected))]

			var child Schedule
			if s.rng.Float64() < s.parameters.CrossoverRate {
				child = Crossover(s.rng, p1, p2)
			} else {
				child = p1.Clone()
			}

			newPop = append(newPop, Mutate(s.rng, child, s.parameters.MutationRate))
		}

		pop = newPop

		// 找到本代最佳样本
		genBest, genBestFit, err := fittest(pop, s.ratings)
		if err != nil {
			return nil, err
		}
		evaluations += len(pop)

		if !hasBest || genBestFit > bestFitnessEver {
			bestFitnessEver = genBestFit
			// 复制一份，防止后续繁殖修改
			bestScheduleEver = genBest.Clone()
			hasBest = true
		}

		history = append(history, bestFitnessEver)
	}

	return &Result{
		Schedule:    bestScheduleEver,
		Fitness:     bestFitnessEver,
		Generations: s.parameters.Generations,
		Evaluations: evaluations,
		History:     history,
		Duration:    time.Since(start),
	}, nil
}
