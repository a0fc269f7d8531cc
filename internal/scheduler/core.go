package scheduler

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
)

// InitializePopulation 随机生成 popSize 个排期，每个排期都是 items 的一个均匀随机排列
func InitializePopulation(rng *rand.Rand, items []string, popSize int) ([]Schedule, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: 节目列表为空", ErrInvalidInput)
	}
	if popSize <= 0 {
		return nil, fmt.Errorf("%w: 种群大小必须大于 0（当前为 %d）", ErrInvalidInput, popSize)
	}

	pop := make([]Schedule, popSize)
	for i := range pop {
		s := make(Schedule, len(items))
		copy(s, items)
		// rand.Shuffle 内部就是 Fisher-Yates 洗牌
		rng.Shuffle(len(s), func(a, b int) {
			s[a], s[b] = s[b], s[a]
		})
		pop[i] = s
	}

	return pop, nil
}

/**
 * 计算排期的适应度
 * fitness = sum(ratings[item])
 * 注意：目前的目标函数与节目所在的时段无关，任何排列的适应度都相同，
 * 如果需要按时段加权，应在此处引入时段权重
 */
func Fitness(schedule Schedule, ratings map[string]float64) (float64, error) {
	total := 0.0
	for _, item := range schedule {
		rating, exists := ratings[item]
		if !exists {
			return 0, &MissingRatingError{Item: item}
		}
		total += rating
	}
	return total, nil
}

// Selection 按适应度从高到低排序，保留前一半（至少保留一个）
// 适应度相同时保持原有顺序
func Selection(pop []Schedule, ratings map[string]float64) ([]Schedule, error) {
	if len(pop) == 0 {
		return nil, fmt.Errorf("%w: 种群为空", ErrInvalidInput)
	}

	type scored struct {
		schedule Schedule
		fitness  float64
	}

	ranked := make([]scored, len(pop))
	for i, s := range pop {
		f, err := Fitness(s, ratings)
		if err != nil {
			return nil, err
		}
		ranked[i] = scored{schedule: s, fitness: f}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.fitness, a.fitness)
	})

	// 种群大小为 1 时 len/2 == 0，这里保证选择池至少有一个个体
	n := max(len(pop)/2, 1)
	selected := make([]Schedule, n)
	for i := range selected {
		selected[i] = ranked[i].schedule
	}

	return selected, nil
}

// Crossover 保序单点交叉
// 在 [1, N-2] 中随机选择切点，取 parent1 的前缀，再按 parent2 的顺序补上前缀中没有的节目
// N < 3 时没有合法的切点，直接返回 parent1 的副本
func Crossover(rng *rand.Rand, parent1, parent2 Schedule) Schedule {
	n := len(parent1)
	if n < 3 {
		return parent1.Clone()
	}

	point := 1 + rng.Intn(n-2)

	child := make(Schedule, 0, n)
	child = append(child, parent1[:point]...)

	inPrefix := make(map[string]struct{}, point)
	for _, item := range parent1[:point] {
		inPrefix[item] = struct{}{}
	}
	for _, item := range parent2 {
		if _, exists := inPrefix[item]; exists {
			continue
		}
		child = append(child, item)
	}

	return child
}

// Mutate 交换变异
// 每个位置以 rate 的概率与一个随机位置交换（随机位置可能就是自己）
// 返回新的排期，不修改传入的排期
func Mutate(rng *rand.Rand, schedule Schedule, rate float64) Schedule {
	mutated := schedule.Clone()
	for i := range mutated {
		if rng.Float64() >= rate {
			continue
		}
		j := rng.Intn(len(mutated))
		mutated[i], mutated[j] = mutated[j], mutated[i]
	}
	return mutated
}

// fittest 返回种群中适应度最高的个体，相同时取靠前的
func fittest(pop []Schedule, ratings map[string]float64) (Schedule, float64, error) {
	var best Schedule
	bestFit := 0.0

	for i, s := range pop {
		f, err := Fitness(s, ratings)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 || f > bestFit {
			best = s
			bestFit = f
		}
	}

	return best, bestFit, nil
}
