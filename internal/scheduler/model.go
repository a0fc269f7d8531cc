package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// Schedule: 一个排期方案，第 i 个元素表示第 i 个时段播出的节目代码
type Schedule []string

// Clone 返回排期的副本，避免多个后代共享同一块底层数组
func (s Schedule) Clone() Schedule {
	c := make(Schedule, len(s))
	copy(c, s)
	return c
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int     // 种群大小
	Generations    int     // 迭代次数
	CrossoverRate  float64 // 交叉概率
	MutationRate   float64 // 变异概率（每个位置独立计算）
}

func (p *Parameters) Validate() error {
	if p.PopulationSize <= 0 {
		return fmt.Errorf("%w: 种群大小必须大于 0（当前为 %d）", ErrInvalidInput, p.PopulationSize)
	}
	if p.Generations <= 0 {
		return fmt.Errorf("%w: 迭代次数必须大于 0（当前为 %d）", ErrInvalidInput, p.Generations)
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		return fmt.Errorf("%w: 交叉概率必须在 [0, 1] 内（当前为 %v）", ErrInvalidInput, p.CrossoverRate)
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("%w: 变异概率必须在 [0, 1] 内（当前为 %v）", ErrInvalidInput, p.MutationRate)
	}
	return nil
}

// Result: 一次运行的结果
type Result struct {
	Schedule    Schedule
	Fitness     float64
	Generations int
	Evaluations int
	// History[g] 为第 g 代结束后的历史最优适应度，单调不减
	History  []float64
	Duration time.Duration
}

var (
	ErrInvalidInput  = errors.New("无效的输入")
	ErrMissingRating = errors.New("节目缺少评分")
)

type MissingRatingError struct {
	Item string
}

func (e *MissingRatingError) Error() string {
	return fmt.Sprintf("节目 %q 缺少评分", e.Item)
}

func (e *MissingRatingError) Unwrap() error {
	return ErrMissingRating
}
