// Package runner 把节目表和表单参数交给遗传算法引擎，并组装成可展示的排期结果
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/presenter"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

// NewSeed 在调用方没有指定种子时生成一个，结果中会带上它以便复现
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// Run 完成一次排期，params.Seed 决定随机数序列
func Run(ctx context.Context, programs []domain.Program, params domain.SchedulingParameters) (*domain.SchedulingResult, error) {
	items, ratings := presenter.Catalog(programs)

	s, err := scheduler.New(&scheduler.Parameters{
		PopulationSize: params.PopulationSize,
		Generations:    params.Generations,
		CrossoverRate:  params.CrossoverRate,
		MutationRate:   params.MutationRate,
	}, items, ratings, rand.New(rand.NewSource(params.Seed)))
	if err != nil {
		return nil, err
	}

	res, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	result := presenter.BuildResult(res, programs, params)

	// 检查一下结果是否满足约束条件
	if err := utils.ValidateSchedulingResultWithPrograms(result, programs); err != nil {
		return nil, fmt.Errorf("排期结果不合法: %w", err)
	}

	return result, nil
}

// Dereference 把仓库返回的指针切片转换成值切片
func Dereference(programs []*domain.Program) []domain.Program {
	out := make([]domain.Program, len(programs))
	for i, p := range programs {
		out[i] = *p
	}
	return out
}
