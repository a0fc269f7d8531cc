package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func ValidateProgram(p *domain.Program) error {
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("节目代码不能为空")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("节目名称不能为空")
	}
	if p.Rating < 0 {
		return fmt.Errorf("节目 %s 的评分不能为负数", p.Code)
	}
	return nil
}

// ValidateSchedulingParameters 检查参数是否落在配置的取值范围内
// validator 只检查参数的基本合法性，具体范围由这里按配置检查，HTTP 接口、命令行工具和 worker 共用
func ValidateSchedulingParameters(params *domain.SchedulingParameters, cfg *config.SchedulerConfig) error {
	if params.PopulationSize < cfg.MinPopulationSize || params.PopulationSize > cfg.MaxPopulationSize {
		return fmt.Errorf("种群大小必须在 %d 到 %d 之间", cfg.MinPopulationSize, cfg.MaxPopulationSize)
	}
	if params.Generations < cfg.MinGenerations || params.Generations > cfg.MaxGenerations {
		return fmt.Errorf("迭代次数必须在 %d 到 %d 之间", cfg.MinGenerations, cfg.MaxGenerations)
	}
	if params.CrossoverRate < cfg.MinCrossoverRate || params.CrossoverRate > cfg.MaxCrossoverRate {
		return fmt.Errorf("交叉概率必须在 %v 到 %v 之间", cfg.MinCrossoverRate, cfg.MaxCrossoverRate)
	}
	if params.MutationRate < cfg.MinMutationRate || params.MutationRate > cfg.MaxMutationRate {
		return fmt.Errorf("变异概率必须在 %v 到 %v 之间", cfg.MinMutationRate, cfg.MaxMutationRate)
	}
	return nil
}

// ValidateSchedulingResultWithPrograms 检查排期结果是否恰好包含节目表中的每个节目一次
func ValidateSchedulingResultWithPrograms(result *domain.SchedulingResult, programs []domain.Program) error {
	if len(result.Slots) != len(programs) {
		return fmt.Errorf("排期结果中的时段数量 %d 和节目数量 %d 不匹配", len(result.Slots), len(programs))
	}

	known := make(map[string]bool, len(programs))
	for _, p := range programs {
		known[p.Code] = true
	}

	seen := make(map[string]bool, len(result.Slots))
	for i, slot := range result.Slots {
		if slot.Slot != i+1 {
			return fmt.Errorf("第 %d 个时段的编号错误", i+1)
		}
		if !known[slot.ProgramCode] {
			return fmt.Errorf("时段 %d 中的节目 %s 不存在于节目表中", slot.Slot, slot.ProgramCode)
		}
		if seen[slot.ProgramCode] {
			return fmt.Errorf("节目 %s 被重复排期", slot.ProgramCode)
		}
		seen[slot.ProgramCode] = true
	}

	return nil
}
