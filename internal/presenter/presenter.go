// Package presenter 把引擎的输出转换成按时段编号的排期表
package presenter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ryanuber/columnize"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
)

// Catalog 把节目表拆成引擎需要的节目列表和评分表
func Catalog(programs []domain.Program) ([]string, map[string]float64) {
	items := make([]string, len(programs))
	ratings := make(map[string]float64, len(programs))
	for i, p := range programs {
		items[i] = p.Code
		ratings[p.Code] = p.Rating
	}
	return items, ratings
}

// BuildResult 组装时段 i -> 节目 的结果
func BuildResult(res *scheduler.Result, programs []domain.Program, params domain.SchedulingParameters) *domain.SchedulingResult {
	byCode := make(map[string]domain.Program, len(programs))
	for _, p := range programs {
		byCode[p.Code] = p
	}

	slots := make([]domain.SchedulingResultSlot, len(res.Schedule))
	for i, code := range res.Schedule {
		p := byCode[code]
		slots[i] = domain.SchedulingResultSlot{
			Slot:         i + 1,
			ProgramCode:  code,
			ProgramTitle: p.Title,
			Rating:       p.Rating,
		}
	}

	history := make([]float64, len(res.History))
	copy(history, res.History)

	return &domain.SchedulingResult{
		Slots:       slots,
		Fitness:     res.Fitness,
		Generations: res.Generations,
		Evaluations: res.Evaluations,
		History:     history,
		DurationMS:  res.Duration.Milliseconds(),
		Parameters:  params,
	}
}

// FormatTable 渲染成对齐的文本表格
func FormatTable(result *domain.SchedulingResult) string {
	rows := make([]string, 0, len(result.Slots)+1)
	rows = append(rows, "Time Slot|Program|Title|Rating")
	for _, slot := range result.Slots {
		rows = append(rows, fmt.Sprintf("Slot %d|%s|%s|%s",
			slot.Slot, slot.ProgramCode, slot.ProgramTitle, formatRating(slot.Rating)))
	}

	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	var b strings.Builder
	b.WriteString(columnize.Format(rows, columnConf))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Total Rating (Fitness): %s\n", formatRating(result.Fitness)))
	b.WriteString(fmt.Sprintf("Generations: %d, Evaluations: %d, Duration: %s\n",
		result.Generations, result.Evaluations, time.Duration(result.DurationMS)*time.Millisecond))
	return b.String()
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
