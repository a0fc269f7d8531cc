// Package seed 向节目表写入演示数据
package seed

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

type ProgramCreator interface {
	CreateProgram(program *domain.Program) error
}

func isDuplicateCode(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == "programs_code_key"
}

func insert(r ProgramCreator, programs []*domain.Program) (inserted int, skipped int) {
	for _, program := range programs {
		if err := r.CreateProgram(program); err != nil {
			if isDuplicateCode(err) {
				slog.Warn("节目已存在，跳过", slog.String("code", program.Code))
				skipped++
				continue
			}
			slog.Error("无法插入节目", slog.String("code", program.Code), slog.String("error", err.Error()))
			continue
		}
		inserted++
	}
	return inserted, skipped
}

// SeedDefaultPrograms 插入参考节目表，重复执行时已有的节目会被跳过
func SeedDefaultPrograms(r ProgramCreator) (int, int) {
	programs := make([]*domain.Program, len(domain.DefaultPrograms))
	for i := range domain.DefaultPrograms {
		p := domain.DefaultPrograms[i]
		programs[i] = &p
	}
	return insert(r, programs)
}

func SeedRandomPrograms(r ProgramCreator, rng *rand.Rand, n int) (int, int) {
	programs := make([]*domain.Program, 0, n)
	for i := 0; i < n; i++ {
		programs = append(programs, utils.GenerateRandomProgram(rng))
	}
	return insert(r, programs)
}
