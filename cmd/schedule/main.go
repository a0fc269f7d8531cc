package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/presenter"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/runner"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logger.Error("排期失败", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run 解析命令行参数，对节目表排期并把结果表格写到 out
func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := config.DefaultSchedulerConfig()
	params := domain.SchedulingParameters{}

	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&params.PopulationSize, "population", cfg.PopulationSize, "种群大小")
	fs.IntVar(&params.Generations, "generations", cfg.Generations, "迭代代数")
	fs.Float64Var(&params.CrossoverRate, "crossover", cfg.CrossoverRate, "交叉率")
	fs.Float64Var(&params.MutationRate, "mutation", cfg.MutationRate, "变异率")
	fs.Int64Var(&params.Seed, "seed", runner.NewSeed(), "随机种子，相同的种子得到相同的结果")
	catalogPath := fs.String("catalog", "", "节目表 JSON 文件，缺省时使用参考节目表")
	timeout := fs.Duration("timeout", time.Duration(cfg.RunTimeout)*time.Second, "单次排期的超时时间")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := utils.ValidateSchedulingParameters(&params, &cfg); err != nil {
		return err
	}

	programs := domain.DefaultPrograms
	if *catalogPath != "" {
		data, err := os.ReadFile(*catalogPath)
		if err != nil {
			return err
		}
		programs = nil
		if err := json.Unmarshal(data, &programs); err != nil {
			return fmt.Errorf("无法解析节目表: %w", err)
		}
		for i := range programs {
			if err := utils.ValidateProgram(&programs[i]); err != nil {
				return err
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := runner.Run(ctx, programs, params)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, presenter.FormatTable(result)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Seed: %d\n", params.Seed)
	return err
}
