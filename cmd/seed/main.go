package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var seedValue int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入参考节目表, 2: 插入随机节目)")
	flag.IntVar(&n, "n", 5, "要插入的随机节目数量")
	flag.Int64Var(&seedValue, "seed", time.Now().UnixNano(), "生成随机节目使用的随机种子")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		inserted, skipped := seed.SeedDefaultPrograms(repo)
		slog.Info("插入参考节目表完成", slog.Int("inserted", inserted), slog.Int("skipped", skipped))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的节目数量")
			return
		}
		inserted, skipped := seed.SeedRandomPrograms(repo, rand.New(rand.NewSource(seedValue)), n)
		slog.Info("插入随机节目完成", slog.Int("inserted", inserted), slog.Int("skipped", skipped), slog.Int64("seed", seedValue))
	default:
		slog.Error("指定的操作非法")
	}
}
