package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/worker"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 任务队列与邮件队列都需要声明，worker 可能先于 api 和 mail 启动
	for _, name := range []string{cfg.Scheduler.JobQueue, worker.MailQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			logger.Error("无法声明队列", slog.String("queue", name), slog.String("error", err.Error()))
			return
		}
	}

	// 一次只取一个任务，排期是 CPU 密集型的
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 QoS", slog.String("error", err.Error()))
		return
	}

	msgs, err := ch.Consume(
		cfg.Scheduler.JobQueue, // 队列
		"",                     // 消费者标识，由 RabbitMQ 自动分配
		false,                  // 手动确认
		false,                  // 是否独占队列
		false,                  // 必须为 false，RabbitMQ 不支持这个参数
		false,                  // 等待 RabbitMQ 响应
		nil,                    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 暴露 /metrics
	 **********************************************/
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metricsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Scheduler.WorkerMetricsPort),
		Handler:      metrics.Handler(reg),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("正在启动 metrics 服务...", slog.String("port", cfg.Scheduler.WorkerMetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动 metrics 服务", slog.String("error", err.Error()))
		}
	}()

	w := worker.New(cfg, ch, metrics.New(reg))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Consume(ctx, msgs)
	}()

	logger.Info("等待排期任务...（按 CTRL+C 退出）", slog.String("queue", cfg.Scheduler.JobQueue))
	<-sigChan

	slog.Info("正在关闭 scheduling worker...")
	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("关闭 metrics 服务失败", slog.String("error", err.Error()))
	}
	slog.Info("scheduling worker 已成功关闭")
}
