// Package worker 消费异步排期任务，完成排期后把结果交给邮件队列
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/presenter"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/runner"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

const MailQueue = "email_queue"

// ErrPermanent 表示任务本身有问题，重新入队也无法成功
var ErrPermanent = errors.New("无法处理的排期任务")

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Worker struct {
	cfg       *config.Config
	publisher Publisher
	metrics   *metrics.Metrics
}

func New(cfg *config.Config, publisher Publisher, m *metrics.Metrics) *Worker {
	return &Worker{
		cfg:       cfg,
		publisher: publisher,
		metrics:   m,
	}
}

// Process 执行任务并返回需要发送的邮件
func (w *Worker) Process(ctx context.Context, body []byte) (*domain.MailMessage, error) {
	job := domain.SchedulingJob{}
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("%w: 反序列化失败: %v", ErrPermanent, err)
	}
	if job.Email == "" {
		return nil, fmt.Errorf("%w: 任务 %s 缺少收件人", ErrPermanent, job.ID)
	}
	if err := utils.ValidateSchedulingParameters(&job.Parameters, &w.cfg.Scheduler); err != nil {
		w.metrics.ObserveFailure(metrics.SourceWorker, metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %v", ErrPermanent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.Scheduler.RunTimeout)*time.Second)
	defer cancel()

	start := time.Now()
	result, err := runner.Run(ctx, job.Programs, job.Parameters)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// worker 正在退出，任务本身没有问题，交给下一个消费者
			w.metrics.ObserveFailure(metrics.SourceWorker, metrics.OutcomeCancelled)
			return nil, err
		case errors.Is(err, scheduler.ErrInvalidInput), errors.Is(err, scheduler.ErrMissingRating):
			w.metrics.ObserveFailure(metrics.SourceWorker, metrics.OutcomeInvalid)
		case errors.Is(err, context.DeadlineExceeded):
			w.metrics.ObserveFailure(metrics.SourceWorker, metrics.OutcomeTimeout)
		default:
			w.metrics.ObserveFailure(metrics.SourceWorker, metrics.OutcomeFailed)
		}
		// 同样的种子和参数会得到同样的结果，重试没有意义
		return nil, fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	w.metrics.ObserveSuccess(metrics.SourceWorker, time.Since(start).Seconds(), result.Fitness)

	return &domain.MailMessage{
		Type: domain.MailTypeSchedulingResult,
		To:   job.Email,
		Data: domain.SchedulingResultMailData{
			JobID:  job.ID,
			Table:  presenter.FormatTable(result),
			Result: *result,
		},
	}, nil
}

// Handle 处理一条消息，并负责 Ack/Nack
func (w *Worker) Handle(ctx context.Context, msg amqp.Delivery) {
	mailMessage, err := w.Process(ctx, msg.Body)
	if err != nil {
		slog.Error("排期任务失败", slog.String("messageID", msg.MessageId), slog.String("error", err.Error()))
		_ = msg.Nack(false, !errors.Is(err, ErrPermanent))
		return
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("邮件信息序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := w.publisher.PublishWithContext(
		publishCtx,
		"",
		MailQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("无法发送邮件消息", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	slog.Info("排期任务完成", slog.String("messageID", msg.MessageId), slog.String("to", mailMessage.To))
	_ = msg.Ack(false)
}

// Consume 持续处理消息，直到 ctx 被取消或通道关闭
func (w *Worker) Consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			w.Handle(ctx, msg)
		}
	}
}
