package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/runner"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

var errEmptyCatalog = errors.New("节目表为空，请先添加节目")

type ProgramInput struct {
	Code   string  `json:"code" validate:"required"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating" validate:"gte=0"`
}

type parameterBounds[T int | float64] struct {
	Default T `json:"default"`
	Min     T `json:"min"`
	Max     T `json:"max"`
}

// SchedulingRequest 中未填写的参数使用配置中的默认值
type SchedulingRequest struct {
	PopulationSize *int           `json:"populationSize" validate:"omitempty,min=1"`
	Generations    *int           `json:"generations" validate:"omitempty,min=1"`
	CrossoverRate  *float64       `json:"crossoverRate" validate:"omitempty,gte=0,lte=1"`
	MutationRate   *float64       `json:"mutationRate" validate:"omitempty,gte=0,lte=1"`
	Seed           *int64         `json:"seed"`
	Programs       []ProgramInput `json:"programs" validate:"omitempty,dive"`
}

func (h *Handler) resolveParameters(req *SchedulingRequest) (domain.SchedulingParameters, error) {
	cfg := h.config.Scheduler
	params := domain.SchedulingParameters{
		PopulationSize: cfg.PopulationSize,
		Generations:    cfg.Generations,
		CrossoverRate:  cfg.CrossoverRate,
		MutationRate:   cfg.MutationRate,
	}

	if req.PopulationSize != nil {
		params.PopulationSize = *req.PopulationSize
	}
	if req.Generations != nil {
		params.Generations = *req.Generations
	}
	if req.CrossoverRate != nil {
		params.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		params.MutationRate = *req.MutationRate
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	} else {
		params.Seed = runner.NewSeed()
	}

	if err := utils.ValidateSchedulingParameters(&params, &cfg); err != nil {
		return params, err
	}

	return params, nil
}

// loadPrograms 优先使用请求中给出的节目表，否则使用数据库中的节目表
func (h *Handler) loadPrograms(inline []ProgramInput) ([]domain.Program, error) {
	if len(inline) > 0 {
		programs := make([]domain.Program, len(inline))
		for i, p := range inline {
			title := p.Title
			if title == "" {
				title = p.Code
			}
			programs[i] = domain.Program{Code: p.Code, Title: title, Rating: p.Rating}
		}
		return programs, nil
	}

	stored, err := h.repository.GetAllPrograms()
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, errEmptyCatalog
	}

	return runner.Dereference(stored), nil
}

// runScheduling 在限定时间内完成一次排期并记录指标
func (h *Handler) runScheduling(ctx context.Context, programs []domain.Program, params domain.SchedulingParameters) (*domain.SchedulingResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Scheduler.RunTimeout)*time.Second)
	defer cancel()

	start := time.Now()
	result, err := runner.Run(ctx, programs, params)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidInput), errors.Is(err, scheduler.ErrMissingRating):
			h.metrics.ObserveFailure(metrics.SourceHTTP, metrics.OutcomeInvalid)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			h.metrics.ObserveFailure(metrics.SourceHTTP, metrics.OutcomeTimeout)
		default:
			h.metrics.ObserveFailure(metrics.SourceHTTP, metrics.OutcomeFailed)
		}
		return nil, err
	}

	h.metrics.ObserveSuccess(metrics.SourceHTTP, time.Since(start).Seconds(), result.Fitness)
	return result, nil
}

// runErrorMessage 返回可以展示给用户的错误信息，ok 为 false 表示属于服务器内部错误
func runErrorMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidInput), errors.Is(err, scheduler.ErrMissingRating):
		return err.Error(), true
	case errors.Is(err, context.DeadlineExceeded):
		return "排期超时，请减小种群大小或迭代次数", true
	case errors.Is(err, context.Canceled):
		return "排期已取消", true
	case errors.Is(err, errEmptyCatalog):
		return err.Error(), true
	default:
		return "", false
	}
}

func (h *Handler) GetSchedulingParameters(w http.ResponseWriter, r *http.Request) {
	cfg := h.config.Scheduler

	h.successResponse(w, r, "获取排期参数成功", map[string]any{
		"populationSize": parameterBounds[int]{cfg.PopulationSize, cfg.MinPopulationSize, cfg.MaxPopulationSize},
		"generations":    parameterBounds[int]{cfg.Generations, cfg.MinGenerations, cfg.MaxGenerations},
		"crossoverRate":  parameterBounds[float64]{cfg.CrossoverRate, cfg.MinCrossoverRate, cfg.MaxCrossoverRate},
		"mutationRate":   parameterBounds[float64]{cfg.MutationRate, cfg.MinMutationRate, cfg.MaxMutationRate},
	})
}

func (h *Handler) GenerateSchedulingResult(w http.ResponseWriter, r *http.Request) {
	var req SchedulingRequest

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params, err := h.resolveParameters(&req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	programs, err := h.loadPrograms(req.Programs)
	if err != nil {
		if msg, ok := runErrorMessage(err); ok {
			h.errorResponse(w, r, msg)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	result, err := h.runScheduling(r.Context(), programs, params)
	if err != nil {
		if msg, ok := runErrorMessage(err); ok {
			h.errorResponse(w, r, msg)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "自动排期成功", result)
}

func (h *Handler) SubmitSchedulingJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		SchedulingRequest
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params, err := h.resolveParameters(&req.SchedulingRequest)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	programs, err := h.loadPrograms(req.Programs)
	if err != nil {
		if msg, ok := runErrorMessage(err); ok {
			h.errorResponse(w, r, msg)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	job := &domain.SchedulingJob{
		ID:         id,
		Email:      req.Email,
		Parameters: params,
		Programs:   programs,
		CreatedAt:  time.Now(),
	}

	body, err := json.Marshal(job)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将任务发送到 RabbitMQ，由 worker 执行排期并发送邮件
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.jobChannel.PublishWithContext(
		ctx,
		"",
		h.config.Scheduler.JobQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.CreatedAt,
			Body:         body,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排期任务已提交，结果将发送到邮箱", job)
}
