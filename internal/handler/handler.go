package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

//go:embed templates/*.html
var templateFS embed.FS

// ProgramRepository 由 repository.Repository 实现
type ProgramRepository interface {
	GetAllPrograms() ([]*domain.Program, error)
	GetProgramByCode(code string) (*domain.Program, error)
	CreateProgram(program *domain.Program) error
	UpdateProgram(program *domain.Program) error
	DeleteProgram(id int64) error
}

// JobPublisher 由 *amqp.Channel 实现
type JobPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RunLimiter 由 limiter.Limiter 实现
type RunLimiter interface {
	Allow(ctx context.Context, client string) (bool, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository ProgramRepository
	translator ut.Translator
	jobChannel JobPublisher
	limiter    RunLimiter
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	admin      *domain.Admin
	templates  *template.Template

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo ProgramRepository, jobCh JobPublisher, limiter RunLimiter, reg *prometheus.Registry) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 管理员密码只保存哈希
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		jobChannel: jobCh,
		limiter:    limiter,
		metrics:    metrics.New(reg),
		gatherer:   reg,
		admin: &domain.Admin{
			Username:     cfg.Admin.Username,
			PasswordHash: string(passwordHash),
			FullName:     cfg.Admin.FullName,
			Role:         domain.RoleAdmin,
		},
		templates: tmpl,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 参数表单和结果展示页面
	h.Mux.Get("/", h.SchedulingForm)
	h.Mux.With(h.rateLimit).Post("/", h.SubmitSchedulingForm)

	h.Mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	h.Mux.Route("/programs", func(r chi.Router) {
		r.Get("/", h.GetAllPrograms)
		r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateProgram)
		r.Route("/{code}", func(r chi.Router) {
			r.Use(h.program)
			r.Get("/", h.GetProgram)
			r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateProgram)
			r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteProgram)
		})
	})

	h.Mux.Route("/scheduling", func(r chi.Router) {
		r.Get("/parameters", h.GetSchedulingParameters)
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/generate", h.GenerateSchedulingResult)
			r.Post("/jobs", h.SubmitSchedulingJob)
		})
	})
}
