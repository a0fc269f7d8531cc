package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

var templateFuncs = template.FuncMap{
	"rating": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

type formPage struct {
	Limits   config.SchedulerConfig
	Params   domain.SchedulingParameters
	SeedText string
	Result   *domain.SchedulingResult
	Error    string
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page *formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", page); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) defaultFormPage() *formPage {
	cfg := h.config.Scheduler
	return &formPage{
		Limits: cfg,
		Params: domain.SchedulingParameters{
			PopulationSize: cfg.PopulationSize,
			Generations:    cfg.Generations,
			CrossoverRate:  cfg.CrossoverRate,
			MutationRate:   cfg.MutationRate,
		},
	}
}

func (h *Handler) SchedulingForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, h.defaultFormPage())
}

// parseSchedulingForm 把表单字段转换成与 JSON 接口相同的请求
func parseSchedulingForm(r *http.Request) (*SchedulingRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	req := &SchedulingRequest{}

	parseInt := func(name string) (*int, error) {
		raw := strings.TrimSpace(r.PostForm.Get(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s 必须是整数", name)
		}
		return &v, nil
	}
	parseFloat := func(name string) (*float64, error) {
		raw := strings.TrimSpace(r.PostForm.Get(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s 必须是数字", name)
		}
		return &v, nil
	}

	var err error
	if req.PopulationSize, err = parseInt("populationSize"); err != nil {
		return nil, err
	}
	if req.Generations, err = parseInt("generations"); err != nil {
		return nil, err
	}
	if req.CrossoverRate, err = parseFloat("crossoverRate"); err != nil {
		return nil, err
	}
	if req.MutationRate, err = parseFloat("mutationRate"); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(r.PostForm.Get("seed")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed 必须是整数")
		}
		req.Seed = &seed
	}

	return req, nil
}

func (h *Handler) SubmitSchedulingForm(w http.ResponseWriter, r *http.Request) {
	page := h.defaultFormPage()

	req, err := parseSchedulingForm(r)
	if err != nil {
		page.Error = err.Error()
		h.renderForm(w, r, page)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		page.Error = h.translateError(err)
		h.renderForm(w, r, page)
		return
	}

	params, err := h.resolveParameters(req)
	page.Params = params
	if req.Seed != nil {
		page.SeedText = strconv.FormatInt(*req.Seed, 10)
	}
	if err != nil {
		page.Error = err.Error()
		h.renderForm(w, r, page)
		return
	}

	programs, err := h.loadPrograms(nil)
	if err == nil {
		page.Result, err = h.runScheduling(r.Context(), programs, params)
	}
	if err != nil {
		msg, ok := runErrorMessage(err)
		if !ok {
			h.logInternalServerError(r, err)
			msg = "服务器内部错误"
		}
		page.Error = msg
	}

	h.renderForm(w, r, page)
}
