package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.repository.GetAllPrograms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取节目表成功", programs)
}

func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	program := r.Context().Value(ProgramCtx).(*domain.Program)

	h.successResponse(w, r, "获取节目成功", program)
}

func (h *Handler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code   string  `json:"code"`
		Title  string  `json:"title" validate:"required"`
		Rating float64 `json:"rating" validate:"gte=0"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	program := &domain.Program{
		Code:   req.Code,
		Title:  req.Title,
		Rating: req.Rating,
	}
	// 没有给出节目代码时根据节目名称的拼音生成
	if program.Code == "" {
		program.Code = utils.GenerateProgramCode(program.Title)
	}

	if err := utils.ValidateProgram(program); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateProgram(program); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "programs_code_key":
				h.errorResponse(w, r, "节目代码已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建节目成功", program)
}

func (h *Handler) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	program := r.Context().Value(ProgramCtx).(*domain.Program)

	var req struct {
		Title  *string  `json:"title" validate:"omitempty,min=1"`
		Rating *float64 `json:"rating" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		program.Title = *req.Title
	}
	if req.Rating != nil {
		program.Rating = *req.Rating
	}

	if err := utils.ValidateProgram(program); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateProgram(program); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "节目已被修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新节目成功", program)
}

func (h *Handler) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	program := r.Context().Value(ProgramCtx).(*domain.Program)

	if err := h.repository.DeleteProgram(program.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除节目成功", nil)
}
