package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

// statusRecorder 记录写出的状态码，供访问日志使用
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// clientIP 去掉 RemoteAddr 中的端口
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		if rw.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.LogAttrs(r.Context(), level, "已处理请求",
			slog.Int("status", rw.status),
			slog.String("ip", clientIP(r)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				h.internalServerError(w, r, fmt.Errorf("panic: %v", v))
				// 堆栈直接输出到 stderr，放进 slog 属性里不便阅读
				_, _ = os.Stderr.Write(debug.Stack())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			if errors.Is(err, http.ErrNoCookie) {
				h.errorResponse(w, r, "用户未登录")
				return
			}
			h.internalServerError(w, r, err)
			return
		}

		claims, err := h.parseToken(cookie.Value)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		ctx := context.WithValue(r.Context(), RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(RoleCtxKey).(string)
			if !slices.Contains(roles, domain.Role(role)) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// program 按 URL 中的 code 加载节目并放入 context
func (h *Handler) program(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		program, err := h.repository.GetProgramByCode(chi.URLParam(r, "code"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				h.errorResponse(w, r, "节目不存在")
				return
			}
			h.internalServerError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ProgramCtx, program)))
	})
}

// rateLimit 限制每个客户端在一个窗口内的排期次数
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !allowed {
			h.errorResponse(w, r, "排期过于频繁，请稍后再试")
			return
		}

		next.ServeHTTP(w, r)
	})
}
