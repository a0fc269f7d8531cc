package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenCookieName = "__program_scheduler_token"

var errBadCredentials = errors.New("用户名不存在或密码错误")

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// checkCredentials 对比配置中的管理员账号，用户名也使用常量时间比较
func (h *Handler) checkCredentials(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username)) != 1 {
		return errBadCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errBadCredentials
	}
	return err
}

func (h *Handler) issueToken(now time.Time) (string, time.Time, error) {
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(h.admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   h.admin.Username,
		},
	})

	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	return ss, expiration, err
}

func (h *Handler) parseToken(value string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// setTokenCookie 写入 http-only cookie，value 为空时清除
func (h *Handler) setTokenCookie(w http.ResponseWriter, value string, expiration time.Time) {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    value,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.checkCredentials(req.Username, req.Password); err != nil {
		if errors.Is(err, errBadCredentials) {
			h.errorResponse(w, r, err.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	token, expiration, err := h.issueToken(time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.setTokenCookie(w, token, expiration)

	h.successResponse(w, r, "登录成功", h.admin)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", time.Unix(0, 0))
	h.successResponse(w, r, "登出成功", nil)
}
