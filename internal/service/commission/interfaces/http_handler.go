package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"affiliatehub/internal/pkg/auth"
	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/service/commission/application"
	"affiliatehub/internal/service/commission/domain"
)

const maxBodyBytes = 1 << 20

// CommissionHandler 封装了佣金服务的 HTTP 处理器
type CommissionHandler struct {
	service  *application.CommissionService
	verifier *auth.Verifier
	validate *validator.Validate
}

// NewCommissionHandler 创建一个新的 HTTP 处理器实例
func NewCommissionHandler(service *application.CommissionService, verifier *auth.Verifier) *CommissionHandler {
	return &CommissionHandler{
		service:  service,
		verifier: verifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, caller auth.Caller)

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CommissionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /api/reps", h.authed(h.createRep))
	mux.Handle("POST /api/reps/{id}/deactivate", h.authed(h.deactivateRep))
	mux.Handle("GET /api/reps/{id}/stats", h.authed(h.repStats))
	mux.Handle("POST /api/reps/{id}/payouts", h.authed(h.recordPayout))

	mux.Handle("POST /api/signups", h.authed(h.recordSignup))
	mux.Handle("POST /api/signups/{id}/qualify", h.authed(h.qualifySignup))
	mux.Handle("POST /api/signups/{id}/reject", h.authed(h.rejectSignup))

	mux.Handle("POST /api/bonuses/milestone", h.authed(h.awardMilestoneBonus))
	mux.Handle("POST /api/bonuses/custom", h.authed(h.awardCustomBonus))

	mux.Handle("POST /api/contests", h.authed(h.createContest))
	mux.Handle("GET /api/contests/{id}/leaderboard", h.authed(h.contestLeaderboard))
}

// authed 校验 Bearer token，把调用方写入 context。角色以数据库为准，由应用层判断。
func (h *CommissionHandler) authed(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := h.verifier.FromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "unauthenticated"})
			return
		}
		ctx := auth.WithCaller(r.Context(), caller)
		next(w, r.WithContext(ctx), caller)
	})
}

func (h *CommissionHandler) createRep(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	var req application.CreateRepRequest
	if !h.decode(w, r, &req) {
		return
	}
	rep, err := h.service.CreateRep(r.Context(), caller.ID, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *CommissionHandler) deactivateRep(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	rep, err := h.service.DeactivateRep(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *CommissionHandler) repStats(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	stats, err := h.service.RepStats(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CommissionHandler) recordPayout(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	res, err := h.service.RecordPayout(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CommissionHandler) recordSignup(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	var req application.RecordSignupRequest
	if !h.decode(w, r, &req) {
		return
	}
	signup, err := h.service.RecordSignup(r.Context(), caller.ID, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signup)
}

// qualifySignup 人工审核入口，仅管理员可用
func (h *CommissionHandler) qualifySignup(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	if err := h.service.RequireAdmin(r.Context(), caller.ID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	res, err := h.service.QualifySignup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CommissionHandler) rejectSignup(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	if err := h.service.RequireAdmin(r.Context(), caller.ID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req application.RejectSignupRequest
	if !h.decode(w, r, &req) {
		return
	}
	signup, err := h.service.RejectSignup(r.Context(), r.PathValue("id"), req.Reason)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, signup)
}

func (h *CommissionHandler) awardMilestoneBonus(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	var req application.AwardMilestoneBonusRequest
	if !h.decode(w, r, &req) {
		return
	}
	bonus, err := h.service.AwardMilestoneBonus(r.Context(), caller.ID, req.RepID, req.Milestone)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bonus)
}

func (h *CommissionHandler) awardCustomBonus(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	var req application.AwardCustomBonusRequest
	if !h.decode(w, r, &req) {
		return
	}
	bonus, err := h.service.AwardCustomBonus(r.Context(), caller.ID, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bonus)
}

func (h *CommissionHandler) createContest(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	var req application.CreateContestRequest
	if !h.decode(w, r, &req) {
		return
	}
	contest, err := h.service.CreateContest(r.Context(), caller.ID, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contest)
}

func (h *CommissionHandler) contestLeaderboard(w http.ResponseWriter, r *http.Request, _ auth.Caller) {
	lb, err := h.service.ContestLeaderboard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// decode 解析并校验请求体，失败时已经写好响应
func (h *CommissionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	// 空请求体交给 validator 判断必填字段
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(r.Context(), w, domain.InvalidInputf("invalid request body: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(r.Context(), w, domain.InvalidInputf("%s", describeValidation(err)))
		return false
	}
	return true
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed '"+fe.Tag()+"'")
	}
	return strings.Join(parts, "; ")
}

type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Actual   *int64 `json:"actual,omitempty"`
	Required *int   `json:"required,omitempty"`
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, resp.Code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, resp.Code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, domain.ErrDuplicateMilestoneBonus):
		status, resp.Code = http.StatusConflict, "duplicate_milestone_bonus"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, resp.Code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrMilestoneNotReached):
		status, resp.Code = http.StatusUnprocessableEntity, "milestone_not_reached"
		var nr *domain.MilestoneNotReachedError
		if errors.As(err, &nr) {
			resp.Actual, resp.Required = &nr.Actual, &nr.Required
		}
	case errors.Is(err, domain.ErrRepInactive):
		status, resp.Code = http.StatusUnprocessableEntity, "rep_inactive"
	case errors.Is(err, domain.ErrNothingToPay):
		status, resp.Code = http.StatusUnprocessableEntity, "nothing_to_pay"
	case errors.Is(err, domain.ErrUnknownMilestone):
		status, resp.Code = http.StatusBadRequest, "unknown_milestone"
	case errors.Is(err, domain.ErrInvalidPlatform):
		status, resp.Code = http.StatusBadRequest, "invalid_platform"
	case errors.Is(err, domain.ErrInvalidAmount):
		status, resp.Code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, domain.ErrInvalidInput):
		status, resp.Code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		status, resp.Code = http.StatusServiceUnavailable, "persistence_unavailable"
		resp.Error = domain.ErrPersistenceUnavailable.Error()
	default:
		status, resp.Code = http.StatusInternalServerError, "internal"
		resp.Error = "internal error"
	}
	if status >= http.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
