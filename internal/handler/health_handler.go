package handler

import (
	"net/http"

	"tempo/internal/logic/health"
	"tempo/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := health.NewHealthLogic(r.Context(), svcCtx).Health()
		if resp.Status != health.StatusOk {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusServiceUnavailable, resp)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
