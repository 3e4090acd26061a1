package display

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/arjunkrish/rival_radar/internal/config"
)

// NewHTTPServer 创建报告查看服务
// 路由都是普通的 HandleFunc：/report/{date} 返回存储的 HTML，
// /api/runs 返回 JSON 运行列表。
func NewHTTPServer(c config.ServerConfig, uc *RunUseCase, logger log.Logger) *http.Server {
	helper := log.NewHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		w.Write([]byte("ok"))
	})

	srv.HandleFunc("/api/runs", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", 10)

		runs, total, err := uc.List(r.Context(), page, pageSize)
		if err != nil {
			helper.Errorf("list runs failed: %v", err)
			nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"total": total,
			"runs":  runs,
		})
	})

	srv.HandleFunc("/report/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		runDate := strings.TrimPrefix(r.URL.Path, "/report/")
		if runDate == "" {
			nethttp.Error(w, "missing report date", nethttp.StatusBadRequest)
			return
		}

		html, err := uc.Report(r.Context(), runDate)
		if err != nil {
			helper.Errorf("get report failed [%s]: %v", runDate, err)
			nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
			return
		}
		if html == "" {
			nethttp.Error(w, "report not found", nethttp.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	})

	return srv
}

func queryInt(r *nethttp.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
