package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type verdictSource interface {
	LastVerdict() (models.Verdict, bool)
}

func newRouter(job verdictSource, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", webHandler).Methods(http.MethodGet)
	r.HandleFunc("/status", statusHandler(job)).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	return r
}

func webHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

func statusHandler(job verdictSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verdict, ok := job.LastVerdict()
		if !ok {
			http.Error(w, "no successful check yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(verdict); err != nil {
			zap.L().Error("failed to write status", zap.Error(err))
		}
	}
}
