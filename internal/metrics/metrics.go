package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	IntakeStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_started_total",
			Help: "Total number of started application intakes",
		},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Total number of submitted applications",
		},
	)

	ApplicationsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_resolved_total",
			Help: "Total number of applications resolved by reviewers",
		},
		[]string{"verdict"},
	)

	BroadcastMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Broadcast deliveries by result",
		},
		[]string{"result"},
	)

	UpdatesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updates_handled_total",
			Help: "Inbound updates by kind",
		},
		[]string{"kind"},
	)

	UserStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_store_errors_total",
			Help: "User store failures by operation",
		},
		[]string{"op"},
	)
)

// Serve отдаёт /metrics до отмены ctx
func Serve(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server failed", zap.Error(err))
	}
}
