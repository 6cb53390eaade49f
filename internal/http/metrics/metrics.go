// Package metrics expone las métricas Prometheus del servicio: HTTP,
// resultados del aprovisionamiento y estado del pool de Postgres.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once   sync.Once
	regErr error

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Dominio
	provisioningTotal  *prometheus.CounterVec
	compensationsTotal *prometheus.CounterVec
	linkFailuresTotal  prometheus.Counter
	rateLimitedTotal   *prometheus.CounterVec
	overviewCacheTotal *prometheus.CounterVec
)

// Config agrupa las dependencias de /metrics.
type Config struct {
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
	// Pool es opcional; sólo existe con storage postgres.
	Pool func() *pgxpool.Pool
}

// Register inicializa los collectors y devuelve el handler de /metrics.
func Register(cfg Config) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	once.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		provisioningTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "patient_provisioning_total",
			Help: "Aprovisionamientos de pacientes por resultado",
		}, []string{"result"}) // result: success|unauthenticated|forbidden|invalid_input|provisioning_failed|unexpected_failure

		compensationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Pasos de compensación ejecutados por saga, paso y resultado",
		}, []string{"saga", "step", "result"}) // result: ok|failed

		linkFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caregiver_link_failures_total",
			Help: "Links cuidador-paciente que no pudieron crearse al aprovisionar",
		})

		rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rechazadas por rate limit",
		}, []string{"bucket"})

		overviewCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_overview_cache_total",
			Help: "Lecturas del overview por resultado de cache",
		}, []string{"result"}) // hit|miss

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			provisioningTotal, compensationsTotal, linkFailuresTotal,
			rateLimitedTotal, overviewCacheTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				regErr = err
				return
			}
		}
	})
	if regErr != nil {
		return nil, regErr
	}

	if cfg.Pool != nil {
		if err := registerCollector(registry, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), nil
}

// ProvisioningOutcome cuenta un aprovisionamiento terminado.
func ProvisioningOutcome(result string) {
	if provisioningTotal != nil {
		provisioningTotal.WithLabelValues(result).Inc()
	}
}

// Compensation cuenta un paso de compensación; err nil = ok.
// Tiene la forma de saga.Observer.
func Compensation(saga, step string, err error) {
	if compensationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	compensationsTotal.WithLabelValues(saga, step, result).Inc()
}

func LinkFailure() {
	if linkFailuresTotal != nil {
		linkFailuresTotal.Inc()
	}
}

func RateLimited(bucket string) {
	if rateLimitedTotal != nil {
		rateLimitedTotal.WithLabelValues(bucket).Inc()
	}
}

func OverviewCache(hit bool) {
	if overviewCacheTotal == nil {
		return
	}
	if hit {
		overviewCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	overviewCacheTotal.WithLabelValues("miss").Inc()
}

// WithMetrics instrumenta requests HTTP (contadores, latencia, inflight).
func WithMetrics(next http.Handler) http.Handler {
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// registerCollector registra ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

var uuidSegment = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// normalizePath reemplaza ids por ":id" para acotar la cardinalidad.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	parts := strings.Split(p, "/")
	for i, seg := range parts {
		if uuidSegment.MatchString(seg) {
			parts[i] = ":id"
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil && seg != "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// poolCollector expone gauges del pool de Postgres.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pgxpool_acquired_conns", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pgxpool_idle_conns", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pgxpool_total_conns", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	p := c.pool()
	if p == nil {
		return
	}
	st := p.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(st.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(st.TotalConns()))
}
