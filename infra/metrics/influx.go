package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/planavail/core/metrics"
	"github.com/kilianp07/planavail/infra/logger"
)

// InfluxSink writes evaluation statistics to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	labels   *categoryLabels
	log      logger.Logger
}

// NewInfluxSink creates a sink for cfg.InfluxURL. A trailing /api/v2/write is accepted.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		labels:   newCategoryLabels(cfg),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEvaluation writes one availability_evaluation point with a
// days_<outcome> field per outcome.
func (s *InfluxSink) RecordEvaluation(st coremetrics.EvaluationStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("availability_evaluation").
		AddTag("category_type", s.labels.label(st.CategoryType, true)).
		AddTag("component", "availability").
		AddField("evaluation_id", st.ID).
		AddField("plans", st.Plans).
		AddField("slots", st.Slots).
		AddField("latency_ms", round3(float64(st.Duration)/float64(time.Millisecond)))
	for _, o := range coremetrics.Outcomes {
		p = p.AddField("days_"+string(o), st.Days[o])
	}
	p = p.SetTime(pointTime(st.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordValidationFailure writes a rejected request.
func (s *InfluxSink) RecordValidationFailure(ev coremetrics.ValidationFailure) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("availability_validation_failure").
		AddTag("category_type", s.labels.label(ev.CategoryType, false)).
		AddTag("component", "availability").
		AddField("reason", ev.Reason).
		SetTime(pointTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func pointTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
