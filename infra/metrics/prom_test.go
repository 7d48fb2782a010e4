package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/planavail/core/metrics"
)

func sampleStats() coremetrics.EvaluationStats {
	return coremetrics.EvaluationStats{
		ID:           "eval-1",
		CategoryType: "MC",
		Plans:        1,
		Days: map[coremetrics.Outcome]int{
			coremetrics.OutcomeOpen:     3,
			coremetrics.OutcomeWeekday:  2,
			coremetrics.OutcomeBlackout: 1,
		},
		Slots:    3,
		Duration: 20 * time.Millisecond,
	}
}

func TestPromSinkRecordEvaluation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordEvaluation(sampleStats()))
	require.NoError(t, sink.RecordEvaluation(sampleStats()))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.evaluations.WithLabelValues("MC")))
	assert.Equal(t, 6.0, testutil.ToFloat64(sink.slots.WithLabelValues("MC")))
	assert.Equal(t, 6.0, testutil.ToFloat64(sink.days.WithLabelValues("MC", "open")))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.days.WithLabelValues("MC", "weekday")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.days.WithLabelValues("MC", "blackout")))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.latency))
}

func TestPromSinkValidationFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordValidationFailure(coremetrics.ValidationFailure{CategoryType: "TR", Reason: "end before start"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejected.WithLabelValues("TR")))
}

func TestPromSinkFixedCategoryLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{CategoryLabels: []string{"MC"}}, reg)
	require.NoError(t, err)

	st := sampleStats()
	require.NoError(t, sink.RecordEvaluation(st))
	st.CategoryType = "attacker-chosen"
	require.NoError(t, sink.RecordEvaluation(st))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.evaluations.WithLabelValues("MC")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.evaluations.WithLabelValues(OtherCategory)))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.evaluations))
}

func TestPromSinkLearnedCategoryLabelsAreBounded(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{MaxCategoryLabels: 2}, reg)
	require.NoError(t, err)

	// Rejected requests never claim a label.
	require.NoError(t, sink.RecordValidationFailure(coremetrics.ValidationFailure{CategoryType: "junk"}))
	for _, c := range []string{"MC", "TR", "XX", "YY", "MC", "", strings.Repeat("z", 100)} {
		st := sampleStats()
		st.CategoryType = c
		require.NoError(t, sink.RecordEvaluation(st))
	}
	require.NoError(t, sink.RecordValidationFailure(coremetrics.ValidationFailure{CategoryType: "TR"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.evaluations.WithLabelValues("MC")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.evaluations.WithLabelValues("TR")))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.evaluations.WithLabelValues(OtherCategory)))
	assert.Equal(t, 3, testutil.CollectAndCount(sink.evaluations))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejected.WithLabelValues(OtherCategory)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejected.WithLabelValues("TR")))
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordEvaluation(sampleStats()))
	require.NoError(t, second.RecordEvaluation(sampleStats()))
	assert.Equal(t, 2.0, testutil.ToFloat64(first.evaluations.WithLabelValues("MC")))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordEvaluation(sampleStats()))

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `availability_slots_total{category_type="MC"} 3`))
}
