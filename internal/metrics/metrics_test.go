package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordClassification(t *testing.T) {
	before := testutil.ToFloat64(IntentsClassified.WithLabelValues("recommend_by_genre"))
	beforeMode := testutil.ToFloat64(ProcessingMode.WithLabelValues("simple"))

	RecordClassification("recommend_by_genre", "simple", 200*time.Microsecond)

	assert.Equal(t, before+1, testutil.ToFloat64(IntentsClassified.WithLabelValues("recommend_by_genre")))
	assert.Equal(t, beforeMode+1, testutil.ToFloat64(ProcessingMode.WithLabelValues("simple")))
}

func TestRecordRecommendations(t *testing.T) {
	served := testutil.ToFloat64(RecommendationsServed.WithLabelValues("bestsellers"))
	empty := testutil.ToFloat64(EmptyRecommendations.WithLabelValues("bestsellers"))

	RecordRecommendations("bestsellers", 3)
	RecordRecommendations("bestsellers", 0)

	assert.Equal(t, served+3, testutil.ToFloat64(RecommendationsServed.WithLabelValues("bestsellers")))
	assert.Equal(t, empty+1, testutil.ToFloat64(EmptyRecommendations.WithLabelValues("bestsellers")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/chat", "200"))

	RecordAPIRequest("POST", "/chat", 200, 5*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/chat", "200")))
}

func TestGauges(t *testing.T) {
	SetCatalogSize(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(CatalogBooks))

	before := testutil.ToFloat64(WSConnections)
	TrackWSConnection(true)
	TrackWSConnection(true)
	TrackWSConnection(false)
	assert.Equal(t, before+1, testutil.ToFloat64(WSConnections))
}
