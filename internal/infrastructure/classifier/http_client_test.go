package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensor_features/internal/domain/model"
)

func sampleTable() *model.FeatureTable {
	return &model.FeatureTable{
		Columns: []string{"has_study", "kitchen const"},
		Rows: []model.FeatureRow{
			{HomeID: "H1", Values: map[string]float64{"has_study": 1, "kitchen const": 0.5}},
		},
	}
}

func TestClassifySendsTableAndDecodesScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var table model.FeatureTable
		require.NoError(t, json.NewDecoder(r.Body).Decode(&table))
		assert.Equal(t, []string{"has_study", "kitchen const"}, table.Columns)

		json.NewEncoder(w).Encode([]model.HomeScore{
			{HomeID: "H1", Label: "occupied", Score: 0.87},
		})
	}))
	defer server.Close()

	client := NewHTTPClassifierClient(server.URL)
	scores, err := client.Classify(context.Background(), sampleTable())
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "H1", scores[0].HomeID)
	assert.Equal(t, "occupied", scores[0].Label)
	assert.InDelta(t, 0.87, scores[0].Score, 1e-9)
}

func TestClassifyRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClassifierClient(server.URL)
	_, err := client.Classify(context.Background(), sampleTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 503")
}

func TestClassifyRejectsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewHTTPClassifierClient(server.URL)
	_, err := client.Classify(context.Background(), sampleTable())
	require.Error(t, err)
}

func TestClassifyUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // адрес освобождён, соединение не установится

	client := NewHTTPClassifierClient(server.URL)
	_, err := client.Classify(context.Background(), sampleTable())
	require.Error(t, err)
}
