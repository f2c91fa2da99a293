package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"sensor_features/internal/domain/model"
)

// HTTPClassifierClient отправляет таблицу признаков внешнему
// сервису-классификатору по HTTP.
type HTTPClassifierClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClassifierClient(baseURL string) *HTTPClassifierClient {
	return &HTTPClassifierClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Classify отправляет таблицу и возвращает оценку по каждому дому.
func (c *HTTPClassifierClient) Classify(ctx context.Context, table *model.FeatureTable) ([]model.HomeScore, error) {
	body, err := json.Marshal(table)
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling feature table")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/classify", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "error building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error sending request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}

	var scores []model.HomeScore
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, errors.Wrap(err, "error decoding response")
	}
	return scores, nil
}
