package console

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/nelssec/defcheck/internal/defender"
)

// Defenders fetches every Defender registered with the console.
// An empty list is valid; a null body is ErrNoData.
func (c *Client) Defenders(ctx context.Context, token string) ([]defender.Agent, error) {
	logger := otelzap.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(defendersPath), nil)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "build defenders request"), ErrFetch)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "defenders request failed"), ErrFetch)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, errors.Mark(errors.Wrap(statusError(resp), "list defenders"), ErrFetch)
	}

	var agents []defender.Agent
	if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode defenders response"), ErrFetch)
	}
	if agents == nil {
		return nil, errors.Mark(errors.Mark(errors.New("defenders response was null"), ErrNoData), ErrFetch)
	}

	logger.Debug("Fetched defenders", zap.Int("count", len(agents)))
	return agents, nil
}
