package console

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges an access key and secret for a bearer token.
// It makes exactly one attempt.
func (c *Client) Authenticate(ctx context.Context, identity, secret string) (string, error) {
	logger := otelzap.Ctx(ctx)

	payload, err := json.Marshal(authRequest{Username: identity, Password: secret})
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "encode credentials"), ErrAuth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(authenticatePath), bytes.NewReader(payload))
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "build authentication request"), ErrAuth)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("Authenticating to console", zap.String("url", c.baseURL), zap.String("identity", identity))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "authentication request failed"), ErrAuth)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		err := errors.Mark(errors.Wrap(statusError(resp), "authenticate"), ErrAuth)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			err = errors.WithHint(err, "check the access key and secret, and that the key has Compute API access")
		}
		return "", err
	}

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode authentication response"), ErrAuth)
	}
	if body.Token == "" {
		return "", errors.Mark(errors.New("authentication response has no token"), ErrAuth)
	}

	logger.Debug("Authenticated to console", zap.String("url", c.baseURL))
	return body.Token, nil
}
