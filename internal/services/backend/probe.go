package backend

import (
	"context"
	"io"
	"net/http"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Probe checks that the network is reachable by fetching the probe URL.
// Any HTTP response below 500 counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	if c.probeURL == "" {
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "connectivity probe")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.probeURL, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNoConnectivity, "build probe request", err)
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		span.RecordError(err)
		return apperrors.Wrap(apperrors.CodeNoConnectivity, "connectivity probe", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.New(apperrors.CodeNoConnectivity, "connectivity probe returned "+resp.Status)
	}
	return nil
}
