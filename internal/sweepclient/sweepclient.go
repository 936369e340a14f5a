// FilePath: server/sweeps/internal/sweepclient/sweepclient.go
package sweepclient

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	sweepPath    = "/sweep"
	downloadPath = "/download"
)

// Client issues the sweep API calls of the front-ends. It holds no mutable
// state after construction and is shared by every view.
type Client struct {
	http *resty.Client
}

// New creates a client rooted at cfg.URL. Failed calls are never retried.
func New(cfg config.BackendConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "sweeps/"+nuts.GetVersion())

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{http: client}
}

// FetchAllSweeps returns every sweep in the order the server chose.
func (c *Client) FetchAllSweeps(ctx context.Context) ([]models.Sweep, error) {
	return c.fetchSweeps(ctx, nil)
}

// FetchLatestSweep returns the server's latest subset, which may hold any
// number of records.
func (c *Client) FetchLatestSweep(ctx context.Context) ([]models.Sweep, error) {
	return c.fetchSweeps(ctx, map[string]string{"latest": "true"})
}

// DownloadSweepArtifact returns the raw artifact bytes of sweep id.
func (c *Client) DownloadSweepArtifact(ctx context.Context, id int64) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetQueryParam("id", strconv.FormatInt(id, 10)).
		Get(downloadPath)
	if err := checkResponse(resp, err, "download sweep artifact"); err != nil {
		return nil, err
	}

	nuts.L.Debugf("[SweepClient] Downloaded artifact of sweep %d (%d bytes)", id, len(resp.Body()))
	return resp.Body(), nil
}

func (c *Client) fetchSweeps(ctx context.Context, params map[string]string) ([]models.Sweep, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(sweepPath)
	if err := checkResponse(resp, err, "fetch sweeps"); err != nil {
		return nil, err
	}

	sweeps := []models.Sweep{}
	if err := json.Unmarshal(resp.Body(), &sweeps); err != nil {
		return nil, errors.NewUpstreamError("invalid sweep listing: "+err.Error(), resp.StatusCode())
	}

	nuts.L.Debugf("[SweepClient] GET %s %v -> %d sweeps", sweepPath, params, len(sweeps))
	return sweeps, nil
}

func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return errors.NewTransportError(op+" failed", err)
	}
	if !resp.IsSuccess() {
		return errors.NewUpstreamError(op+": "+resp.Status(), resp.StatusCode())
	}
	return nil
}
