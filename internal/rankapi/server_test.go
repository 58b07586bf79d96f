package rankapi

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON[Resp any](t *testing.T, app *fiber.App, path string, body any) (int, StdResponse[Resp]) {
	t.Helper()

	payload, err := sonic.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out StdResponse[Resp]
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with default config when nil config passed", func(t *testing.T) {
		server := NewServer(nil)

		require.NotNil(t, server)
		require.NotNil(t, server.App)
		assert.Equal(t, DefaultServerHost, server.config.Host)
		assert.Equal(t, DefaultServerPort, server.config.Port)
		assert.Equal(t, DefaultBodyLimit, server.config.BodyLimit)
		assert.Equal(t, DefaultMaxIterations, server.config.MaxIterations)
	})

	t.Run("uses provided config when passed", func(t *testing.T) {
		server := NewServer(&ServerConfig{Host: "127.0.0.1", Port: 9999, BodyLimit: 1024, MaxIterations: 10})

		assert.Equal(t, "127.0.0.1", server.config.Host)
		assert.Equal(t, 9999, server.config.Port)
		assert.Equal(t, 1024, server.config.BodyLimit)
		assert.Equal(t, 10, server.config.MaxIterations)
	})
}

func TestHealth(t *testing.T) {
	server := NewServer(nil)

	resp, err := server.App.Test(httptest.NewRequest(fiber.MethodGet, RouteHealth, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out StdResponse[HealthResponse]
	require.NoError(t, sonic.Unmarshal(raw, &out))
	assert.Equal(t, "ok", out.Body.Status)
	assert.Nil(t, out.Error)
}

func TestDistanceRoute(t *testing.T) {
	app := NewServer(nil).App

	tests := []struct {
		name       string
		req        DistanceRequest
		wantStatus int
		want       float64
		wantErr    string
	}{
		{
			name:       "footrule of reversal",
			req:        DistanceRequest{R1: []float64{1, 2, 3, 4, 5}, R2: []float64{5, 4, 3, 2, 1}, Metric: "footrule"},
			wantStatus: fiber.StatusOK,
			want:       12,
		},
		{
			name:       "empty metric defaults to footrule",
			req:        DistanceRequest{R1: []float64{1, 2, 3}, R2: []float64{3, 2, 1}},
			wantStatus: fiber.StatusOK,
			want:       4,
		},
		{
			name:       "kendall",
			req:        DistanceRequest{R1: []float64{1, 2, 3, 4, 5}, R2: []float64{5, 4, 3, 2, 1}, Metric: "kendall"},
			wantStatus: fiber.StatusOK,
			want:       10,
		},
		{
			name:       "length mismatch",
			req:        DistanceRequest{R1: []float64{1, 2, 3}, R2: []float64{1, 2}, Metric: "footrule"},
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "dimension mismatch",
		},
		{
			name:       "unknown metric",
			req:        DistanceRequest{R1: []float64{1, 2}, R2: []float64{2, 1}, Metric: "manhattan"},
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "inadmissible value of metric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := doJSON[DistanceResponse](t, app, RouteDistance, tt.req)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantErr != "" {
				require.NotNil(t, out.Error)
				assert.Contains(t, *out.Error, tt.wantErr)
				return
			}
			assert.Nil(t, out.Error)
			assert.Equal(t, tt.want, out.Body.Distance)
		})
	}
}

func TestAggregateRoute(t *testing.T) {
	app := NewServer(nil).App

	req := AggregateRequest{
		Rankings: [][]float64{
			{1, 2, 3, 4},
			{4, 3, 2, 1},
			{2, 1, 3, 4},
		},
		Reference: []float64{1, 2, 3, 4},
		Metric:    "footrule",
	}

	status, out := doJSON[AggregateResponse](t, app, RouteAggregate, req)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 10.0, out.Body.Total)
	assert.Equal(t, []float64{0, 8, 2}, out.Body.PerObservation)

	req.Reference = []float64{1, 2, 3}
	status, out = doJSON[AggregateResponse](t, app, RouteAggregate, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, out.Error)

	req.Rankings = [][]float64{{1, 2, 3}, {1, 2}}
	status, _ = doJSON[AggregateResponse](t, app, RouteAggregate, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAchievableDistancesRoute(t *testing.T) {
	app := NewServer(nil).App

	status, out := doJSON[AchievableDistancesResponse](t, app, RouteAchievableDistances,
		AchievableDistancesRequest{NItems: 4, Metric: "footrule"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}, out.Body.Distances)

	status, out = doJSON[AchievableDistancesResponse](t, app, RouteAchievableDistances,
		AchievableDistancesRequest{NItems: 51, Metric: "footrule"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, out.Error)

	status, _ = doJSON[AchievableDistancesResponse](t, app, RouteAchievableDistances,
		AchievableDistancesRequest{NItems: 5, Metric: "kendall"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func float64Ptr(v float64) *float64 {
	return &v
}

func alphaRequest() AlphaUpdateRequest {
	return AlphaUpdateRequest{
		Alpha: float64Ptr(1),
		Rankings: [][]float64{
			{1, 2, 3, 4, 5},
			{1, 2, 3, 5, 4},
			{2, 1, 3, 4, 5},
		},
		Metric:    "kendall",
		Consensus: []float64{1, 2, 3, 4, 5},
		Seed:      42,
	}
}

func TestAlphaUpdateRoute(t *testing.T) {
	app := NewServer(nil).App

	t.Run("same seed gives same step", func(t *testing.T) {
		status, first := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, alphaRequest())
		require.Equal(t, fiber.StatusOK, status)
		_, second := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, alphaRequest())

		assert.Equal(t, first.Body, second.Body)
		assert.Greater(t, first.Body.Alpha, 0.0)
		if first.Body.Accepted {
			assert.Equal(t, first.Body.Proposal, first.Body.Alpha)
		} else {
			assert.Equal(t, 1.0, first.Body.Alpha)
		}
	})

	t.Run("footrule without estimate fails", func(t *testing.T) {
		req := alphaRequest()
		req.Metric = "footrule"
		status, out := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		assert.Equal(t, fiber.StatusBadRequest, status)
		require.NotNil(t, out.Error)
	})

	t.Run("footrule with estimate succeeds", func(t *testing.T) {
		req := alphaRequest()
		req.Metric = "footrule"
		req.LogZEstimate = []float64{4.787, -0.5, 0.01}
		status, out := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Nil(t, out.Error)
	})

	t.Run("negative alpha rejected", func(t *testing.T) {
		req := alphaRequest()
		req.Alpha = float64Ptr(-1)
		status, _ := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("explicit zero alpha rejected", func(t *testing.T) {
		req := alphaRequest()
		req.Alpha = float64Ptr(0)
		status, out := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		assert.Equal(t, fiber.StatusBadRequest, status)
		require.NotNil(t, out.Error)
		assert.Contains(t, *out.Error, "alpha must be positive")
	})

	t.Run("omitted alpha starts from the default", func(t *testing.T) {
		req := alphaRequest()
		req.Alpha = nil
		status, out := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		require.Equal(t, fiber.StatusOK, status)
		if !out.Body.Accepted {
			assert.Equal(t, 1.0, out.Body.Alpha)
		}
	})

	t.Run("consensus length mismatch rejected", func(t *testing.T) {
		req := alphaRequest()
		req.Consensus = []float64{1, 2, 3, 4}
		req.NItems = 5
		status, _ := doJSON[AlphaUpdateResponse](t, app, RouteAlphaUpdate, req)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestAlphaChainsRoute(t *testing.T) {
	app := NewServer(&ServerConfig{MaxIterations: 1000}).App

	req := AlphaChainsRequest{AlphaUpdateRequest: alphaRequest(), Iterations: 100, Seeds: []uint64{1, 2}}
	status, out := doJSON[AlphaChainsResponse](t, app, RouteAlphaChains, req)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, out.Body.Chains, 2)
	for _, chain := range out.Body.Chains {
		assert.Len(t, chain.Trace, 100)
		assert.Equal(t, 100, chain.Iterations)
	}

	req.Iterations = 500
	status, _ = doJSON[AlphaChainsResponse](t, app, RouteAlphaChains, req)
	assert.Equal(t, fiber.StatusOK, status)

	req.Iterations = 501
	status, _ = doJSON[AlphaChainsResponse](t, app, RouteAlphaChains, req)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// the product iterations*seeds wraps to zero in int
	req.Iterations = 1 << 62
	req.Seeds = []uint64{1, 2, 3, 4}
	status, out = doJSON[AlphaChainsResponse](t, app, RouteAlphaChains, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, out.Error)
	assert.Contains(t, *out.Error, "invalid argument")

	req.Iterations = 10
	req.Seeds = nil
	status, _ = doJSON[AlphaChainsResponse](t, app, RouteAlphaChains, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandlerErrorHasEmptyBody(t *testing.T) {
	app := NewServer(nil).App

	payload, err := sonic.Marshal(DistanceRequest{R1: []float64{1, 2}, R2: []float64{1}, Metric: "footrule"})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, RouteDistance, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &out))
	assert.Equal(t, map[string]any{}, out["body"])
	assert.Contains(t, out["error"], "dimension mismatch")
}

func TestServerConfigAddress(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8888", NewServer(nil).config.Address())
	assert.Equal(t, "127.0.0.1:9000", (&ServerConfig{Host: "127.0.0.1", Port: 9000}).Address())
}

func TestMalformedBody(t *testing.T) {
	app := NewServer(nil).App

	req := httptest.NewRequest(fiber.MethodPost, RouteDistance, bytes.NewReader([]byte(`{"r1":`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestZstdMiddleware(t *testing.T) {
	app := NewServer(nil).App

	payload, err := sonic.Marshal(DistanceRequest{R1: []float64{1, 2, 3}, R2: []float64{3, 2, 1}, Metric: "spearman"})
	require.NoError(t, err)

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer encoder.Close()

	req := httptest.NewRequest(fiber.MethodPost, RouteDistance, bytes.NewReader(encoder.EncodeAll(payload, nil)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderContentEncoding, "zstd")
	req.Header.Set(fiber.HeaderAcceptEncoding, "zstd")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "zstd", resp.Header.Get(fiber.HeaderContentEncoding))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer decoder.Close()

	decoded, err := decoder.DecodeAll(raw, nil)
	require.NoError(t, err)

	var out StdResponse[DistanceResponse]
	require.NoError(t, sonic.Unmarshal(decoded, &out))
	assert.Equal(t, 8.0, out.Body.Distance)
}

func TestZstdMiddlewareBodyLimit(t *testing.T) {
	app := NewServer(&ServerConfig{BodyLimit: 16 << 10}).App

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer encoder.Close()

	send := func(body []byte) int {
		req := httptest.NewRequest(fiber.MethodPost, RouteDistance, bytes.NewReader(encoder.EncodeAll(body, nil)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderContentEncoding, "zstd")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	// a few kilobytes on the wire that expand far beyond the limit
	bomb := bytes.Repeat([]byte(" "), 8<<20)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, send(bomb))

	payload, err := sonic.Marshal(DistanceRequest{R1: []float64{1, 2}, R2: []float64{2, 1}, Metric: "footrule"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, send(payload))
}
