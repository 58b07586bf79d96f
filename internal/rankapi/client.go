package rankapi

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/mallows/internal/config"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RetryMax        int
	ZstdCompression bool
}

// Client calls the rank API.
type Client struct {
	config      *ClientConfig
	restyClient *resty.Client
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// APIError is returned when the server replies with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
}

// NewClientConfig builds a ClientConfig from environment configuration.
func NewClientConfig(env config.ClientEnvConfig) *ClientConfig {
	return &ClientConfig{
		BaseURL:         env.BaseURL,
		Timeout:         env.ClientTimeout,
		RetryMax:        env.RetryMax,
		ZstdCompression: true,
	}
}

// NewClient creates a client backed by a retrying HTTP transport.
func NewClient(clientConfig *ClientConfig) (*Client, error) {
	if clientConfig == nil {
		clientConfig = &ClientConfig{}
	}
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", DefaultServerPort)
	}
	if clientConfig.Timeout == 0 {
		clientConfig.Timeout = DefaultClientTimeout * time.Second
	}
	if clientConfig.RetryMax < 0 {
		clientConfig.RetryMax = DefaultRetryMax
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = clientConfig.RetryMax
	retryClient.HTTPClient.Timeout = clientConfig.Timeout
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(clientConfig.BaseURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	client := &Client{
		config:      clientConfig,
		restyClient: restyClient,
	}

	if clientConfig.ZstdCompression {
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		client.encoder = encoder

		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		client.decoder = decoder
	}

	log.Debug().
		Str("base_url", clientConfig.BaseURL).
		Int("retry_max", retryClient.RetryMax).
		Str("timeout", clientConfig.Timeout.String()).
		Bool("zstd", clientConfig.ZstdCompression).
		Msg("rank api client initialized")

	return client, nil
}

// Close cleans up client resources
func (c *Client) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		Get(RouteHealth)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("failed to make request: %w", err)
	}
	return decodeResponse[HealthResponse](c, resp)
}

func (c *Client) Distance(ctx context.Context, req DistanceRequest) (DistanceResponse, error) {
	return post[DistanceRequest, DistanceResponse](ctx, c, RouteDistance, req)
}

func (c *Client) Aggregate(ctx context.Context, req AggregateRequest) (AggregateResponse, error) {
	return post[AggregateRequest, AggregateResponse](ctx, c, RouteAggregate, req)
}

func (c *Client) AchievableDistances(ctx context.Context, req AchievableDistancesRequest) (AchievableDistancesResponse, error) {
	return post[AchievableDistancesRequest, AchievableDistancesResponse](ctx, c, RouteAchievableDistances, req)
}

func (c *Client) UpdateAlpha(ctx context.Context, req AlphaUpdateRequest) (AlphaUpdateResponse, error) {
	return post[AlphaUpdateRequest, AlphaUpdateResponse](ctx, c, RouteAlphaUpdate, req)
}

func (c *Client) RunChains(ctx context.Context, req AlphaChainsRequest) (AlphaChainsResponse, error) {
	return post[AlphaChainsRequest, AlphaChainsResponse](ctx, c, RouteAlphaChains, req)
}

// post sends req to path, compressing the body when zstd is enabled, and unwraps the
// StdResponse envelope.
func post[Req, Resp any](ctx context.Context, c *Client, path string, req Req) (Resp, error) {
	var zero Resp

	jsonData, err := sonic.Marshal(req)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal request: %w", err)
	}

	r := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")

	if c.config.ZstdCompression && c.encoder != nil {
		r.SetHeader("Content-Encoding", "zstd").
			SetHeader("Accept-Encoding", "zstd").
			SetBody(c.encoder.EncodeAll(jsonData, nil))
	} else {
		r.SetBody(jsonData)
	}

	log.Trace().
		Str("path", path).
		Int("body_size", len(jsonData)).
		Msg("Sending request")

	resp, err := r.Post(path)
	if err != nil {
		return zero, fmt.Errorf("failed to make request: %w", err)
	}
	return decodeResponse[Resp](c, resp)
}

func decodeResponse[Resp any](c *Client, resp *resty.Response) (Resp, error) {
	var zero Resp

	responseBody := resp.Body()
	if c.decoder != nil && resp.Header().Get("Content-Encoding") == "zstd" {
		decompressed, err := c.decoder.DecodeAll(responseBody, nil)
		if err != nil {
			return zero, fmt.Errorf("failed to decompress response: %w", err)
		}
		responseBody = decompressed
	}

	var envelope StdResponse[Resp]
	if err := sonic.Unmarshal(responseBody, &envelope); err != nil {
		if resp.IsError() {
			return zero, &APIError{StatusCode: resp.StatusCode(), Message: string(responseBody)}
		}
		return zero, fmt.Errorf("failed to unmarshal StdResponse: %w", err)
	}

	if resp.IsError() || envelope.Error != nil {
		msg := ""
		if envelope.Error != nil {
			msg = *envelope.Error
		}
		return zero, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return envelope.Body, nil
}
