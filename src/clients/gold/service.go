package gold

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ryanuo/aug-calc/src/config"
	"github.com/ryanuo/aug-calc/src/utils"
	"github.com/ryanuo/aug-calc/src/utils/requests"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const tradePath = "/api/gold/trade"

// ErrEmptyPayload is returned when the feed answers without a data object.
var ErrEmptyPayload = errors.New("gold trade response has no data")

type GoldServiceClientI interface {
	GetTrade(ctx context.Context) (*TradeInfo, error)
}

// GoldServiceClient fetches current gold prices from the trade feed.
type GoldServiceClient struct {
	API        *requests.ExternalAPIService
	BaseURL    string
	MaxRetries uint64
	RetryBase  time.Duration
	Logger     *logrus.Logger
}

// NewClient creates a new instance of GoldServiceClient
func NewClient(cfg *config.Config, logger *logrus.Logger) *GoldServiceClient {
	goldCfg := cfg.ExternalClients.Gold
	return &GoldServiceClient{
		API:        requests.NewExternalAPIService(nil, goldCfg.Timeout),
		BaseURL:    strings.TrimRight(goldCfg.BaseURL, "/"),
		MaxRetries: goldCfg.MaxRetries,
		RetryBase:  goldCfg.RetryBase,
		Logger:     logger,
	}
}

// GetTrade returns the full set of price points, or an error. It never returns
// a partially decoded payload.
func (c *GoldServiceClient) GetTrade(ctx context.Context) (*TradeInfo, error) {
	base := c.RetryBase
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(c.MaxRetries, retry.NewExponential(base))

	var info *TradeInfo
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result, err := c.fetchTrade(ctx)
		if err != nil {
			if isRetryable(err) {
				c.logger().WithError(err).WithField("attempt", attempt).Warn("gold trade fetch failed, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		info = result
		return nil
	})
	if err != nil {
		c.logger().WithError(err).WithField("attempts", attempt).Error("gold trade fetch failed")
		return nil, fmt.Errorf("fetching gold trade: %w", err)
	}
	return info, nil
}

func (c *GoldServiceClient) fetchTrade(ctx context.Context) (*TradeInfo, error) {
	resp, err := c.API.Get(ctx, c.BaseURL+tradePath, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var tradeResponse GetTradeResponse
	if err := json.Unmarshal(responseBody, &tradeResponse); err != nil {
		return nil, fmt.Errorf("decoding gold trade response: %w", err)
	}
	if tradeResponse.Data == nil {
		return nil, ErrEmptyPayload
	}
	return tradeResponse.Data, nil
}

func (c *GoldServiceClient) logger() *logrus.Logger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func isRetryable(err error) bool {
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code >= http.StatusInternalServerError || httpErr.Code == http.StatusTooManyRequests
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
