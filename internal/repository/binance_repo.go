package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"futures-pnl-bot/config"
	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/pkg/cache"
	"futures-pnl-bot/pkg/httpclient"
	"futures-pnl-bot/pkg/logger"

	"golang.org/x/time/rate"
)

const quotePriceCacheKey = "binance_price:%s"

// BinanceRepository fetches live futures prices. Every failure mode (network
// error, timeout, non-OK status, malformed body) surfaces as an error; callers
// treat any error as "quote unavailable" and skip their evaluation.
type BinanceRepository interface {
	GetLastPrice(ctx context.Context, symbol string) (*dto.Quote, error)
}

type binanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
}

func NewBinanceRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) BinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &binanceRepository{
		httpClient:     httpclient.New(cfg.Binance.BaseURL, cfg.Binance.Timeout),
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: requestLimiter,
	}
}

func (r *binanceRepository) GetLastPrice(ctx context.Context, symbol string) (*dto.Quote, error) {
	cacheKey := fmt.Sprintf(quotePriceCacheKey, symbol)
	if quote, ok := cache.GetTyped[*dto.Quote](r.inmemoryCache, cacheKey); ok {
		return quote, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/fapi/v1/ticker/price"
	queryParams := map[string]string{
		"symbol": symbol,
	}

	var respData map[string]string
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, &respData)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last price from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for price",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	price, err := strconv.ParseFloat(respData["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price from binance: %w", err)
	}

	quote := &dto.Quote{
		Symbol:    symbol,
		Price:     price,
		FetchedAt: time.Now(),
	}

	// Short TTL so bursts of status commands between cycles reuse one fetch.
	r.inmemoryCache.Set(cacheKey, quote, r.cfg.Cache.QuoteExpiration)

	return quote, nil
}
