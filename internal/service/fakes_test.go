package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"futures-pnl-bot/internal/dto"
)

type fakeBinanceRepo struct {
	mu     sync.Mutex
	prices map[string]float64
	errs   map[string]error
	calls  map[string]int
}

func newFakeBinanceRepo() *fakeBinanceRepo {
	return &fakeBinanceRepo{
		prices: make(map[string]float64),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeBinanceRepo) GetLastPrice(ctx context.Context, symbol string) (*dto.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[symbol]++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return nil, errors.New("no price configured for " + symbol)
	}
	return &dto.Quote{Symbol: symbol, Price: price, FetchedAt: time.Now()}, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) SendMessage(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
