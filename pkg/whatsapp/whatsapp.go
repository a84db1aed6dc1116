package whatsapp

import (
	"context"
	"fmt"

	"futures-pnl-bot/config"
	"futures-pnl-bot/pkg/httpclient"
	"futures-pnl-bot/pkg/logger"

	"golang.org/x/time/rate"
)

// Notifier pushes a message to a single WhatsApp recipient.
type Notifier interface {
	SendMessage(ctx context.Context, to, body string) error
}

type twilioMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type twilioClient struct {
	cfg        *config.TwilioConfig
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	limiter    *rate.Limiter
}

// NewClient builds a Twilio-backed WhatsApp notifier. Outbound sends go through
// a global rate limiter so a burst of alerts in one monitor cycle stays within
// the messaging quota.
func NewClient(cfg *config.TwilioConfig, log *logger.Logger) Notifier {
	return &twilioClient{
		cfg: cfg,
		log: log,
		httpClient: httpclient.New(cfg.BaseURL, cfg.Timeout,
			httpclient.WithBasicAuth(cfg.AccountSID, cfg.AuthToken)),
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxRequestPerSecond), cfg.MaxRequestPerSecond),
	}
}

func (t *twilioClient) SendMessage(ctx context.Context, to, body string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", t.cfg.AccountSID)
	formData := map[string]string{
		"From": t.cfg.WhatsAppFrom,
		"To":   to,
		"Body": body,
	}

	var result twilioMessageResponse
	resp, err := t.httpClient.PostForm(ctx, endpoint, formData, &result)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.log.Error("Twilio API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return fmt.Errorf("twilio api returned status: %d", resp.StatusCode)
	}

	t.log.Debug("WhatsApp message sent",
		logger.StringField("sid", result.SID),
		logger.StringField("status", result.Status))
	return nil
}
