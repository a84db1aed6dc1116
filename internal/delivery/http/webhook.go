package http

import (
	"net/http"

	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe. It never touches the session store.
func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "✅ WhatsApp Futures Bot is Running!")
}

// Webhook receives one inbound WhatsApp message from Twilio and answers with a
// TwiML reply document.
func (h *HttpAPIHandler) Webhook(c echo.Context) error {
	var inbound dto.TwilioInboundMessage
	if err := c.Bind(&inbound); err != nil {
		h.log.Error("Cannot bind webhook payload", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.validator.Struct(&inbound); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	reply := h.service.ConversationService.HandleMessage(c.Request().Context(), inbound.From, inbound.Body)

	return c.XML(http.StatusOK, dto.NewTwiMLResponse(reply))
}
