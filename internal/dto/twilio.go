package dto

import "encoding/xml"

// TwilioInboundMessage is the form-encoded payload Twilio posts for every
// incoming WhatsApp message.
type TwilioInboundMessage struct {
	From string `form:"From" validate:"required"`
	Body string `form:"Body"`
}

// TwiMLResponse is the reply document Twilio renders back to the sender.
type TwiMLResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func NewTwiMLResponse(message string) *TwiMLResponse {
	return &TwiMLResponse{Message: message}
}
