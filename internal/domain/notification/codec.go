package notification

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when an inbound push payload does not match
// the expected nested shape. It is the single declared error condition for
// the inbound path.
var ErrMalformedPayload = errors.New("notification: malformed inbound payload")

// The outbound and inbound wire shapes are asymmetric: the push backend
// accepts a send request wrapped in message/apns/payload, while a delivered
// notification reaches the device flattened to email/aps. The two directions
// are therefore mapped independently here.

type wireAlert struct {
	Title        string   `json:"title,omitempty"`
	Body         string   `json:"body,omitempty"`
	TitleLocKey  string   `json:"title-loc-key,omitempty"`
	LocKey       string   `json:"loc-key,omitempty"`
	TitleLocArgs []string `json:"title-loc-args,omitempty"`
	LocArgs      []string `json:"loc-args,omitempty"`
}

type wireAPS struct {
	Category string     `json:"category"`
	Alert    *wireAlert `json:"alert"`
}

type outboundData struct {
	Email string `json:"email"`
}

type outboundAPNS struct {
	Payload struct {
		APS wireAPS `json:"aps"`
	} `json:"payload"`
}

type outboundMessage struct {
	Topic string       `json:"topic"`
	Data  outboundData `json:"data"`
	APNS  outboundAPNS `json:"apns"`
}

type outboundPayload struct {
	Message outboundMessage `json:"message"`
}

type inboundPayload struct {
	Email   *string         `json:"email"`
	APS     *wireAPS        `json:"aps"`
	Message *inboundWrapper `json:"message"`
}

// inboundWrapper covers payloads that still carry the outbound send wrapper,
// i.e. envelopes that never passed through the push backend's deliver cycle.
type inboundWrapper struct {
	Data *outboundData `json:"data"`
	APNS *struct {
		Payload *struct {
			APS *wireAPS `json:"aps"`
		} `json:"payload"`
	} `json:"apns"`
}

// EncodeOutbound serializes the envelope into the push backend's send shape.
// The resolved literal title and body are always emitted; localization keys
// and args ride alongside when present.
func (e Envelope) EncodeOutbound() ([]byte, error) {
	alert := wireAlert{Title: e.Title, Body: e.Body}
	if e.LocalizedTitle != "" {
		alert.TitleLocKey = e.LocalizedTitle
		alert.TitleLocArgs = []string{e.UserName}
	}
	if e.LocalizedBody != "" {
		alert.LocKey = e.LocalizedBody
		alert.LocArgs = []string{e.UserName}
	}

	var out outboundPayload
	out.Message.Topic = e.Topic
	out.Message.Data.Email = e.UserEmail
	out.Message.APNS.Payload.APS = wireAPS{Category: string(e.Category), Alert: &alert}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode outbound notification: %w", err)
	}
	return data, nil
}

// DecodeInbound reconstructs an envelope from a delivered push payload.
// Localized keys win over literal alert text and are resolved against the
// catalog with the first element of the corresponding args array (empty
// string when absent). The inbound shape carries no topic, so Topic is always
// empty after decode.
func DecodeInbound(payload []byte) (Envelope, error) {
	var in inboundPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	email := in.Email
	aps := in.APS
	if in.Message != nil {
		if in.Message.Data != nil {
			email = &in.Message.Data.Email
		}
		if in.Message.APNS != nil && in.Message.APNS.Payload != nil {
			aps = in.Message.APNS.Payload.APS
		}
	}

	if email == nil {
		return Envelope{}, fmt.Errorf("%w: missing email", ErrMalformedPayload)
	}
	if aps == nil || aps.Alert == nil {
		return Envelope{}, fmt.Errorf("%w: missing aps alert", ErrMalformedPayload)
	}
	alert := aps.Alert

	userName := ""
	if len(alert.LocArgs) > 0 {
		userName = alert.LocArgs[0]
	} else if len(alert.TitleLocArgs) > 0 {
		userName = alert.TitleLocArgs[0]
	}

	title := alert.Title
	if alert.TitleLocKey != "" {
		title = Localize(alert.TitleLocKey, userName)
	}
	body := alert.Body
	if alert.LocKey != "" {
		body = Localize(alert.LocKey, userName)
	}

	return Envelope{
		Title:          title,
		Body:           body,
		LocalizedTitle: alert.TitleLocKey,
		LocalizedBody:  alert.LocKey,
		Category:       ParseCategory(aps.Category),
		UserName:       userName,
		UserEmail:      *email,
	}, nil
}
