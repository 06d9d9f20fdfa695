package channel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/twilio-notifier/internal/models"
	"github.com/example/twilio-notifier/internal/twilio"
)

var (
	notifySID = "IS" + strings.Repeat("0", 32)
	appSID    = "AP" + strings.Repeat("f", 32)
)

func ptr[T any](v T) *T { return &v }

func TestFromRequest_SMS(t *testing.T) {
	n, msg, err := FromRequest(models.SendRequest{
		To:                 " +1 (415) 555-2671 ",
		Content:            " hello ",
		From:               "Acme",
		AlphanumericSender: true,
		Options: models.SendOptions{
			StatusCallback:       "https://example.com/cb",
			StatusCallbackMethod: "get",
			ApplicationSID:       appSID,
			MaxPrice:             ptr(float32(0.25)),
			ProvideFeedback:      ptr(true),
			ValidityPeriod:       ptr(60),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "+14155552671", n.RouteNotificationFor(Name))
	assert.True(t, n.CanReceiveAlphanumericSender())

	want := twilio.NewSMSMessage("hello").
		WithFrom("Acme").
		WithStatusCallback("https://example.com/cb").
		WithStatusCallbackMethod("GET").
		WithApplicationSID(appSID).
		WithMaxPrice(0.25).
		WithProvideFeedback(true).
		WithValidityPeriod(60)
	assert.Equal(t, want, msg)
}

func TestFromRequest_MediaPromotesToMMS(t *testing.T) {
	_, msg, err := FromRequest(models.SendRequest{
		To:        "+14155552671",
		MediaURLs: []string{"https://example.com/a.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, "mms", twilio.Kind(msg))
	assert.Equal(t, []string{"https://example.com/a.png"}, msg.(twilio.MMSMessage).MediaURLs())

	_, msg, err = FromRequest(models.SendRequest{
		Type:      "sms",
		To:        "+14155552671",
		Content:   "pic",
		MediaURLs: []string{"https://example.com/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "mms", twilio.Kind(msg))
}

func TestFromRequest_Notify(t *testing.T) {
	_, msg, err := FromRequest(models.SendRequest{
		Type:       "NOTIFY",
		To:         "+14155552671",
		Content:    "ping",
		ServiceSID: notifySID,
	})

	require.NoError(t, err)
	assert.Equal(t, twilio.NewNotifyMessage("ping").WithServiceSID(notifySID), msg)
}

func TestFromRequest_Call(t *testing.T) {
	_, msg, err := FromRequest(models.SendRequest{
		Type:    "call",
		To:      "+14155552671",
		Content: "https://example.com/voice.xml",
		From:    "+31612345678",
		Options: models.SendOptions{
			Method:         "get",
			Status:         "queued",
			FallbackURL:    "https://example.com/fallback.xml",
			FallbackMethod: "POST",
		},
	})

	require.NoError(t, err)
	want := twilio.NewCallMessage("https://example.com/voice.xml").
		WithFrom("+31612345678").
		WithMethod("GET").
		WithStatus("queued").
		WithFallbackURL("https://example.com/fallback.xml").
		WithFallbackMethod("POST")
	assert.Equal(t, want, msg)
}

func TestFromRequest_Invalid(t *testing.T) {
	cases := map[string]models.SendRequest{
		"bad recipient":         {To: "12345", Content: "hi"},
		"empty sms":             {To: "+14155552671", Content: "  "},
		"unknown type":          {Type: "fax", To: "+14155552671", Content: "hi"},
		"mms without media":     {Type: "mms", To: "+14155552671", Content: "hi"},
		"bad media url":         {To: "+14155552671", MediaURLs: []string{"ftp://x"}},
		"too long":              {To: "+14155552671", Content: strings.Repeat("a", MaxContentRunes+1)},
		"bad status callback":   {To: "+14155552671", Content: "hi", Options: models.SendOptions{StatusCallback: "nope"}},
		"bad callback method":   {To: "+14155552671", Content: "hi", Options: models.SendOptions{StatusCallbackMethod: "PUT"}},
		"bad application sid":   {To: "+14155552671", Content: "hi", Options: models.SendOptions{ApplicationSID: notifySID}},
		"negative price":        {To: "+14155552671", Content: "hi", Options: models.SendOptions{MaxPrice: ptr(float32(-1))}},
		"validity out of range": {To: "+14155552671", Content: "hi", Options: models.SendOptions{ValidityPeriod: ptr(0)}},
		"call option on sms":    {To: "+14155552671", Content: "hi", Options: models.SendOptions{Method: "GET"}},
		"sms option on call":    {Type: "call", To: "+14155552671", Content: "https://example.com", Options: models.SendOptions{MaxPrice: ptr(float32(1))}},
		"call without url":      {Type: "call", To: "+14155552671", Content: "say hi"},
		"call with bad from":    {Type: "call", To: "+14155552671", Content: "https://example.com", From: "Acme"},
		"call with media":       {Type: "call", To: "+14155552671", Content: "https://example.com", MediaURLs: []string{"https://example.com/a.png"}},
		"notify without body":   {Type: "notify", To: "+14155552671"},
		"notify with options":   {Type: "notify", To: "+14155552671", Content: "hi", Options: models.SendOptions{Status: "x"}},
		"notify with from":      {Type: "notify", To: "+14155552671", Content: "hi", From: "+1"},
		"notify bad service":    {Type: "notify", To: "+14155552671", Content: "hi", ServiceSID: "MG" + strings.Repeat("0", 32)},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, msg, err := FromRequest(req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Nil(t, msg)
		})
	}
}
