package twilio

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	notify "github.com/twilio/twilio-go/rest/notify/v1"
)

func setupRestClient(t *testing.T) (*sdkMock, *RestClient) {
	t.Helper()

	sdk := new(sdkMock)
	return sdk, newRestClient(sdk, sdk, zerolog.Nop())
}

func TestNewRestClient_Validation(t *testing.T) {
	_, err := NewRestClient(Credentials{AuthToken: "token"}, zerolog.Nop())
	require.Error(t, err)

	_, err = NewRestClient(Credentials{AccountSID: "AC123"}, zerolog.Nop())
	require.Error(t, err)

	rc, err := NewRestClient(Credentials{AccountSID: "AC123", Username: "SK123", Password: "secret"}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, rc.api)
	assert.NotNil(t, rc.notify)
}

func TestRestClient_CreateMessageTranslatesParams(t *testing.T) {
	sdk, rc := setupRestClient(t)
	sid := "SM123"

	sdk.On("CreateMessage", mock.MatchedBy(func(p *openapi.CreateMessageParams) bool {
		return *p.To == testTo &&
			*p.From == testFrom &&
			*p.Body == "hi" &&
			*p.MessagingServiceSid == "MG1" &&
			*p.StatusCallback == "https://example.com/cb" &&
			*p.MaxPrice == float32(0.5) &&
			*p.ProvideFeedback &&
			*p.ValidityPeriod == 30 &&
			len(*p.MediaUrl) == 1
	})).Return(&openapi.ApiV2010Message{Sid: &sid}, nil).Once()

	res, err := rc.CreateMessage(context.Background(), testTo, Params{
		ParamFrom:                 testFrom,
		ParamBody:                 "hi",
		ParamMessagingServiceSID:  "MG1",
		ParamStatusCallback:       "https://example.com/cb",
		ParamStatusCallbackMethod: "POST",
		ParamMaxPrice:             float32(0.5),
		ParamProvideFeedback:      true,
		ParamValidityPeriod:       30,
		ParamMediaURL:             []string{"https://example.com/a.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, "SM123", res.SID)
	sdk.AssertExpectations(t)
}

func TestRestClient_CreateMessageRejectsWrongType(t *testing.T) {
	sdk, rc := setupRestClient(t)

	_, err := rc.CreateMessage(context.Background(), testTo, Params{ParamMaxPrice: "cheap"})

	require.Error(t, err)
	sdk.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestRestClient_CreateMessageReturnsSDKError(t *testing.T) {
	sdk, rc := setupRestClient(t)
	restErr := &client.TwilioRestError{Code: 21614, Status: 400}
	sdk.On("CreateMessage", mock.Anything).Return(nil, restErr).Once()

	_, err := rc.CreateMessage(context.Background(), testTo, Params{ParamFrom: testFrom})

	assert.Same(t, restErr, err)
}

func TestRestClient_CreateCallTranslatesParams(t *testing.T) {
	sdk, rc := setupRestClient(t)
	sid := "CA123"

	sdk.On("CreateCall", mock.MatchedBy(func(p *openapi.CreateCallParams) bool {
		return *p.To == testTo &&
			*p.From == testFrom &&
			*p.Url == "http://example.com" &&
			*p.Method == "GET" &&
			*p.FallbackUrl == "http://example.com/fallback"
	})).Return(&openapi.ApiV2010Call{Sid: &sid}, nil).Once()

	res, err := rc.CreateCall(context.Background(), testTo, testFrom, Params{
		ParamURL:         "http://example.com",
		ParamMethod:      "GET",
		ParamStatus:      "queued",
		ParamFallbackURL: "http://example.com/fallback",
	})

	require.NoError(t, err)
	assert.Equal(t, "CA123", res.SID)
	sdk.AssertExpectations(t)
}

func TestRestClient_CreateNotificationWrapsBinding(t *testing.T) {
	sdk, rc := setupRestClient(t)
	sid := "NT123"
	binding := smsBinding(testTo)

	sdk.On("CreateNotification", "IS123", mock.MatchedBy(func(p *notify.CreateNotificationParams) bool {
		return len(*p.ToBinding) == 1 && (*p.ToBinding)[0] == binding && *p.Body == "hello"
	})).Return(&notify.NotifyV1Notification{Sid: &sid}, nil).Once()

	res, err := rc.CreateNotification(context.Background(), "IS123", Params{
		ParamToBinding: binding,
		ParamBody:      "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "NT123", res.SID)
	sdk.AssertExpectations(t)
}

func TestRestClient_CancelledContext(t *testing.T) {
	sdk, rc := setupRestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rc.CreateMessage(ctx, testTo, Params{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = rc.CreateCall(ctx, testTo, testFrom, Params{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = rc.CreateNotification(ctx, "IS123", Params{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, sdk.Calls)
}
