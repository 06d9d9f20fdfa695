package twilio

import (
	"context"

	"github.com/stretchr/testify/mock"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	notify "github.com/twilio/twilio-go/rest/notify/v1"
)

// ClientMock is a mock implementation of the Client interface.
type ClientMock struct {
	mock.Mock
}

func (m *ClientMock) CreateMessage(ctx context.Context, to string, params Params) (*Result, error) {
	args := m.Called(ctx, to, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func (m *ClientMock) CreateCall(ctx context.Context, to, from string, params Params) (*Result, error) {
	args := m.Called(ctx, to, from, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func (m *ClientMock) CreateNotification(ctx context.Context, serviceSID string, params Params) (*Result, error) {
	args := m.Called(ctx, serviceSID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

// sdkMock stands in for the twilio-go api and notify services.
type sdkMock struct {
	mock.Mock
}

func (m *sdkMock) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openapi.ApiV2010Message), args.Error(1)
}

func (m *sdkMock) CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openapi.ApiV2010Call), args.Error(1)
}

func (m *sdkMock) CreateNotification(serviceSid string, params *notify.CreateNotificationParams) (*notify.NotifyV1Notification, error) {
	args := m.Called(serviceSid, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notify.NotifyV1Notification), args.Error(1)
}
