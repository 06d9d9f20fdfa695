package twilio

import "slices"

// Message is one of SMSMessage, MMSMessage, NotifyMessage or CallMessage.
// The set is closed: only types in this package satisfy it.
type Message interface {
	// Content is the message body, or the TwiML URL for calls.
	Content() string

	isMessage()
}

// SMSMessage is a plain text message sent through the Messages API.
//
// Setters use value receivers and return a modified copy, so a message handed
// to the dispatcher can never change underneath it.
type SMSMessage struct {
	content              string
	from                 string
	statusCallback       Optional[string]
	statusCallbackMethod Optional[string]
	applicationSID       Optional[string]
	maxPrice             Optional[float32]
	provideFeedback      Optional[bool]
	validityPeriod       Optional[int]
}

// NewSMSMessage creates an SMS message with the given body.
func NewSMSMessage(content string) SMSMessage {
	return SMSMessage{content: content}
}

func (SMSMessage) isMessage() {}

// Content returns the message body.
func (m SMSMessage) Content() string { return m.content }

// From returns the sender set on the message, if any.
func (m SMSMessage) From() string { return m.from }

// WithContent returns a copy with the body replaced.
func (m SMSMessage) WithContent(content string) SMSMessage {
	m.content = content
	return m
}

// WithFrom returns a copy sent from the given number or sender name.
func (m SMSMessage) WithFrom(from string) SMSMessage {
	m.from = from
	return m
}

// WithStatusCallback returns a copy reporting delivery status to url.
func (m SMSMessage) WithStatusCallback(url string) SMSMessage {
	m.statusCallback = Some(url)
	return m
}

// WithStatusCallbackMethod returns a copy using method for status callbacks.
func (m SMSMessage) WithStatusCallbackMethod(method string) SMSMessage {
	m.statusCallbackMethod = Some(method)
	return m
}

// WithApplicationSID returns a copy bound to a TwiML application.
func (m SMSMessage) WithApplicationSID(sid string) SMSMessage {
	m.applicationSID = Some(sid)
	return m
}

// WithMaxPrice returns a copy capped at the given price per segment.
func (m SMSMessage) WithMaxPrice(price float32) SMSMessage {
	m.maxPrice = Some(price)
	return m
}

// WithProvideFeedback returns a copy that asks Twilio to track delivery feedback.
func (m SMSMessage) WithProvideFeedback(feedback bool) SMSMessage {
	m.provideFeedback = Some(feedback)
	return m
}

// WithValidityPeriod returns a copy that expires after seconds in the queue.
func (m SMSMessage) WithValidityPeriod(seconds int) SMSMessage {
	m.validityPeriod = Some(seconds)
	return m
}

// WithMediaURLs promotes the message to an MMS carrying the given media.
func (m SMSMessage) WithMediaURLs(urls ...string) MMSMessage {
	return MMSMessage{SMSMessage: m}.WithMediaURLs(urls...)
}

func (m SMSMessage) field(name string) (any, bool) {
	switch name {
	case ParamStatusCallback:
		return m.statusCallback.any()
	case ParamStatusCallbackMethod:
		return m.statusCallbackMethod.any()
	case ParamApplicationSID:
		return m.applicationSID.any()
	case ParamMaxPrice:
		return m.maxPrice.any()
	case ParamProvideFeedback:
		return m.provideFeedback.any()
	case ParamValidityPeriod:
		return m.validityPeriod.any()
	}
	return nil, false
}

// MMSMessage is an SMS message that also carries media attachments.
type MMSMessage struct {
	SMSMessage
	mediaURLs Optional[[]string]
}

// NewMMSMessage creates an MMS message with the given body and media URLs.
func NewMMSMessage(content string, mediaURLs ...string) MMSMessage {
	return NewSMSMessage(content).WithMediaURLs(mediaURLs...)
}

// MediaURLs returns a copy of the media attached to the message.
func (m MMSMessage) MediaURLs() []string {
	urls, _ := m.mediaURLs.Get()
	return slices.Clone(urls)
}

// WithMediaURLs returns a copy carrying urls as its media.
func (m MMSMessage) WithMediaURLs(urls ...string) MMSMessage {
	m.mediaURLs = Some(slices.Clone(urls))
	return m
}

// WithContent returns a copy with the body replaced.
func (m MMSMessage) WithContent(content string) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithContent(content)
	return m
}

// WithFrom returns a copy sent from the given number.
func (m MMSMessage) WithFrom(from string) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithFrom(from)
	return m
}

// WithStatusCallback returns a copy reporting delivery status to url.
func (m MMSMessage) WithStatusCallback(url string) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithStatusCallback(url)
	return m
}

// WithStatusCallbackMethod returns a copy using method for status callbacks.
func (m MMSMessage) WithStatusCallbackMethod(method string) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithStatusCallbackMethod(method)
	return m
}

// WithApplicationSID returns a copy bound to a TwiML application.
func (m MMSMessage) WithApplicationSID(sid string) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithApplicationSID(sid)
	return m
}

// WithMaxPrice returns a copy capped at the given price.
func (m MMSMessage) WithMaxPrice(price float32) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithMaxPrice(price)
	return m
}

// WithProvideFeedback returns a copy that asks Twilio to track delivery feedback.
func (m MMSMessage) WithProvideFeedback(feedback bool) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithProvideFeedback(feedback)
	return m
}

// WithValidityPeriod returns a copy that expires after seconds in the queue.
func (m MMSMessage) WithValidityPeriod(seconds int) MMSMessage {
	m.SMSMessage = m.SMSMessage.WithValidityPeriod(seconds)
	return m
}

func (m MMSMessage) field(name string) (any, bool) {
	if name == ParamMediaURL {
		if !m.mediaURLs.IsSet() {
			return nil, false
		}
		urls, _ := m.mediaURLs.Get()
		return slices.Clone(urls), true
	}
	return m.SMSMessage.field(name)
}

// NotifyMessage is a templated broadcast sent through a Notify service.
type NotifyMessage struct {
	content    string
	serviceSID string
}

// NewNotifyMessage creates a Notify message with the given body.
func NewNotifyMessage(content string) NotifyMessage {
	return NotifyMessage{content: content}
}

func (NotifyMessage) isMessage() {}

// Content returns the notification body.
func (m NotifyMessage) Content() string { return m.content }

// ServiceSID returns the Notify service the message targets, if set.
func (m NotifyMessage) ServiceSID() string { return m.serviceSID }

// WithContent returns a copy with the body replaced.
func (m NotifyMessage) WithContent(content string) NotifyMessage {
	m.content = content
	return m
}

// WithServiceSID returns a copy targeting the given Notify service.
func (m NotifyMessage) WithServiceSID(sid string) NotifyMessage {
	m.serviceSID = sid
	return m
}

// CallMessage places a voice call that fetches TwiML from its content URL.
type CallMessage struct {
	content              string
	from                 string
	statusCallback       Optional[string]
	statusCallbackMethod Optional[string]
	method               Optional[string]
	status               Optional[string]
	fallbackURL          Optional[string]
	fallbackMethod       Optional[string]
}

// NewCallMessage creates a call message that Twilio drives from url.
func NewCallMessage(url string) CallMessage {
	return CallMessage{content: url}
}

func (CallMessage) isMessage() {}

// Content returns the TwiML URL.
func (m CallMessage) Content() string { return m.content }

// From returns the caller id set on the message, if any.
func (m CallMessage) From() string { return m.from }

// WithURL returns a copy fetching TwiML from url.
func (m CallMessage) WithURL(url string) CallMessage {
	m.content = url
	return m
}

// WithFrom returns a copy calling from the given number.
func (m CallMessage) WithFrom(from string) CallMessage {
	m.from = from
	return m
}

// WithStatusCallback returns a copy reporting call progress to url.
func (m CallMessage) WithStatusCallback(url string) CallMessage {
	m.statusCallback = Some(url)
	return m
}

// WithStatusCallbackMethod returns a copy using method for status callbacks.
func (m CallMessage) WithStatusCallbackMethod(method string) CallMessage {
	m.statusCallbackMethod = Some(method)
	return m
}

// WithMethod returns a copy requesting the TwiML URL with method.
func (m CallMessage) WithMethod(method string) CallMessage {
	m.method = Some(method)
	return m
}

// WithStatus returns a copy with the requested call status.
func (m CallMessage) WithStatus(status string) CallMessage {
	m.status = Some(status)
	return m
}

// WithFallbackURL returns a copy that falls back to url when the primary fails.
func (m CallMessage) WithFallbackURL(url string) CallMessage {
	m.fallbackURL = Some(url)
	return m
}

// WithFallbackMethod returns a copy requesting the fallback URL with method.
func (m CallMessage) WithFallbackMethod(method string) CallMessage {
	m.fallbackMethod = Some(method)
	return m
}

func (m CallMessage) field(name string) (any, bool) {
	switch name {
	case ParamStatusCallback:
		return m.statusCallback.any()
	case ParamStatusCallbackMethod:
		return m.statusCallbackMethod.any()
	case ParamMethod:
		return m.method.any()
	case ParamStatus:
		return m.status.any()
	case ParamFallbackURL:
		return m.fallbackURL.any()
	case ParamFallbackMethod:
		return m.fallbackMethod.any()
	}
	return nil, false
}

// Kind names the message variant, for logs and events.
func Kind(msg Message) string {
	switch msg.(type) {
	case SMSMessage, *SMSMessage:
		return "sms"
	case MMSMessage, *MMSMessage:
		return "mms"
	case NotifyMessage, *NotifyMessage:
		return "notify"
	case CallMessage, *CallMessage:
		return "call"
	}
	return "unknown"
}
