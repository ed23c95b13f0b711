package models

// NotificationMessage is the envelope consumed from the queue. It wraps the
// caller identity together with an email notification payload.
type NotificationMessage struct {
	Token       string            `json:"token"`
	ServiceName string            `json:"serviceName"`
	Message     EmailNotification `json:"message"`
}

// EmailNotification describes one email to render and deliver
type EmailNotification struct {
	Subject      string         `json:"subject,omitempty"`
	TemplateName string         `json:"templateName"`
	Params       map[string]any `json:"params"`
	From         *EmailAddress  `json:"from,omitempty"`
	To           []string       `json:"to"`
	Cc           []string       `json:"cc,omitempty"`
}

// EmailAddress is a sender address with an optional display name
type EmailAddress struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName"`
}
