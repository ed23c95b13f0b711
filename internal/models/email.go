package models

import "errors"

// EmailMessage is a fully rendered email ready for delivery.
// Construct it with NewEmailMessage; the fields are not mutated afterwards.
type EmailMessage struct {
	Subject string
	Body    string
	From    *EmailAddress
	To      []string
	Cc      []string
}

// NewEmailMessage validates and assembles a rendered email
func NewEmailMessage(subject, body string, from *EmailAddress, to, cc []string) (*EmailMessage, error) {
	if from == nil {
		return nil, errors.New("from address is required")
	}
	if len(to) == 0 {
		return nil, errors.New("to should contain recipients")
	}

	return &EmailMessage{
		Subject: subject,
		Body:    body,
		From:    from,
		To:      to,
		Cc:      cc,
	}, nil
}
