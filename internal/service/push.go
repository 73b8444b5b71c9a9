package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmPushSender delivers pushes through Firebase Cloud Messaging to
// the mobile app.
type fcmPushSender struct {
	client *messaging.Client
}

func NewFCMPushSender(ctx context.Context, credentialsFile string) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}
	return &fcmPushSender{client: client}, nil
}

func (s *fcmPushSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}

// noopPushSender is used when push delivery is disabled in config.
type noopPushSender struct{}

func NewNoopPushSender() PushSender {
	return &noopPushSender{}
}

func (s *noopPushSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	return nil
}
