package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"pitfinder-backend/internal/models"
)

// MessageSender is the part of the FCM client the notifier needs
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client MessageSender
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from
// base64-encoded service account JSON
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

// NewFCMServiceWithSender wraps an existing sender
func NewFCMServiceWithSender(sender MessageSender) *FCMService {
	return &FCMService{client: sender}
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendNotice pushes a map screen notice, e.g. "Location Saved"
func (s *FCMService) SendNotice(ctx context.Context, token string, notice models.Notice) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notice.Title,
			Body:  notice.Body,
		},
		Data: map[string]string{
			"type": "notice",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM notification sent successfully: %s", response)
	return nil
}
