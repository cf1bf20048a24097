package events

import (
	"encoding/json"
	"time"

	"subscription-tracker/internal/models"
)

const EventSubscriptionDetected = "subscription.detected"

// SubscriptionDetectedMessage announces a subscription created by detection
type SubscriptionDetectedMessage struct {
	Event          string    `json:"event"`
	SubscriptionID string    `json:"subscription_id"`
	Name           string    `json:"name"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	BillingCycle   string    `json:"billing_cycle"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewSubscriptionDetectedMessage builds the message for subscription
func NewSubscriptionDetectedMessage(subscription *models.Subscription) *SubscriptionDetectedMessage {
	return &SubscriptionDetectedMessage{
		Event:          EventSubscriptionDetected,
		SubscriptionID: subscription.ID.String(),
		Name:           subscription.Name,
		Amount:         subscription.Amount.StringFixed(2),
		Currency:       subscription.Currency,
		BillingCycle:   subscription.BillingCycle,
		Timestamp:      time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SubscriptionDetectedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SubscriptionDetectedMessageFromJSON decodes a message
func SubscriptionDetectedMessageFromJSON(data []byte) (*SubscriptionDetectedMessage, error) {
	var msg SubscriptionDetectedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
