package domain

import "time"

type NotificationType string

const (
	NotificationTypeOrderConfirmation NotificationType = "order_confirmation"
	NotificationTypeRentalReminder    NotificationType = "rental_reminder"
	NotificationTypeNegotiation       NotificationType = "negotiation"
	NotificationTypeSystem            NotificationType = "system"
)

type Notification struct {
	ID        int32            `json:"id"`
	UserID    int32            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
