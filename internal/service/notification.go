package service

import (
	"context"
	"strings"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService
}

// NewNotificationService builds the notification sink. emailSvc may be nil,
// in which case only in-app notifications are written.
func NewNotificationService(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc EmailService) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID int32, notifType domain.NotificationType, message string) {
	n := &domain.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		logger.ErrorContext(ctx, "Failed to create notification", "userID", userID, "type", notifType, "error", err)
	}

	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping notification email, user lookup failed", "userID", userID, "error", err)
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.emailSvc.SendNotificationEmail(ctx, user.Email, user.Name, subjectFor(notifType), message); err != nil {
		logger.ErrorContext(ctx, "Failed to send notification email", "userID", userID, "type", notifType, "error", err)
	}
}

func subjectFor(t domain.NotificationType) string {
	switch t {
	case domain.NotificationTypeOrderConfirmation:
		return "Your ShareWardrobe order"
	case domain.NotificationTypeRentalReminder:
		return "Rental return reminder"
	case domain.NotificationTypeNegotiation:
		return "Offer update"
	default:
		return "ShareWardrobe: " + strings.ReplaceAll(string(t), "_", " ")
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.noteRepo.List(ctx, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}
