package service

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type ledgerService struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewLedgerService(store Store, notifier Notifier) LedgerService {
	return &ledgerService{store: store, notifier: notifier, now: time.Now}
}

func (s *ledgerService) GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	return s.store.Transactions().ListByUser(ctx, userID, page, pageSize)
}

func (s *ledgerService) RequestWithdrawal(ctx context.Context, userID int32, amount decimal.Decimal) (*domain.WithdrawalRequest, error) {
	logger.EnterMethod("ledgerService.RequestWithdrawal", "userID", userID, "amount", amount.String())

	if !amount.IsPositive() {
		return nil, apperror.Validation("Withdrawal amount must be greater than zero")
	}

	var req *domain.WithdrawalRequest
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		user, err := tx.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return apperror.Validation("Insufficient balance")
		}

		req = &domain.WithdrawalRequest{
			UserID: userID,
			Amount: amount,
			Status: domain.WithdrawalStatusPending,
		}
		if err := tx.Withdrawals().Create(ctx, req); err != nil {
			return err
		}
		if err := tx.Users().UpdateBalance(ctx, userID, user.Balance.Sub(amount)); err != nil {
			return err
		}

		wid := req.ID
		return tx.Transactions().Create(ctx, &domain.Transaction{
			UserID:       userID,
			WithdrawalID: &wid,
			Amount:       amount.Neg(),
			Type:         domain.TransactionTypeWithdrawal,
			Status:       domain.TransactionStatusPending,
			Description:  fmt.Sprintf("Withdrawal request #%d", req.ID),
		})
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.RequestWithdrawal", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.RequestWithdrawal", "withdrawalID", req.ID)
	return req, nil
}

func (s *ledgerService) ProcessWithdrawal(ctx context.Context, withdrawalID int32, approve bool) (*domain.WithdrawalRequest, error) {
	logger.EnterMethod("ledgerService.ProcessWithdrawal", "withdrawalID", withdrawalID, "approve", approve)

	now := s.now()
	var req *domain.WithdrawalRequest
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		var err error
		req, err = tx.Withdrawals().GetByIDForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if req.Status != domain.WithdrawalStatusPending {
			return apperror.Validation("Withdrawal request already processed")
		}

		if approve {
			req.Status = domain.WithdrawalStatusProcessed
		} else {
			req.Status = domain.WithdrawalStatusRejected
		}
		req.ProcessedAt = &now
		if err := tx.Withdrawals().UpdateStatus(ctx, req.ID, req.Status, now); err != nil {
			return err
		}

		if approve {
			return tx.Transactions().UpdateStatusByWithdrawal(ctx, req.ID, domain.TransactionStatusCompleted)
		}

		if err := tx.Transactions().UpdateStatusByWithdrawal(ctx, req.ID, domain.TransactionStatusFailed); err != nil {
			return err
		}
		user, err := tx.Users().GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}
		return tx.Users().UpdateBalance(ctx, user.ID, user.Balance.Add(req.Amount))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.ProcessWithdrawal", err, "withdrawalID", withdrawalID)
		return nil, err
	}

	msg := fmt.Sprintf("Your withdrawal of %s TK has been processed", req.Amount.StringFixed(2))
	if !approve {
		msg = fmt.Sprintf("Your withdrawal of %s TK was rejected and returned to your balance", req.Amount.StringFixed(2))
	}
	s.notifier.Notify(ctx, req.UserID, domain.NotificationTypeSystem, msg)

	logger.ExitMethod("ledgerService.ProcessWithdrawal", "withdrawalID", req.ID, "status", req.Status)
	return req, nil
}

func (s *ledgerService) ListWithdrawals(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	return s.store.Withdrawals().ListByUser(ctx, userID, page, pageSize)
}

func (s *ledgerService) ListAllWithdrawals(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	return s.store.Withdrawals().List(ctx, status, page, pageSize)
}
