/*
settlement.go - Payable/receivable settlement poster

PURPOSE:
  Settling an open item delegates to the payment poster with the direction
  derived from the item kind (payable -> disbursement, receivable ->
  receipt), then marks the item paid and stores the payment id.
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// SettlePayableReceivable pays off an open item through a delegated payment.
func (s *Service) SettlePayableReceivable(ctx context.Context, id int64, accountID int64, date string) (SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.stores.PayablesReceivable.Get(ctx, id)
	if err != nil {
		return SettlementResult{}, err
	}
	if item.Status == PRStatusPaid {
		return SettlementResult{}, &ledger.ValidationError{Field: "status", Reason: "item is already settled"}
	}

	payment, err := s.createPayment(ctx, Payment{
		Date:                date,
		Amount:              item.Amount,
		Direction:           item.SettlementDirection(),
		Description:         item.Description,
		EntityID:            item.EntityID,
		AccountID:           accountID,
		PayableReceivableID: item.ID,
	})
	if err != nil {
		return SettlementResult{}, err
	}

	item.Status = PRStatusPaid
	item.PaymentID = payment.Payment.ID
	if _, err := s.stores.PayablesReceivable.Put(ctx, item); err != nil {
		return SettlementResult{}, err
	}
	return SettlementResult{Item: item, Payment: payment}, nil
}
