/*
payroll.go - Payslip payment and the scheduled payslip generator

PURPOSE:
  Two operations live here:

  PayPayslip: pays one pending payslip by delegating to the payment poster
  (disbursement from the given account), then marks the payslip paid and
  stores the returned payment id. No ledger rows exist for a payslip until
  this happens.

  GenerateDuePayslips: the due-date scanner. Given "today", it finds every
  employee whose next payment date has arrived and emits a payslip for the
  due date's pay period, then advances the employee's next-due date by one
  calendar month (same day-of-month, clamped to valid dates).

IDEMPOTENCE:
  The pay-period label is the due date's "Y/M". If a payslip already exists
  for employee+period (e.g. a replay against restored data) none is
  created, but the due date still advances - otherwise the duplicate guard
  would stall that employee forever.
*/
package clinic

import (
	"context"
	"fmt"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// PayPayslip pays a pending payslip through a delegated disbursement.
func (s *Service) PayPayslip(ctx context.Context, payslipID, accountID int64, date string) (PayslipPaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slip, err := s.stores.Payslips.Get(ctx, payslipID)
	if err != nil {
		return PayslipPaymentResult{}, err
	}
	if slip.Status == PayslipPaid {
		return PayslipPaymentResult{}, &ledger.ValidationError{Field: "status", Reason: "payslip is already paid"}
	}

	payment, err := s.createPayment(ctx, Payment{
		Date:        date,
		Amount:      slip.NetPay,
		Direction:   DirectionDisbursement,
		Description: fmt.Sprintf("payroll %s", slip.Period),
		EntityID:    slip.EmployeeID,
		AccountID:   accountID,
	})
	if err != nil {
		return PayslipPaymentResult{}, err
	}

	slip.Status = PayslipPaid
	slip.PaymentID = payment.Payment.ID
	if _, err := s.stores.Payslips.Put(ctx, slip); err != nil {
		return PayslipPaymentResult{}, err
	}
	return PayslipPaymentResult{Payslip: slip, Payment: payment}, nil
}

// GenerateDuePayslips scans all employees and emits payslips for everyone
// whose next payment date is at or before today. At most one payslip per
// employee per call; the next-due date advances one calendar month.
func (s *Service) GenerateDuePayslips(ctx context.Context, today string) (PayrollRunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todayKey := ledger.ToSortable(today)
	if todayKey == 0 {
		return PayrollRunResult{}, &ledger.ValidationError{Field: "today", Reason: fmt.Sprintf("unparseable date %q", today)}
	}

	employees, err := s.stores.Employees.List(ctx)
	if err != nil {
		return PayrollRunResult{}, err
	}

	var result PayrollRunResult
	for _, emp := range employees {
		dueKey := ledger.ToSortable(emp.NextPaymentDate)
		if dueKey == 0 || dueKey > todayKey {
			continue
		}

		period := ledger.MonthLabel(emp.NextPaymentDate)
		_, exists, err := s.stores.Payslips.FindByEmployeePeriod(ctx, emp.ID, period)
		if err != nil {
			return PayrollRunResult{}, err
		}
		if !exists {
			slip := Payslip{
				EmployeeID: emp.ID,
				Period:     period,
				Date:       emp.NextPaymentDate,
				NetPay:     emp.NetPay(),
				Status:     PayslipPending,
			}
			id, err := s.stores.Payslips.Put(ctx, slip)
			if err != nil {
				return PayrollRunResult{}, err
			}
			slip.ID = id
			result.Created = append(result.Created, slip)
		}

		next, err := ledger.AddMonths(emp.NextPaymentDate, 1)
		if err != nil {
			return PayrollRunResult{}, err
		}
		emp.NextPaymentDate = next
		if _, err := s.stores.Employees.Put(ctx, emp); err != nil {
			return PayrollRunResult{}, err
		}
		result.Employees = append(result.Employees, emp)
	}
	return result, nil
}
