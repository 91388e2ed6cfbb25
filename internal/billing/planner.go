package billing

import (
	"fmt"
	"time"

	"faturo/internal/models"
)

// RemainderPolicy decides which installment absorbs the odd cents left over
// when a purchase total does not divide evenly by the installment count.
type RemainderPolicy int

const (
	// RemainderToFirst adds the remainder to installment 1, the amount
	// already booked on the parent transaction. Default: future monthly
	// obligations stay uniform.
	RemainderToFirst RemainderPolicy = iota
	// RemainderToLast adds the remainder to the final installment.
	RemainderToLast
)

// PlanRequest carries everything needed to materialize an installment plan.
type PlanRequest struct {
	TotalAmount int64 // purchase total in cents
	Count       int   // number of installments, >= 1
	StartDate   time.Time
	Currency    string
	Description string
	CategoryID  *uint
	Type        models.TransactionType
	Policy      RemainderPolicy
}

// PlanInstallments builds the ordered installment rows for a split payment.
// Row 1 is due on the start date and created paid (it represents the amount
// recorded on the parent transaction); rows 2..N are unpaid, each due exactly
// one calendar month after the previous, with day-of-month clamping. The row
// amounts always sum to TotalAmount.
//
// The caller decides whether a transaction is a split payment at all; a
// count below 1 is a caller bug.
func PlanInstallments(req PlanRequest) ([]models.Installment, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("billing: installment count %d must be at least 1", req.Count)
	}
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("billing: total amount %d must be positive", req.TotalAmount)
	}

	per := req.TotalAmount / int64(req.Count)
	remainder := req.TotalAmount - per*int64(req.Count)

	rows := make([]models.Installment, 0, req.Count)
	due := req.StartDate
	for i := 1; i <= req.Count; i++ {
		amount := per
		if remainder > 0 {
			if (req.Policy == RemainderToFirst && i == 1) ||
				(req.Policy == RemainderToLast && i == req.Count) {
				amount += remainder
			}
		}

		row := models.Installment{
			Number:      i,
			Total:       req.Count,
			Amount:      amount,
			Currency:    req.Currency,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Type:        req.Type,
			DueDate:     due,
		}
		if i == 1 {
			paidDate := req.StartDate
			row.Paid = true
			row.PaidDate = &paidDate
		}
		rows = append(rows, row)

		due = AddMonths(due, 1)
	}

	return rows, nil
}

// FirstInstallmentAmount computes the amount booked on the parent transaction
// itself: the uniform per-installment share, plus the division remainder when
// the policy assigns it to the first row.
func FirstInstallmentAmount(totalAmount int64, count int, policy RemainderPolicy) int64 {
	if count < 1 {
		panic(fmt.Sprintf("billing: installment count %d must be at least 1", count))
	}
	per := totalAmount / int64(count)
	if policy == RemainderToFirst {
		return per + (totalAmount - per*int64(count))
	}
	return per
}

// InstallmentAmount returns the uniform per-month share of the total, the
// value stored as installment metadata on the parent transaction.
func InstallmentAmount(totalAmount int64, count int) int64 {
	if count < 1 {
		panic(fmt.Sprintf("billing: installment count %d must be at least 1", count))
	}
	return totalAmount / int64(count)
}
