package billing

import (
	"sort"

	"faturo/internal/models"
)

// AvailableCycles computes the distinct billing cycles spanned by the given
// transactions for a card closing on withdrawDay. Each transaction is mapped
// to a cycle via its effective billing date; cycles are deduplicated by start
// instant and returned in ascending start order.
func AvailableCycles(txs []models.Transaction, withdrawDay int) []Cycle {
	seen := make(map[int64]Cycle, len(txs))
	for i := range txs {
		c := CycleFor(txs[i].EffectiveBillingDate(), withdrawDay)
		seen[c.Start.Unix()] = c
	}

	cycles := make([]Cycle, 0, len(seen))
	for _, c := range seen {
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Start.Before(cycles[j].Start)
	})
	return cycles
}

// TransactionsInCycle returns the transactions whose effective billing date
// falls inside the cycle, most recent purchase first.
func TransactionsInCycle(txs []models.Transaction, cycle Cycle) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if cycle.Contains(txs[i].EffectiveBillingDate()) {
			out = append(out, txs[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// InstallmentsInCycle returns the installment rows due inside the cycle,
// ascending by due date.
func InstallmentsInCycle(rows []models.Installment, cycle Cycle) []models.Installment {
	out := make([]models.Installment, 0, len(rows))
	for i := range rows {
		if cycle.Contains(rows[i].DueDate) {
			out = append(out, rows[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Total sums the amounts of the given transactions.
func Total(txs []models.Transaction) int64 {
	var sum int64
	for i := range txs {
		sum += txs[i].Amount
	}
	return sum
}

// Navigator tracks the selected cycle within an ordered cycle list.
// Previous and Next clamp at the list boundaries instead of erroring, and
// the initial selection is the most recent cycle.
type Navigator struct {
	cycles []Cycle
	index  int
}

// NewNavigator creates a navigator positioned on the last (most recent)
// cycle. An empty cycle list yields an empty navigator whose Current
// reports no cycle.
func NewNavigator(cycles []Cycle) *Navigator {
	return &Navigator{cycles: cycles, index: len(cycles) - 1}
}

// Len returns the number of cycles.
func (n *Navigator) Len() int { return len(n.cycles) }

// Index returns the active cycle index, or -1 when there are no cycles.
func (n *Navigator) Index() int { return n.index }

// Current returns the active cycle; ok is false when there are no cycles.
func (n *Navigator) Current() (Cycle, bool) {
	if n.index < 0 || n.index >= len(n.cycles) {
		return Cycle{}, false
	}
	return n.cycles[n.index], true
}

// Select moves to the given index, clamping out-of-range values into the
// valid range. Selecting on an empty navigator is a no-op.
func (n *Navigator) Select(index int) {
	if len(n.cycles) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(n.cycles)-1 {
		index = len(n.cycles) - 1
	}
	n.index = index
}

// Previous moves one cycle back; at the first cycle it is a no-op.
func (n *Navigator) Previous() {
	if n.index > 0 {
		n.index--
	}
}

// Next moves one cycle forward; at the last cycle it is a no-op.
func (n *Navigator) Next() {
	if n.index < len(n.cycles)-1 {
		n.index++
	}
}
