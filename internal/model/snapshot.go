package model

// Snapshot is an immutable view of every entry collection at one point in
// time. Stores load and save whole snapshots.
type Snapshot struct {
	Accounts   []Account
	Incomes    []Income
	Expenses   []Expense
	Debts      []DebtEntry
	Categories []DebtCategory
	Payments   []DebtPayment
}

// ActiveDebts returns the debts still being repaid.
func (s Snapshot) ActiveDebts() []DebtEntry {
	var active []DebtEntry
	for _, d := range s.Debts {
		if d.IsActive {
			active = append(active, d)
		}
	}
	return active
}

// SimpleDebts returns the projection view of the active debts.
func (s Snapshot) SimpleDebts() []Debt {
	active := s.ActiveDebts()
	debts := make([]Debt, 0, len(active))
	for _, d := range active {
		debts = append(debts, d.Simple())
	}
	return debts
}

// DebtByID returns the debt with the given ID.
func (s Snapshot) DebtByID(id string) (DebtEntry, bool) {
	for _, d := range s.Debts {
		if d.ID == id {
			return d, true
		}
	}
	return DebtEntry{}, false
}

// PaymentsFor returns the payments recorded against a debt, in ledger order.
func (s Snapshot) PaymentsFor(debtID string) []DebtPayment {
	var out []DebtPayment
	for _, p := range s.Payments {
		if p.DebtID == debtID {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a copy whose slices can be modified without touching s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Accounts:   append([]Account(nil), s.Accounts...),
		Incomes:    append([]Income(nil), s.Incomes...),
		Expenses:   append([]Expense(nil), s.Expenses...),
		Debts:      append([]DebtEntry(nil), s.Debts...),
		Categories: append([]DebtCategory(nil), s.Categories...),
		Payments:   append([]DebtPayment(nil), s.Payments...),
	}
}
