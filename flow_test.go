package gnucash

import (
	"testing"
	"time"
)

// flowFixture posts one month of income and spending:
//
//	Income:Salary     -1000 (ledger sign)
//	Expenses:Rent      +400
//	Expenses:Food      +300
//
// leaving $300 of savings.
func flowFixture(t *testing.T) (*bookBuilder, Date, Date) {
	t.Helper()
	b := newBookBuilder(t)
	b.account("income", "Income", AccountIncome, "root", "cur-usd")
	b.account("salary", "Salary", AccountIncome, "income", "cur-usd")
	b.account("expenses", "Expenses", AccountExpense, "root", "cur-usd")
	b.account("rent", "Rent", AccountExpense, "expenses", "cur-usd")
	b.account("food", "Food", AccountExpense, "expenses", "cur-usd")

	on := NewDate(2024, time.April, 5)
	b.post("salary", on, -1000, -1000)
	b.post("rent", on, 400, 400)
	b.post("food", on, 300, 300)

	return b, NewDate(2024, time.April, 1), NewDate(2024, time.April, 30)
}

func nodeIndex(t *testing.T, report *FlowReport, name string) int {
	t.Helper()
	for i, n := range report.Nodes {
		if n.Name == name {
			return i
		}
	}
	t.Fatalf("node %q not in %v", name, report.Nodes)
	return -1
}

func linkValue(report *FlowReport, source, target int) (float64, bool) {
	for _, l := range report.Links {
		if l.Source == source && l.Target == target {
			return l.Value, true
		}
	}
	return 0, false
}

func TestFlowTotals(t *testing.T) {
	b, from, to := flowFixture(t)
	e := b.engine("USD")

	report := e.Flow(from, to)
	if report.TotalIncome != 1000 {
		t.Errorf("total income = %v, want 1000", report.TotalIncome)
	}
	if report.TotalExpenses != 700 {
		t.Errorf("total expenses = %v, want 700", report.TotalExpenses)
	}
	if report.Savings != 300 {
		t.Errorf("savings = %v, want 300", report.Savings)
	}
}

func TestFlowProportionalLinks(t *testing.T) {
	b, from, to := flowFixture(t)
	// Second income source: 25% of total income.
	b.account("bonus", "Bonus", AccountIncome, "income", "cur-usd")
	b.post("bonus", NewDate(2024, time.April, 20), -333.33, -333.33)
	e := b.engine("USD")

	report := e.Flow(from, to)
	salary := nodeIndex(t, report, "Salary")
	bonus := nodeIndex(t, report, "Bonus")
	rent := nodeIndex(t, report, "Rent")
	savings := nodeIndex(t, report, "Savings")

	// Salary is 1000/1333.33 of income; rent 400 apportions to 300.00 of
	// it, cents-rounded.
	if v, ok := linkValue(report, salary, rent); !ok || v != 300.00 {
		t.Errorf("salary->rent = %v (%v), want 300.00", v, ok)
	}
	if v, ok := linkValue(report, bonus, rent); !ok || v != 100.00 {
		t.Errorf("bonus->rent = %v (%v), want 100.00", v, ok)
	}
	if _, ok := linkValue(report, salary, savings); !ok {
		t.Error("salary->savings link missing")
	}

	// Income nodes come before expense nodes, largest first.
	if salary != 0 {
		t.Errorf("salary node index = %d, want 0", salary)
	}
}

func TestFlowCatchAllBuckets(t *testing.T) {
	b, from, to := flowFixture(t)
	// Splits posted directly on the top-level accounts.
	b.post("income", NewDate(2024, time.April, 10), -50, -50)
	b.post("expenses", NewDate(2024, time.April, 11), 20, 20)
	e := b.engine("USD")

	report := e.Flow(from, to)
	nodeIndex(t, report, otherIncomeBucket)
	nodeIndex(t, report, otherExpenseBucket)
	if report.TotalIncome != 1050 {
		t.Errorf("total income = %v, want 1050", report.TotalIncome)
	}
	if report.TotalExpenses != 720 {
		t.Errorf("total expenses = %v, want 720", report.TotalExpenses)
	}
}

func TestFlowNegativeSavings(t *testing.T) {
	b, from, to := flowFixture(t)
	b.post("rent", NewDate(2024, time.April, 25), 900, 900)
	e := b.engine("USD")

	report := e.Flow(from, to)
	if report.Savings != -600 {
		t.Errorf("savings = %v, want -600", report.Savings)
	}
	for _, n := range report.Nodes {
		if n.Name == savingsNode {
			t.Error("negative savings must not create a Savings node")
		}
	}
	for _, l := range report.Links {
		if l.Value <= 0 {
			t.Errorf("non-positive link emitted: %+v", l)
		}
	}
}

func TestFlowWindowFiltering(t *testing.T) {
	b, from, to := flowFixture(t)
	// Outside the window on both sides.
	b.post("salary", NewDate(2024, time.March, 31), -500, -500)
	b.post("rent", NewDate(2024, time.May, 1), 500, 500)
	e := b.engine("USD")

	report := e.Flow(from, to)
	if report.TotalIncome != 1000 || report.TotalExpenses != 700 {
		t.Errorf("window leak: income %v expenses %v", report.TotalIncome, report.TotalExpenses)
	}
}

func TestFlowRefundsReduceCategory(t *testing.T) {
	b, from, to := flowFixture(t)
	// A refund larger than the category's spending drops the category.
	b.account("fees", "Fees", AccountExpense, "expenses", "cur-usd")
	b.post("fees", NewDate(2024, time.April, 12), 10, 10)
	b.post("fees", NewDate(2024, time.April, 13), -25, -25)
	e := b.engine("USD")

	report := e.Flow(from, to)
	for _, n := range report.Nodes {
		if n.Name == "Fees" {
			t.Error("net-negative expense category must be omitted")
		}
	}
	if report.TotalExpenses != 700 {
		t.Errorf("total expenses = %v, want 700 (refund category excluded)", report.TotalExpenses)
	}
}

func TestFlowNoIncome(t *testing.T) {
	b := newBookBuilder(t)
	b.account("expenses", "Expenses", AccountExpense, "root", "cur-usd")
	b.account("rent", "Rent", AccountExpense, "expenses", "cur-usd")
	b.post("rent", NewDate(2024, time.April, 5), 100, 100)
	e := b.engine("USD")

	report := e.Flow(NewDate(2024, time.April, 1), NewDate(2024, time.April, 30))
	if report.TotalIncome != 0 {
		t.Errorf("total income = %v, want 0", report.TotalIncome)
	}
	if len(report.Links) != 0 {
		t.Errorf("links without income: %+v", report.Links)
	}
}
