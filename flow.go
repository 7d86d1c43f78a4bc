package gnucash

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FlowNode is one endpoint of the income/expense flow graph.
type FlowNode struct {
	Name string `json:"name"`
}

// FlowLink carries apportioned value between two node indexes.
type FlowLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
}

// FlowReport is the Sankey data for a reporting window: a statistical
// apportionment of income sources across expense categories and savings,
// explicitly not a claim that specific dollars moved between accounts.
type FlowReport struct {
	From          Date       `json:"from"`
	To            Date       `json:"to"`
	Nodes         []FlowNode `json:"nodes"`
	Links         []FlowLink `json:"links"`
	TotalIncome   float64    `json:"totalIncome"`
	TotalExpenses float64    `json:"totalExpenses"`
	Savings       float64    `json:"savings"`
}

const (
	otherIncomeBucket  = "Other Income"
	otherExpenseBucket = "Other Expenses"
	savingsNode        = "Savings"
)

type flowCategory struct {
	name  string
	total decimal.Decimal
}

// categorize maps every descendant of each top-level account of the given
// type to a category named after the top-level's direct child it falls
// under. Splits posted directly on the top-level account, outside any
// category, land in the catch-all bucket.
func (e *Engine) categorize(accountType AccountType, bucket string) (map[string]int, []*flowCategory) {
	root := e.book.Root()
	byAccount := make(map[string]int) // account guid -> category index
	var categories []*flowCategory
	index := make(map[string]int) // category name -> index

	category := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		categories = append(categories, &flowCategory{name: name})
		index[name] = len(categories) - 1
		return len(categories) - 1
	}

	for _, a := range e.book.Accounts() {
		if a.Type != accountType {
			continue
		}
		topLevel := a.ParentGUID == "" || (root != nil && a.ParentGUID == root.GUID)
		if !topLevel {
			continue
		}
		byAccount[a.GUID] = category(bucket)
		for _, childGUID := range e.book.Children(a.GUID) {
			child := e.book.Account(childGUID)
			i := category(child.Name)
			byAccount[childGUID] = i
			for _, descendant := range e.book.Descendants(childGUID) {
				byAccount[descendant] = i
			}
		}
	}
	return byAccount, categories
}

// Flow aggregates categorized splits over [from, to] and builds the
// proportional flow graph. Each income category's contribution to each
// expense category (and to savings) is expenseTotal x (incomeTotal /
// totalIncome), rounded to cents; zero or negative rows are omitted.
func (e *Engine) Flow(from, to Date) *FlowReport {
	incomeOf, incomes := e.categorize(AccountIncome, otherIncomeBucket)
	expenseOf, expenses := e.categorize(AccountExpense, otherExpenseBucket)

	for _, s := range e.book.splits {
		if s.PostDate.IsZero() || s.PostDate.Before(from) || s.PostDate.After(to) {
			continue
		}
		if i, ok := incomeOf[s.AccountGUID]; ok {
			incomes[i].total = incomes[i].total.Add(s.Value)
		}
		if i, ok := expenseOf[s.AccountGUID]; ok {
			expenses[i].total = expenses[i].total.Add(s.Value)
		}
	}

	// Income values are ledger-negative; negate for display and keep only
	// the categories that contributed.
	var incomeRows, expenseRows []*flowCategory
	var totalIncome, totalExpenses decimal.Decimal
	for _, c := range incomes {
		c.total = c.total.Neg()
		if c.total.IsPositive() {
			incomeRows = append(incomeRows, c)
			totalIncome = totalIncome.Add(c.total)
		}
	}
	for _, c := range expenses {
		if c.total.IsPositive() {
			expenseRows = append(expenseRows, c)
			totalExpenses = totalExpenses.Add(c.total)
		}
	}
	byTotal := func(rows []*flowCategory) func(i, j int) bool {
		return func(i, j int) bool { return rows[i].total.GreaterThan(rows[j].total) }
	}
	sort.SliceStable(incomeRows, byTotal(incomeRows))
	sort.SliceStable(expenseRows, byTotal(expenseRows))

	savings := totalIncome.Sub(totalExpenses)

	report := &FlowReport{
		From:          from,
		To:            to,
		TotalIncome:   round2(totalIncome),
		TotalExpenses: round2(totalExpenses),
		Savings:       round2(savings),
	}

	nodeIndex := make(map[string]int)
	node := func(name string) int {
		if i, ok := nodeIndex[name]; ok {
			return i
		}
		report.Nodes = append(report.Nodes, FlowNode{Name: name})
		nodeIndex[name] = len(report.Nodes) - 1
		return len(report.Nodes) - 1
	}

	for _, income := range incomeRows {
		node(income.name)
	}
	for _, expense := range expenseRows {
		node(expense.name)
	}
	if savings.IsPositive() {
		node(savingsNode)
	}

	if !totalIncome.IsPositive() {
		return report
	}

	for _, income := range incomeRows {
		share := income.total.Div(totalIncome)
		for _, expense := range expenseRows {
			value := expense.total.Mul(share).Round(2)
			if !value.IsPositive() {
				continue
			}
			report.Links = append(report.Links, FlowLink{
				Source: node(income.name),
				Target: node(expense.name),
				Value:  value.InexactFloat64(),
			})
		}
		if savings.IsPositive() {
			value := savings.Mul(share).Round(2)
			if value.IsPositive() {
				report.Links = append(report.Links, FlowLink{
					Source: node(income.name),
					Target: node(savingsNode),
					Value:  value.InexactFloat64(),
				})
			}
		}
	}
	return report
}
