package model

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// FreeInvoiceLimit is the number of invoices a free account may create per
// calendar month.
const FreeInvoiceLimit = 5

func IsPro(p Plan) bool { return p == PlanPro }

func CanCreateInvoice(p Plan, countThisMonth int) bool {
	if IsPro(p) {
		return true
	}
	return countThisMonth < FreeInvoiceLimit
}

func CanRemoveBranding(p Plan) bool { return IsPro(p) }

func HasProfitDashboard(p Plan) bool { return IsPro(p) }

func HasInventory(p Plan) bool { return IsPro(p) }

func HasAIInsights(p Plan) bool { return IsPro(p) }
