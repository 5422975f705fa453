package conversation

import "strings"

// Intent is the classified purpose of an inbound message.
type Intent int

const (
	// IntentHelp is the fallback for anything unrecognized.
	IntentHelp Intent = iota
	// IntentStatus asks for the state of the customer's laundry.
	IntentStatus
	// IntentBilling asks for the outstanding balance.
	IntentBilling
)

func (i Intent) String() string {
	switch i {
	case IntentStatus:
		return "status"
	case IntentBilling:
		return "billing"
	default:
		return "help"
	}
}

const statusKeyword = "สถานะ"

var billingKeywords = []string{"ยอด", "บิล", "ราคา"}

// Classify maps message text to an intent via substring containment.
// Priority is fixed: a status keyword always wins over billing keywords.
func Classify(text string) Intent {
	if strings.Contains(text, statusKeyword) {
		return IntentStatus
	}
	for _, kw := range billingKeywords {
		if strings.Contains(text, kw) {
			return IntentBilling
		}
	}
	return IntentHelp
}
