package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// ReminderComposer renders balance reminders for guardians.
type ReminderComposer struct {
	SchoolName          string
	CurrencyCode        string
	PaymentInstructions string
}

// DefaultReminderComposer is used when no composer is configured.
func DefaultReminderComposer() ReminderComposer {
	return ReminderComposer{SchoolName: "School", CurrencyCode: "KES"}
}

// Compose builds the message for one learner. relevant is the balance the
// reminder asks for; the breakdown lines follow the enabled components.
func (c ReminderComposer) Compose(learner domain.LearnerSummary, b domain.LearnerBalance, relevant decimal.Decimal, includeCurrent, includePrevious bool) domain.ReminderMessage {
	recipient := learner.GuardianName
	if recipient == "" {
		recipient = "Parent/Guardian"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", recipient)
	fmt.Fprintf(&body, "This is a reminder that the fee balance for %s", learner.FullName)
	if learner.AdmissionNumber != "" {
		fmt.Fprintf(&body, " (Adm. %s)", learner.AdmissionNumber)
	}
	fmt.Fprintf(&body, " is %s (%s).\n",
		utils.FormatMoney(relevant, c.CurrencyCode),
		utils.AmountInWords(relevant))

	if includeCurrent && includePrevious {
		fmt.Fprintf(&body, "Current term: %s. Previous balance: %s.\n",
			utils.FormatMoney(b.CurrentTermBalance, c.CurrencyCode),
			utils.FormatMoney(b.PreviousBalance(), c.CurrencyCode))
	}
	if c.PaymentInstructions != "" {
		fmt.Fprintf(&body, "\n%s\n", c.PaymentInstructions)
	}
	fmt.Fprintf(&body, "\nThank you,\n%s", c.SchoolName)

	return domain.ReminderMessage{
		LearnerID:     learner.LearnerID,
		RecipientName: recipient,
		Phone:         learner.GuardianPhone,
		Email:         learner.GuardianEmail,
		Subject:       fmt.Sprintf("%s: fee balance reminder for %s", c.SchoolName, learner.FullName),
		Body:          body.String(),
		BalanceDue:    relevant,
	}
}
