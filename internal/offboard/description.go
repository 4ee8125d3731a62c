package offboard

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const disabledDateFormat = "02.01.2006"

// BuildDescription renders the fixed-shape description written onto a
// disabled account.
func BuildDescription(when time.Time, ticket, requestedBy string) string {
	caser := cases.Title(language.English)
	requester := caser.String(strings.ToLower(strings.TrimSpace(requestedBy)))

	return fmt.Sprintf("Disabled %s / Ticket#: %s / Requested by: %s",
		when.Format(disabledDateFormat), strings.TrimSpace(ticket), requester)
}
