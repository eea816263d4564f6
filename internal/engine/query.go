package engine

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"payables_app_echo/internal/models"
)

// FilterStatusAll bypasses the status check entirely
const FilterStatusAll = "all"

// Filter describes which obligations to keep and how to order them. The
// status filter matches against the effective status derived as of Today,
// never against the persisted column.
type Filter struct {
	Status      string
	AccountName string
	Folio       string
	From        *time.Time
	To          *time.Time
	SortDesc    bool
	Today       time.Time
}

// accountCollator orders account labels case-insensitively with locale-aware
// comparison. Account labels are operator-entered Spanish text.
var accountCollator = collate.New(language.Spanish, collate.Loose)

// Query filters and orders a collection of obligations for presentation.
// Ordering and filtering are independent of input order and deterministic for
// equal inputs: due date asc/desc per SortDesc, with an account-name
// ascending tie-break that is applied regardless of the date direction.
func Query(obligations []models.PayableObligation, f Filter) []models.PayableObligation {
	var from, to time.Time
	if f.From != nil {
		from = atMidnight(*f.From)
	}
	if f.To != nil {
		// extend to the end of the day so the range includes the whole end day
		to = atMidnight(*f.To).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	out := make([]models.PayableObligation, 0, len(obligations))
	for _, o := range obligations {
		if f.Status != "" && f.Status != FilterStatusAll &&
			string(EffectiveStatus(o, f.Today)) != f.Status {
			continue
		}
		if f.AccountName != "" && o.AccountName != f.AccountName {
			continue
		}
		if f.Folio != "" && o.Folio != f.Folio {
			continue
		}
		if f.From != nil && o.DueDate.Before(from) {
			continue
		}
		if f.To != nil && o.DueDate.After(to) {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := atMidnight(out[i].DueDate), atMidnight(out[j].DueDate)
		if !di.Equal(dj) {
			if f.SortDesc {
				return di.After(dj)
			}
			return di.Before(dj)
		}
		return accountCollator.CompareString(
			strings.TrimSpace(out[i].AccountName),
			strings.TrimSpace(out[j].AccountName),
		) < 0
	})

	return out
}
