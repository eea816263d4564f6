package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/models"
	"payables_app_echo/internal/services"
)

type CalendarHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewCalendarHandler(db *gorm.DB, cache *services.RedisCache) *CalendarHandler {
	return &CalendarHandler{db: db, cache: cache}
}

// CalendarEntry is one projected due date on the payables calendar
type CalendarEntry struct {
	ObligationID uint            `json:"obligation_id"`
	Folio        string          `json:"folio"`
	AccountName  string          `json:"account_name"`
	Amount       decimal.Decimal `json:"amount"`
	Scheme       models.Scheme   `json:"scheme"`
	DueDate      time.Time       `json:"due_date"`
	Projected    bool            `json:"projected"` // true for dates beyond the persisted installment
}

// UpcomingCalendar projects the due dates of unpaid obligations over the next
// N days. Recurring schemes are expanded through their recurrence rule from
// the obligation's own due date.
func (h *CalendarHandler) UpcomingCalendar(c echo.Context) error {
	days := 90
	if d := c.QueryParam("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 || parsed > 730 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 730")
		}
		days = parsed
	}

	ctx := c.Request().Context()
	cacheKey := fmt.Sprintf("calendar:upcoming:%d", days)

	build := func() ([]CalendarEntry, error) {
		var obligations []models.PayableObligation
		if err := h.db.WithContext(ctx).
			Where("status = ?", models.StatusPending).
			Find(&obligations).Error; err != nil {
			return nil, err
		}

		now := time.Now()
		until := now.AddDate(0, 0, days)

		var entries []CalendarEntry
		for _, o := range obligations {
			occurrences, err := engine.Occurrences(o.Scheme, o.DueDate, now, until)
			if err != nil {
				return nil, err
			}
			for i, due := range occurrences {
				entries = append(entries, CalendarEntry{
					ObligationID: o.ID,
					Folio:        o.Folio,
					AccountName:  o.AccountName,
					Amount:       o.Amount,
					Scheme:       o.Scheme,
					DueDate:      due,
					Projected:    i > 0,
				})
			}
		}
		return entries, nil
	}

	var entries []CalendarEntry
	var err error
	if h.cache != nil {
		entries, err = services.GetOrSet(h.cache, ctx, cacheKey, 5*time.Minute, build)
	} else {
		entries, err = build()
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}
