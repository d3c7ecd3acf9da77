package tools

import (
	"context"
	"time"
)

// getCurrentDatetime grounds relative phrases like "Monday" or "next
// Friday" to concrete dates: alongside the current instant it returns a
// weekday-name map covering the next two weeks plus today/tomorrow.
// Stateless and idempotent.
func (r *Router) getCurrentDatetime(ctx context.Context, input map[string]any) (any, error) {
	settings, err := r.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	loc, locErr := time.LoadLocation(settings.Timezone)
	if locErr != nil {
		r.log.Warn("invalid configured timezone, falling back to UTC", "timezone", settings.Timezone)
		loc = time.UTC
	}
	now := time.Now().In(loc)

	const isoDate = "2006-01-02"
	dates := map[string]string{
		"today":    now.Format(isoDate),
		"tomorrow": now.AddDate(0, 0, 1).Format(isoDate),
	}
	for i := 1; i <= 7; i++ {
		d := now.AddDate(0, 0, i)
		dates[d.Weekday().String()] = d.Format(isoDate)
	}
	for i := 8; i <= 14; i++ {
		d := now.AddDate(0, 0, i)
		dates["next "+d.Weekday().String()] = d.Format(isoDate)
	}

	return map[string]any{
		"currentDateTime": now.Format(time.RFC3339),
		"weekday":         now.Weekday().String(),
		"timezone":        settings.Timezone,
		"dates":           dates,
	}, nil
}
