// Package export renders the parsed schedule as downloadable calendar
// formats. Writers are pure: headers and content negotiation stay in the
// HTTP layer.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/timeutil"
)

// Row is one collection date in the CSV export.
type Row struct {
	Date     string `csv:"date"`
	Category string `csv:"category"`
	Color    string `csv:"color"`
}

// Rows flattens a schedule into date-ordered CSV rows.
func Rows(sched schedule.Schedule, descs schedule.Descriptions) []Row {
	rows := make([]Row, 0, sched.TotalDates())
	for name, dates := range sched {
		for _, date := range dates {
			rows = append(rows, Row{
				Date:     timeutil.FormatDate(date),
				Category: name,
				Color:    descs[name].Color,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// WriteCSV writes the schedule as CSV with a header row.
func WriteCSV(w io.Writer, sched schedule.Schedule, descs schedule.Descriptions) error {
	data, err := csvutil.Marshal(Rows(sched, descs))
	if err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ICSOptions configures the generated calendar.
type ICSOptions struct {
	// CalendarName becomes X-WR-CALNAME. Empty selects a default.
	CalendarName string
	// Location is attached to every event, typically the street name.
	Location string
	// Stamp is the DTSTAMP for all events. Zero means time.Now.
	Stamp time.Time
}

const icsProductID = "-//waste-schedule-service//EN"

// WriteICS writes the schedule as an iCalendar feed of all-day events.
// UIDs are stable across refreshes so subscribed calendars update in place.
func WriteICS(w io.Writer, sched schedule.Schedule, descs schedule.Descriptions, opts ICSOptions) error {
	name := opts.CalendarName
	if name == "" {
		name = "Waste Collection"
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	var b strings.Builder
	line(&b, "BEGIN:VCALENDAR")
	line(&b, "VERSION:2.0")
	line(&b, "PRODID:"+icsProductID)
	line(&b, "METHOD:PUBLISH")
	line(&b, "X-WR-CALNAME:"+escapeText(name))
	line(&b, "CALSCALE:GREGORIAN")

	for _, row := range Rows(sched, descs) {
		date, err := timeutil.ParseDate(row.Date)
		if err != nil {
			continue
		}
		line(&b, "BEGIN:VEVENT")
		line(&b, fmt.Sprintf("UID:%s-%s@waste-schedule-service", row.Date, slug(row.Category)))
		line(&b, "DTSTAMP:"+stamp.UTC().Format("20060102T150405Z"))
		line(&b, "DTSTART;VALUE=DATE:"+date.Format("20060102"))
		line(&b, "DTEND;VALUE=DATE:"+date.AddDate(0, 0, 1).Format("20060102"))
		line(&b, "SUMMARY:"+escapeText(row.Category))
		if opts.Location != "" {
			line(&b, "LOCATION:"+escapeText(opts.Location))
		}
		line(&b, "END:VEVENT")
	}

	line(&b, "END:VCALENDAR")
	_, err := io.WriteString(w, b.String())
	return err
}

// line appends an ICS content line with the CRLF terminator RFC 5545 requires.
func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\r\n")
}

// escapeText escapes the characters RFC 5545 reserves in TEXT values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

// slug folds a category name into a UID-safe token.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "category"
	}
	return b.String()
}
