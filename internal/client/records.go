package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mdouchement/medvault/internal/gate"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// Records prints the records of the signed-in user.
func (a *App) Records(ctx context.Context) error {
	if _, err := a.gate.Enter(gate.Dashboard); err != nil {
		return a.fail(err, "could not enter dashboard")
	}

	records, err := a.records.FetchAll(ctx)
	if err != nil {
		return a.fail(err, "could not fetch records")
	}

	if len(records) == 0 {
		a.printf("No records yet. Add one with `mvc record add`.\n")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tCATEGORY\tFILES")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.ID, displayDate(r.Date), r.Title, r.Category, len(r.Attachments))
	}
	return w.Flush()
}

// Show prints the details of a record.
func (a *App) Show(ctx context.Context, id string, raw bool) error {
	if _, err := a.gate.Enter(gate.RecordDetails); err != nil {
		return a.fail(err, "could not enter record details")
	}

	record, err := a.records.Find(ctx, id)
	if err != nil {
		return a.fail(err, "could not find record")
	}

	if raw {
		a.printf("%s\n", litter.Sdump(record))
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, row := range [][2]string{
		{"Title", record.Title},
		{"Category", record.Category},
		{"Date", displayDate(record.Date)},
		{"Doctor", record.Doctor},
		{"Hospital", record.Hospital},
		{"Location", record.Location},
		{"Symptoms", record.Symptoms},
		{"Diagnosis", record.Diagnosis},
		{"Prescription", record.Prescription},
		{"Blood pressure", record.BloodPressure},
		{"Weight", record.Weight},
		{"Follow-up", displayDate(record.FollowUpDate)},
		{"Notes", record.Notes},
	} {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
	}
	for i, f := range record.Attachments {
		fmt.Fprintf(w, "File #%d:\t%s (%s) %s\n", i, f.DisplayName, f.MimeType, f.URI)
	}
	return w.Flush()
}

// Backup fetches all the records and stores them in the given directory.
func (a *App) Backup(ctx context.Context, dir string) error {
	if _, err := a.gate.Enter(gate.Dashboard); err != nil {
		return a.fail(err, "could not enter dashboard")
	}

	records, err := a.records.FetchAll(ctx)
	if err != nil {
		return a.fail(err, "could not fetch records")
	}

	filename := filepath.Join(dir, fmt.Sprintf("records_%s.json", time.Now().Format("20060102150405")))
	if err = backup(records, filename); err != nil {
		return errors.Wrap(err, "records")
	}

	a.printf("%d records saved in %s\n", len(records), filename)
	return nil
}

func backup(v any, filename string) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize value to backup")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "could not create backup file")
	}
	defer f.Close()

	_, err = f.Write(payload)
	if err != nil {
		return errors.Wrap(err, "could not write backuped values")
	}

	return errors.Wrap(f.Sync(), "could not backup")
}

// displayDate renders a free text date in a readable way.
// The text is kept as is when it is not a date.
func displayDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return s
	}
	return t.Format("02 Jan 2006")
}
