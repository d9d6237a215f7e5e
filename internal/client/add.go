package client

import (
	"context"
	"sort"
	"time"

	"github.com/mdouchement/medvault/internal/gate"
	"github.com/mdouchement/medvault/internal/vault"
	"github.com/pkg/errors"
)

// DateLayout is the layout of the default record date.
const DateLayout = "02/01/2006"

// AddOptions are the non-interactive inputs of a new record.
type AddOptions struct {
	Files []string
	// Drop contains the indexes of the picked files to remove before submission.
	Drop []int
}

// Add prompts the record form and submits it.
func (a *App) Add(ctx context.Context, opts AddOptions) error {
	if _, err := a.gate.Enter(gate.AddRecord); err != nil {
		return a.fail(err, "could not enter add record")
	}

	draft := vault.Record{
		Date: time.Now().Format(DateLayout),
	}

	for _, field := range []struct {
		label string
		value *string
	}{
		{label: "Title", value: &draft.Title},
		{label: "Category", value: &draft.Category},
		{label: "Date", value: &draft.Date},
		{label: "Doctor", value: &draft.Doctor},
		{label: "Hospital", value: &draft.Hospital},
		{label: "Location", value: &draft.Location},
		{label: "Symptoms", value: &draft.Symptoms},
		{label: "Diagnosis", value: &draft.Diagnosis},
		{label: "Prescription", value: &draft.Prescription},
		{label: "Blood pressure", value: &draft.BloodPressure},
		{label: "Weight", value: &draft.Weight},
		{label: "Follow-up date", value: &draft.FollowUpDate},
		{label: "Notes", value: &draft.Notes},
	} {
		v, err := ask(a.prompter, field.label, *field.value)
		if err != nil {
			return err
		}
		*field.value = v
	}

	refs, err := a.picker.Pick(opts.Files...)
	if err != nil {
		return errors.Wrap(err, "could not pick files")
	}
	for _, ref := range refs {
		draft.Attach(ref)
	}

	// Indexes refer to the picked order, the highest are removed first.
	drop := append([]int(nil), opts.Drop...)
	sort.Sort(sort.Reverse(sort.IntSlice(drop)))
	for i, index := range drop {
		if i > 0 && index == drop[i-1] {
			continue
		}
		if err = draft.RemoveAttachment(index); err != nil {
			return err
		}
	}

	for i, ref := range draft.Attachments {
		a.printf("Attachment #%d: %s (%s)\n", i, ref.DisplayName, ref.MimeType)
	}

	if err = a.submitter.Submit(ctx, &draft); err != nil {
		return a.fail(err, "could not submit record")
	}

	a.printf("Record saved.\n")
	return nil
}
