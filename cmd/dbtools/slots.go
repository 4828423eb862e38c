package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/events"
	"github.com/camka14/mvp-site/internal/timeslots"
)

var previewJSON bool

func init() {
	slotsPreviewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the full preview as JSON")
	slotsCmd.AddCommand(slotsPreviewCmd)
	rootCmd.AddCommand(slotsCmd)
}

// previewFile is the document slots preview reads: the stored event the edit
// applies to and the edit itself.
type previewFile struct {
	Event struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		EventType      string    `json:"eventType"`
		State          string    `json:"state"`
		OrganizationID string    `json:"organizationId"`
		StartDate      time.Time `json:"startDate"`
		Timezone       string    `json:"timezone"`
	} `json:"event"`
	Edit events.EditPayload `json:"edit"`
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Work with event time slots",
}

var slotsPreviewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Validate an event edit and print the slot rows it would write",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read preview file: %w", err)
		}
		var in previewFile
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("parse preview file: %w", err)
		}

		event := dbgen.Event{
			ID:             in.Event.ID,
			Name:           in.Event.Name,
			EventType:      in.Event.EventType,
			State:          in.Event.State,
			OrganizationID: sql.NullString{String: in.Event.OrganizationID, Valid: in.Event.OrganizationID != ""},
			StartDate:      in.Event.StartDate,
			Timezone:       in.Event.Timezone,
		}
		if event.State == "" {
			event.State = events.StateDraft
		}
		if event.EventType == "" {
			event.EventType = events.TypeEvent
		}

		out := cmd.OutOrStdout()
		result, err := events.Preview(event, in.Edit, events.Options{})
		var vErr *timeslots.ValidationError
		if errors.As(err, &vErr) {
			for _, path := range vErr.Paths() {
				fmt.Fprintf(out, "%s: %s\n", path, vErr.FieldErrors[path])
			}
			return fmt.Errorf("%d validation errors", len(vErr.FieldErrors))
		}
		if err != nil {
			return err
		}

		if previewJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}

		fmt.Fprintf(out, "%d patterns, %d rows\n", len(result.TimeSlots), len(result.SlotRows))
		for _, row := range result.SlotRows {
			fmt.Fprintf(out, "%s  %s %s-%s  field=%s  divisions=%s\n",
				row.ID,
				weekdayName(row.Weekday),
				timeslots.FormatMinutes(row.StartMinutes),
				timeslots.FormatMinutes(row.EndMinutes),
				row.FieldID,
				strings.Join(row.Divisions, ","),
			)
		}
		return nil
	},
}
