package tool_filternotes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vault"
)

// Tool name constant
const Name = "filter_notes"

const filterNotesPrompt = `Find notes whose creation or modification time falls inside a date range.

HOW TO USE:
- field is "created" or "modified"
- date_range is either a relative window like "2d" (units s/m/h/d/w, ending now) or an object {"start": ..., "end": ...} where each bound may be epoch milliseconds, an ISO datetime, or a bare YYYY-MM-DD date covering that whole local day
- sort_order is "asc" or "desc" (default asc)
- limit bounds the number of returned notes`

const defaultLimit = 50

// FilterNotesInput represents the input for filtering notes by date
type FilterNotesInput struct {
	Field     string          `json:"field" required:"true" description:"Timestamp to filter on: created or modified"`
	DateRange json.RawMessage `json:"date_range" required:"true" description:"Relative window like 2d, or {start, end} bounds"`
	Limit     int             `json:"limit,omitempty" description:"Maximum number of notes to return (default 50)"`
	SortOrder string          `json:"sort_order,omitempty" description:"asc or desc (default asc)"`
}

// FilteredNote is one matching note
type FilteredNote struct {
	Path string `json:"path" description:"Vault path of the note"`
	At   string `json:"at" description:"The matched timestamp, RFC 3339"`
}

// FilterNotesOutput represents the result of filtering notes
type FilterNotesOutput struct {
	Notes []FilteredNote `json:"notes" description:"Matching notes in the requested order"`
}

func makeFilterNotesHandler(v *vault.Vault) func(context.Context, FilterNotesInput) (FilterNotesOutput, error) {
	return func(ctx context.Context, input FilterNotesInput) (FilterNotesOutput, error) {
		var field vault.TimeField
		switch strings.ToLower(input.Field) {
		case "created":
			field = vault.FieldCreated
		case "modified":
			field = vault.FieldModified
		default:
			return FilterNotesOutput{}, fmt.Errorf("field must be created or modified, got %q", input.Field)
		}

		r, err := vault.ParseDateRange(input.DateRange, time.Now())
		if err != nil {
			return FilterNotesOutput{}, err
		}

		descending := false
		switch strings.ToLower(input.SortOrder) {
		case "", "asc":
		case "desc":
			descending = true
		default:
			return FilterNotesOutput{}, fmt.Errorf("sort_order must be asc or desc, got %q", input.SortOrder)
		}

		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}

		matched, err := v.FilterNotes(field, r, limit, descending)
		if err != nil {
			return FilterNotesOutput{}, fmt.Errorf("failed to filter notes: %v", err)
		}

		out := FilterNotesOutput{Notes: make([]FilteredNote, 0, len(matched))}
		for _, n := range matched {
			out.Notes = append(out.Notes, FilteredNote{Path: n.Path, At: n.At.Format(time.RFC3339)})
		}
		return out, nil
	}
}

// Tool returns the filter_notes tool definition using GenericTool
func Tool(v *vault.Vault) (agent.Tool, error) {
	return agent.NewGenericTool(Name, filterNotesPrompt, makeFilterNotesHandler(v))
}
