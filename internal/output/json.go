package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nelssec/defcheck/internal/defender"
)

type staleOutput struct {
	Hostnames []string `json:"Stale_Defender_Hostnames"`
}

// PrintJSON writes the report in the console shape downstream tooling
// parses: the raw record count, the stale hostnames as a single JSON line
// when there are any, then the per-Defender details as a JSON array.
func PrintJSON(w io.Writer, fetched int, report *defender.Report) error {
	if _, err := fmt.Fprintf(w, "Object Count: %d\n", fetched); err != nil {
		return err
	}

	if len(report.StaleHostnames) > 0 {
		data, err := json.Marshal(staleOutput{Hostnames: report.StaleHostnames})
		if err != nil {
			return fmt.Errorf("failed to marshal stale hostnames: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}

	details := report.Details
	if details == nil {
		details = []defender.Evaluated{}
	}
	data, err := json.MarshalIndent(details, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal defender details: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
