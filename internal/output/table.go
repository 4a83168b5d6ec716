package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/nelssec/defcheck/internal/defender"
	"github.com/nelssec/defcheck/internal/runinfo"
)

func PrintTable(w io.Writer, fetched int, report *defender.Report, run runinfo.Info) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Defender Scan Freshness")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintf(w, "Fetched:    %d\n", fetched)
	fmt.Fprintf(w, "Evaluated:  %d\n", len(report.Details))
	fmt.Fprintf(w, "Stale:      %d\n", len(report.StaleHostnames))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped:    %d (%s)\n", len(report.Skipped), strings.Join(report.Skipped, ", "))
	}

	if len(report.Details) > 0 {
		fmt.Fprintln(w)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Hostname", "Version", "Image Scan", "Image <24h", "Container Scan", "Container <24h"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)

		for _, d := range report.Details {
			table.Append([]string{
				d.Hostname,
				d.Version,
				d.Image,
				yesNo(d.ImageFresh),
				d.Container,
				yesNo(d.ContainerFresh),
			})
		}

		table.Render()
	}

	if len(report.StaleHostnames) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Stale Defenders:")
		for _, h := range report.StaleHostnames {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s on %s (%s) at %s\n", run.ID, run.Host, run.Platform, run.StartedAt.Format(time.RFC3339))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "NO"
}
