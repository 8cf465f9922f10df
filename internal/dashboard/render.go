package dashboard

import (
	"fmt"
	"io"
	"text/tabwriter"
)

const dateLayout = "2006-01-02"

// RenderText writes a plain-text version of the report.
func RenderText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Historical stats for %s\n", r.City)
	fmt.Fprintf(tw, "Minimal temperature\t%d\n", r.Summary.Min)
	fmt.Fprintf(tw, "Maximal temperature\t%d\n", r.Summary.Max)
	fmt.Fprintf(tw, "Mean temperature\t%d\n", r.Summary.Mean)
	fmt.Fprintf(tw, "Trend\t%+.4f per reading\n", r.Trend.Slope)
	fmt.Fprintln(tw)

	if r.Live.Rounded != nil {
		fmt.Fprintf(tw, "Current temperature in %s: %d°C\n", r.City, *r.Live.Rounded)
	}
	fmt.Fprintln(tw, r.Live.Message)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "season\tmean\tstd\tcount")
	for _, s := range r.Seasons {
		std := "-"
		if s.Std != nil {
			std = fmt.Sprintf("%.2f", *s.Std)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%d\n", s.Season, s.Mean, std, s.Count)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Anomalies (%d)\n", len(r.Anomalies))
	for _, a := range r.Anomalies {
		fmt.Fprintf(tw, "%s\t%.1f\n", a.Timestamp.Format(dateLayout), a.Temperature)
	}

	return tw.Flush()
}
