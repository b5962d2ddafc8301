// Package view renders a session state as plain text.
package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vzahanych/city-weather/internal/session"
)

func Render(w io.Writer, st session.State) error {
	switch st.Status {
	case session.StatusLoading:
		_, err := fmt.Fprintf(w, "Loading weather for %s...\n", st.Query)
		return err
	case session.StatusFailed:
		_, err := fmt.Fprintf(w, "Error: %s\n", st.Error.Message())
		return err
	case session.StatusSuccess:
		return renderRecord(w, st)
	default:
		_, err := fmt.Fprintln(w, "No city selected")
		return err
	}
}

func renderRecord(w io.Writer, st session.State) error {
	r := st.Result

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "City:\t%s\n", r.City)
	fmt.Fprintf(tw, "Temperature:\t%d °C\n", r.TemperatureCelsius)
	fmt.Fprintf(tw, "Conditions:\t%s\n", r.Description)
	fmt.Fprintf(tw, "Icon:\t%s\n", r.IconURL)
	if r.HumidityPercent != nil {
		fmt.Fprintf(tw, "Humidity:\t%d%%\n", *r.HumidityPercent)
	}
	if r.WindSpeedMs != nil {
		fmt.Fprintf(tw, "Wind:\t%.1f m/s\n", *r.WindSpeedMs)
	}
	return tw.Flush()
}
