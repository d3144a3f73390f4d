package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rawcv/internal/logging"
	"rawcv/pkg/develop"
	"rawcv/pkg/rawcv"
	"rawcv/pkg/rawfile"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show metadata and per-site statistics of a raw frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInspect(out io.Writer, path string) error {
	frame, header, err := openWithHeader(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Mosaic:     %v\n", frame.Bayer)
	fmt.Fprintf(out, "Bit width:  %d (white %g)\n", frame.Meta.BitWidth, frame.Meta.WhiteLevel())
	fmt.Fprintf(out, "Black:      %v\n", frame.Meta.BlackLevel)
	fmt.Fprintf(out, "WB gains:   %v\n", frame.Meta.Gains)
	fmt.Fprintf(out, "CCM:        %v\n", frame.Meta.CCM)
	if header != nil {
		if name := header.CameraName(); name != "" {
			fmt.Fprintf(out, "Camera:     %s\n", name)
		}
		if exp, ok := header.ExposureTime(); ok {
			fmt.Fprintf(out, "Exposure:   %gs\n", exp)
		}
	}

	sites, err := develop.SiteStats(frame, rawcv.StatAll)
	if err != nil {
		logging.Warnf("site statistics for %s: %v", path, err)
		fmt.Fprintf(out, "Site stats: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tMIN\tMAX\tMEDIAN\tMEAN\tSTDDEV")
	for i, s := range sites {
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%.2f\t%.2f\n", develop.SiteNames[i], s.Min, s.Max, s.Median, s.Mean, s.StdDev)
	}
	return w.Flush()
}

func openWithHeader(path string) (*rawfile.Frame, rawfile.FitsHeader, error) {
	if !rawfile.IsFITS(path) {
		frame, err := rawfile.Open(path)
		return frame, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading FITS file: %w", err)
	}
	frame, header, err := rawfile.ReadFitsFromBytes(data)
	if err != nil {
		return nil, nil, err
	}
	frame.Source = path
	return frame, header, nil
}
