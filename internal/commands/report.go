package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var asHTML bool
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a full financial report as Markdown or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()

			snap, err := r.service.Snapshot(r.ctx(cmd))
			if err != nil {
				return err
			}
			s := report.Build(snap, report.OptionsFrom(r.cfg), time.Now())

			render := report.WriteMarkdown
			if asHTML {
				render = report.WriteHTML
			}

			if out == "" {
				return render(cmd.OutOrStdout(), s)
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()

			bw := bufio.NewWriter(f)
			if err := render(bw, s); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			r.logger.WithComponent(log.ComponentReport).Info("report written", log.FieldOperation, log.OpRender, "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return f.Close()
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of Markdown")
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}
