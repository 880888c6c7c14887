package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	// Export flags
	fromDate   string
	toDate     string
	outputPath string
)

var salesTodayCmd = &cobra.Command{
	Use:   "sales-today",
	Short: "Print today's sales total and open trials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		dashboard, err := st.Dashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sales today:    %s\n", dashboard.SalesToday.StringFixed(2))
		fmt.Fprintf(cmd.OutOrStdout(), "pending trials: %d\n", dashboard.PendingTrials)
		return nil
	},
}

var exportSalesCmd = &cobra.Command{
	Use:   "export-sales",
	Short: "Write committed sales to an xlsx workbook",
	Long: `Write the sales committed between --from and --to (both inclusive dates in
the store's time zone) to an xlsx workbook with a Sales and an Items sheet.

Examples:
  storectl export-sales --from 2026-03-01 --to 2026-03-31
  storectl export-sales --from 2026-03-01 --to 2026-03-01 -o march-1.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseDateRange(fromDate, toDate, cfg.Store.Location)
		if err != nil {
			return err
		}

		path := outputPath
		if path == "" {
			path = fmt.Sprintf("sales_%s_%s.xlsx", fromDate, toDate)
		}

		ctx := cmd.Context()
		st, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := st.ExportSales(ctx, from, to, f); err != nil {
			f.Close()
			os.Remove(path)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(salesTodayCmd, exportSalesCmd)

	exportSalesCmd.Flags().StringVar(&fromDate, "from", "", "First day, YYYY-MM-DD")
	exportSalesCmd.Flags().StringVar(&toDate, "to", "", "Last day, YYYY-MM-DD")
	exportSalesCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Workbook path (default sales_FROM_TO.xlsx)")
	exportSalesCmd.MarkFlagRequired("from")
	exportSalesCmd.MarkFlagRequired("to")
}

// parseDateRange turns inclusive dates into the half-open range [from, to)
func parseDateRange(fromRaw, toRaw string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	from, err := time.ParseInLocation(dateLayout, fromRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q: %w", fromRaw, err)
	}
	to, err := time.ParseInLocation(dateLayout, toRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q: %w", toRaw, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toRaw, fromRaw)
	}
	return from, to.AddDate(0, 0, 1), nil
}
