package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/normalize"
)

// --- stores ---

func newStoresCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Args:  cobra.NoArgs,
		Short: "Store directory",
	}
	cmd.AddCommand(newStoresListCommand(rt))
	return cmd
}

func newStoresListCommand(rt *runtime) *cobra.Command {
	var p backend.ListParams

	cmd := &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List active stores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.app.Hooks.Stores.List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return rt.render(page, func(w io.Writer) error {
				rows := make([][]string, 0, len(page.Data))
				for _, s := range page.Data {
					rows = append(rows, []string{dash(s.Code), dash(s.StoreName), dash(s.LocationName), dash(s.Phone), s.UUID})
				}
				if err := table(w, []string{"CODE", "NAME", "LOCATION", "PHONE", "UUID"}, rows); err != nil {
					return err
				}
				return pageFooter(w, page.CurrentPage, page.TotalPages, page.TotalRecords)
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.Page, "page", 1, "page number")
	f.IntVar(&p.PageSize, "page-size", 10, "page size")
	f.StringVar(&p.Search, "search", "", "search by name or code")
	return cmd
}

// --- tickets ---

func newTicketsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Args:  cobra.NoArgs,
		Short: "Maintenance tickets",
	}
	cmd.AddCommand(
		newTicketsListCommand(rt),
		newTicketsStatusCountCommand(rt),
		newTicketsExportCommand(rt),
	)
	return cmd
}

func parseScope(s string) (backend.Scope, error) {
	switch backend.Scope(s) {
	case backend.ScopeDefault, backend.ScopeAdmin, backend.ScopeUser:
		return backend.Scope(s), nil
	}
	return "", fmt.Errorf("scope %q: expected admin or user", s)
}

func newTicketsListCommand(rt *runtime) *cobra.Command {
	var (
		p              backend.TicketListParams
		scope          string
		dateFilterType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := parseScope(scope)
			if err != nil {
				return err
			}
			p.DateFilterType = model.DateFilterType(dateFilterType)

			page, err := rt.app.Hooks.Tickets(sc).List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return rt.render(page, func(w io.Writer) error {
				rows := make([][]string, 0, len(page.Data))
				for _, t := range page.Data {
					rows = append(rows, []string{
						t.TicketNumber, dash(t.TicketStatus), dash(t.PriorityName),
						dash(t.WorkCategoryName), dash(t.RequesterName), dash(t.CreatedAt),
					})
				}
				header := []string{"NUMBER", "STATUS", "PRIORITY", "CATEGORY", "REQUESTER", "CREATED"}
				if err := table(w, header, rows); err != nil {
					return err
				}
				return pageFooter(w, page.CurrentPage, page.TotalPages, page.TotalRecords)
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.Page, "page", 1, "page number")
	f.IntVar(&p.PageSize, "page-size", 10, "page size")
	f.StringVar(&p.Search, "search", "", "search text")
	f.StringVar(&p.Status, "status", "", "status tab: open, in_progress, request_to_transfer, ...")
	f.StringVar(&p.PriorityUUID, "priority", "", "priority UUID")
	f.StringVar(&p.Sort, "sort", "", "sort field")
	f.StringVar(&p.Order, "order", "", "sort order: ASC or DESC")
	f.StringVar(&p.StartDate, "start", "", "start date (yyyy-MM-dd)")
	f.StringVar(&p.EndDate, "end", "", "end date (yyyy-MM-dd)")
	f.StringVar(&dateFilterType, "date-filter", "", "date field: due_date or created_at")
	f.StringVar(&scope, "scope", "", "route scope: admin or user")
	return cmd
}

func newTicketsStatusCountCommand(rt *runtime) *cobra.Command {
	var search, scope string

	cmd := &cobra.Command{
		Use:   "status-count",
		Args:  cobra.NoArgs,
		Short: "Count tickets per status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := parseScope(scope)
			if err != nil {
				return err
			}
			c, err := rt.app.Hooks.Tickets(sc).StatusCount(cmd.Context(), search)
			if err != nil {
				return err
			}
			return rt.render(c, func(w io.Writer) error {
				return table(w, []string{"STATUS", "COUNT"}, [][]string{
					{"All", strconv.Itoa(c.All)},
					{"Open", strconv.Itoa(c.Open)},
					{"Assigned", strconv.Itoa(c.Assigned)},
					{"In Progress", strconv.Itoa(c.InProgress)},
					{"Pending", strconv.Itoa(c.Pending)},
					{"Request to Transfer", strconv.Itoa(c.RequestToTransfer)},
					{"Breach", strconv.Itoa(c.Breach)},
					{"Resolved", strconv.Itoa(c.Resolved)},
					{"Reject", strconv.Itoa(c.Reject)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search text")
	cmd.Flags().StringVar(&scope, "scope", "", "route scope: admin or user")
	return cmd
}

// exportResult — итог выгрузки для --json.
type exportResult struct {
	File  string `json:"file"`
	Bytes int    `json:"bytes"`
}

func newTicketsExportCommand(rt *runtime) *cobra.Command {
	var (
		p      backend.ExportParams
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Args:  cobra.NoArgs,
		Short: "Export tickets to an Excel file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := rt.app.Hooks.Export(cmd.Context(), p)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = file.Filename
			}
			if err := os.WriteFile(path, file.Data, 0o644); err != nil { //nolint:gosec // файл выгрузки для пользователя
				return fmt.Errorf("запись файла выгрузки: %w", err)
			}

			res := exportResult{File: path, Bytes: len(file.Data)}
			return rt.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Saved %d bytes to %s\n", res.Bytes, res.File)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default tickets-export-<date>.xlsx)")
	f.StringVar(&p.PriorityUUID, "priority", "", "priority UUID")
	f.StringVar(&p.StoreUUID, "store", "", "store UUID")
	f.StringVar(&p.StartDate, "start", "", "start date (yyyy-MM-dd)")
	f.StringVar(&p.EndDate, "end", "", "end date (yyyy-MM-dd)")
	return cmd
}

// --- dashboard ---

func newDashboardCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Args:  cobra.NoArgs,
		Short: "Dashboard metrics",
	}
	cmd.AddCommand(newDashboardSLACommand(rt))
	return cmd
}

// slaResult — средние SLA подготовки и устранения.
type slaResult struct {
	Preparation normalize.Average `json:"preparation"`
	Fixing      normalize.Average `json:"fixing"`
}

func newDashboardSLACommand(rt *runtime) *cobra.Command {
	var (
		f               model.DashboardFilter
		maintenanceType string
		dateFilterType  string
	)

	cmd := &cobra.Command{
		Use:   "sla",
		Args:  cobra.NoArgs,
		Short: "Average preparation and fixing SLA",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if maintenanceType != "" {
				t, ok := model.ParseAssignType(maintenanceType)
				if !ok {
					return fmt.Errorf("maintenance type %q: expected vendor or internal", maintenanceType)
				}
				f.MaintenanceType = t
			}
			f.DateFilterType = model.DateFilterType(dateFilterType)

			ctx := cmd.Context()
			prep, err := rt.app.Hooks.PreparationSLAAverage(ctx, f)
			if err != nil {
				return err
			}
			fix, err := rt.app.Hooks.FixingSLAAverage(ctx, f)
			if err != nil {
				return err
			}

			res := slaResult{Preparation: prep.Data, Fixing: fix.Data}
			return rt.render(res, func(w io.Writer) error {
				return table(w, []string{"METRIC", "AVERAGE", "UNIT"}, [][]string{
					{"Preparation", formatAverage(res.Preparation.Average), dash(res.Preparation.Unit)},
					{"Fixing", formatAverage(res.Fixing.Average), dash(res.Fixing.Unit)},
				})
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.StoreUUID, "store", "", "store UUID")
	fl.StringVar(&f.PriorityUUID, "priority", "", "priority UUID")
	fl.StringVar(&maintenanceType, "maintenance-type", "", "vendor or internal")
	fl.StringVar(&f.StartDate, "start", "", "start date (yyyy-MM-dd)")
	fl.StringVar(&f.EndDate, "end", "", "end date (yyyy-MM-dd)")
	fl.StringVar(&dateFilterType, "date-filter", "", "date field: due_date or created_at")
	return cmd
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pageFooter(w io.Writer, current, total, records int) error {
	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d records)\n", current, total, records)
	return err
}
