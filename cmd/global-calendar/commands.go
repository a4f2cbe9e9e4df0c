package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/global-calendar/internal/api"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/clock"
	"github.com/username/global-calendar/internal/daemon"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"github.com/username/global-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// selection resolves --zones, falling back to the configured defaults
func (a *app) selection(zoneList string) ([]zones.TimeZoneRef, error) {
	if zoneList == "" {
		return a.defaultZones, nil
	}
	return zones.ParseList(zoneList)
}

// dateFlag parses --date in the reference frame; empty means today
func (a *app) dateFlag(s string) (time.Time, error) {
	loc := a.planner.Location()
	if s == "" {
		return dateutil.StartOfDay(time.Now().In(loc)), nil
	}
	date, err := dateutil.ParseDate(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	return dateutil.StartOfDay(date), nil
}

func citiesCmd() *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the selectable world cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := zones.All()
			if exclude != "" {
				selected, err := zones.ParseList(exclude)
				if err != nil {
					return err
				}
				list = zones.Exclude(selected)
			}

			out := cmd.OutOrStdout()
			for _, city := range list {
				fmt.Fprintf(out, "%3s  %s %-16s %-32s %s\n",
					city.ID, city.Flag, city.DisplayName, city.IANAZone, city.CountryCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "Hide these cities (comma-separated IDs or names)")
	return cmd
}

func overlapCmd() *cobra.Command {
	var dateStr, zoneList string
	var start, end int

	cmd := &cobra.Command{
		Use:   "overlap",
		Short: "Show the hours when all selected cities are working",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			date, err := a.dateFlag(dateStr)
			if err != nil {
				return err
			}
			refs, err := a.selection(zoneList)
			if err != nil {
				return err
			}

			window := a.planner.Window()
			if cmd.Flags().Changed("start") {
				window.StartHour = start
			}
			if cmd.Flags().Changed("end") {
				window.EndHour = end
			}

			hours, err := overlap.ComputeOverlapHours(date, refs, window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📅 %s (%s), working hours %s\n",
				date.Format("Mon, Jan 2 2006"), date.Location(), window)
			fmt.Fprintf(out, "🤝 Overlap: %s\n", overlap.FormatHourRange(hours))

			for _, ref := range refs {
				local, err := overlap.ZoneLocalWorkingHours(date, ref, window)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "   %s %-16s %s\n", ref.Flag, ref.DisplayName, strings.Join(local, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (comma-separated IDs or names)")
	cmd.Flags().IntVar(&start, "start", 9, "Working day start hour")
	cmd.Flags().IntVar(&end, "end", 17, "Working day end hour (exclusive)")
	return cmd
}

func holidaysCmd() *cobra.Command {
	var dateStr, zoneList string
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Show public holidays for the selected cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			refs, err := a.selection(zoneList)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if year > 0 {
				occurrences, err := a.planner.HolidaysInYear(cmd.Context(), year, refs)
				if err != nil {
					return err
				}
				for _, o := range occurrences {
					fmt.Fprintf(out, "%s  %-28s %s\n",
						o.Date.Format("Mon Jan 02"), o.Holiday.Name, strings.Join(o.Holiday.Countries, ","))
				}
				return nil
			}

			date, err := a.dateFlag(dateStr)
			if err != nil {
				return err
			}
			holidays, err := a.planner.Holidays(cmd.Context(), date, refs)
			if err != nil {
				return err
			}
			if len(holidays) == 0 {
				fmt.Fprintf(out, "No holidays on %s\n", date.Format(dateLayout))
				return nil
			}
			fmt.Fprintf(out, "🎉 %s: %s\n", date.Format(dateLayout), calendar.Names(holidays))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&year, "year", 0, "List every holiday of the year instead")
	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (comma-separated IDs or names)")
	return cmd
}

func calendarCmd() *cobra.Command {
	var zoneList string
	var year, month int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print month grids with overlap and holiday markers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			refs, err := a.selection(zoneList)
			if err != nil {
				return err
			}

			now := time.Now()
			if year == 0 {
				year = now.In(a.planner.Location()).Year()
			}

			var grids []*planner.MonthGrid
			if month > 0 {
				if month > 12 {
					return fmt.Errorf("invalid month: %d", month)
				}
				grid, err := a.planner.MonthGrid(cmd.Context(), year, time.Month(month), refs, now)
				if err != nil {
					return err
				}
				grids = append(grids, grid)
			} else {
				grids, err = a.planner.YearGrid(cmd.Context(), year, refs, now)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, grid := range grids {
				printMonth(out, grid)
			}
			fmt.Fprintln(out, "Legend: H holiday, + overlap, . past, [ ] today")
			return nil
		},
	}

	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (comma-separated IDs or names, at most 3)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "Only this month (1-12)")
	return cmd
}

func cellMarker(cell *planner.DayCell) string {
	switch {
	case cell.IsHoliday():
		return "H"
	case cell.IsPast:
		return "."
	case cell.ShowOverlapBadge:
		return "+"
	default:
		return " "
	}
}

func printMonth(out io.Writer, grid *planner.MonthGrid) {
	fmt.Fprintf(out, "\n%s %d  (%d overlap days, %d holidays)\n", grid.Name, grid.Year, grid.OverlapDays, grid.HolidayDays)
	fmt.Fprintln(out, " Su   Mo   Tu   We   Th   Fr   Sa")

	for row := 0; row < 6; row++ {
		var line strings.Builder
		empty := true
		for col := 0; col < 7; col++ {
			cell := grid.Cells[row*7+col]
			if cell == nil {
				line.WriteString("     ")
				continue
			}
			empty = false
			if cell.IsToday {
				fmt.Fprintf(&line, "[%2d]%s", cell.Day, cellMarker(cell))
			} else {
				fmt.Fprintf(&line, " %2d%s ", cell.Day, cellMarker(cell))
			}
		}
		if !empty {
			fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
		}
	}
}

func weekCmd() *cobra.Command {
	var dateStr, zoneList string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show overlap hours for each day of a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			date, err := a.dateFlag(dateStr)
			if err != nil {
				return err
			}
			refs, err := a.selection(zoneList)
			if err != nil {
				return err
			}

			days, err := a.planner.Week(cmd.Context(), date, refs, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, day := range days {
				line := fmt.Sprintf("%s  %-15s", day.Date.Format("Mon Jan 02"), overlap.FormatHourRange(day.OverlapHours))
				if day.IsHoliday() {
					line += "  🎉 " + calendar.Names(day.Holidays)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Any date in the week (default today)")
	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (comma-separated IDs or names, at most 3)")
	return cmd
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Manage the appointment book",
	}
	cmd.AddCommand(appointmentsAddCmd(), appointmentsListCmd(), appointmentsDeleteCmd())
	return cmd
}

// appointmentRequest fills in the zones and rewrites --date, which accepts
// several layouts, into the YYYY-MM-DD form the book stores
func (a *app) appointmentRequest(req appointment.Request, zoneList string) (appointment.Request, time.Time, error) {
	req.Zones = nil
	if zoneList != "" {
		req.Zones = strings.Split(zoneList, ",")
	} else {
		for _, ref := range a.defaultZones {
			req.Zones = append(req.Zones, ref.ID)
		}
	}

	date, err := a.dateFlag(req.Date)
	if err != nil {
		return req, time.Time{}, err
	}
	req.Date = date.Format(dateLayout)
	return req, date, nil
}

func appointmentsAddCmd() *cobra.Command {
	var req appointment.Request
	var zoneList string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			request, date, err := a.appointmentRequest(req, zoneList)
			if err != nil {
				return err
			}
			refs, err := zones.LookupMany(request.Zones)
			if err != nil {
				return err
			}
			analysis, err := a.planner.AnalyzeDate(cmd.Context(), date, refs)
			if err != nil {
				return err
			}

			appt, err := a.book.Create(cmd.Context(), request, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ %s on %s at %s (id %s)\n", appt.Title, appt.Date, appt.Time, appt.ID)
			fmt.Fprintf(out, "   Best overlap: %s\n", analysis.Range)
			for _, z := range analysis.Zones {
				fmt.Fprintf(out, "   %s %-16s %s\n", z.Zone.Flag, z.Zone.DisplayName, strings.Join(z.Hours, " "))
			}
			fmt.Fprintf(out, "   Join: %s\n", appointment.MeetingJoinURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Title")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&req.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Time, "time", "09:00", "Time (HH:MM)")
	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (comma-separated IDs or names, at most 3)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func appointmentsListCmd() *cobra.Command {
	var past bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming (or past) appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			items := a.book.Upcoming(time.Now())
			if past {
				items = a.book.Past(time.Now())
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No appointments")
				return nil
			}
			for _, appt := range items {
				fmt.Fprintf(out, "%s %s  %-30s %s  [%s]\n",
					appt.Date, appt.Time, appt.Title, strings.Join(appt.ZoneNames(), ", "), appt.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&past, "past", false, "Show past appointments, most recent first")
	return cmd
}

func appointmentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			if err := a.book.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted %s\n", args[0])
			return nil
		},
	}
}

func clockCmd() *cobra.Command {
	var zoneList string
	var once bool

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Run the world clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			if zoneList == "" && len(a.cfg.Clock.Zones) > 0 {
				zoneList = strings.Join(a.cfg.Clock.Zones, ",")
			}
			var refs []zones.TimeZoneRef
			if zoneList != "" {
				if refs, err = zones.ParseList(zoneList); err != nil {
					return err
				}
			}

			board, err := clock.NewBoard(refs)
			if err != nil {
				return err
			}

			if once {
				fmt.Fprintln(cmd.OutOrStdout(), board.Render(time.Now()))
				return nil
			}

			d := daemon.NewDaemon(board, a.cfg.Clock.GetRefreshInterval(), cmd.OutOrStdout(), a.cfg.Clock.SystemTray, logger)
			d.WithSyncer(a.connector)
			return d.Start()
		},
	}

	cmd.Flags().StringVar(&zoneList, "zones", "", "Cities (default: clock.zones or New York, London, Tokyo)")
	cmd.Flags().BoolVar(&once, "once", false, "Print the board once and exit")
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Connect the calendar and export appointments once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "⏳ Connecting calendar...")
			if err := a.connector.Connect(ctx); err != nil {
				return err
			}
			defer a.connector.Disconnect()

			fmt.Fprintln(out, "⏳ Syncing appointments...")
			if err := a.connector.Sync(ctx); err != nil {
				return err
			}

			st := a.connector.Status()
			fmt.Fprintf(out, "✅ Synced %d appointment(s) to %s at %s\n",
				len(a.book.All()), st.ExportFile, st.LastSync.Format("15:04:05"))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.Server.Listen
			}

			router := api.NewRouter(api.RouterConfig{
				Planner:      a.planner,
				Holidays:     a.source,
				Book:         a.book,
				Connector:    a.connector,
				DefaultZones: a.defaultZones,
				RateLimit:    a.cfg.Server.RateLimit,
				RateWindow:   a.cfg.Server.GetRateWindow(),
				Logger:       logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			defer a.connector.Disconnect()

			logger.Info("Starting API",
				zap.String("listen", listen),
				zap.Int("rate_limit", a.cfg.Server.RateLimit))

			return api.Serve(ctx, listen, router, a.cfg.Server.GetShutdownTimeout(), logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default server.listen)")
	return cmd
}
