package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/config"
	"github.com/username/global-calendar/internal/integration"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	// embedded IANA database for hosts without zoneinfo
	_ "time/tzdata"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "global-calendar",
		Short: "Multi-timezone working-hours calendar",
		Long:  "Find the hours when every selected city is at work, see public holidays and keep a small appointment book",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Logging.File != "" {
				logger, err = initFileLogger(cfg.Logging.File, cfg.Logging.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ./config.yaml)")

	rootCmd.AddCommand(
		citiesCmd(),
		overlapCmd(),
		holidaysCmd(),
		calendarCmd(),
		weekCmd(),
		appointmentsCmd(),
		clockCmd(),
		syncCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app wires the components every command shares
type app struct {
	cfg          *config.Config
	source       calendar.Source
	planner      *planner.Planner
	book         *appointment.Book
	connector    *integration.Connector
	defaultZones []zones.TimeZoneRef
}

func initializeApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	source, err := initializeHolidaySource(cfg)
	if err != nil {
		return nil, err
	}

	window := overlap.WorkingHoursWindow{
		StartHour: cfg.WorkingHours.Start,
		EndHour:   cfg.WorkingHours.End,
	}
	loc := cfg.WorkingHours.GetReferenceLocation()

	p, err := planner.NewPlanner(source, window, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	book := appointment.NewBook(cfg.Appointments.StateFile, p, loc, logger)
	if err := book.Load(); err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	p.WithAppointments(book)

	connector := integration.NewConnector(integration.Options{
		ConnectDelay:     cfg.Integration.GetConnectDelay(),
		SyncDelay:        cfg.Integration.GetSyncDelay(),
		DelayJitter:      cfg.Integration.DelayJitter,
		AutoSync:         cfg.Integration.AutoSync,
		AutoSyncSchedule: cfg.Integration.AutoSyncCron,
		ExportFile:       cfg.Integration.ExportFile,
		Location:         loc,
	}, book, logger)

	defaults, err := zones.LookupMany(cfg.Zones.Default)
	if err != nil {
		return nil, fmt.Errorf("zones.default: %w", err)
	}

	return &app{
		cfg:          cfg,
		source:       source,
		planner:      p,
		book:         book,
		connector:    connector,
		defaultZones: defaults,
	}, nil
}

func initializeHolidaySource(cfg *config.Config) (calendar.Source, error) {
	switch cfg.Holidays.Source {
	case config.HolidaySourceFile:
		logger.Info("Using holiday file", zap.String("file", cfg.Holidays.File))
		fileSource := calendar.NewFileSource(cfg.Holidays.File, logger)
		if err := fileSource.Load(); err != nil {
			logger.Warn("Failed to load holiday file, using built-in table",
				zap.Error(err))
			return calendar.NewStaticSource(), nil
		}
		return fileSource, nil

	case config.HolidaySourceRemote:
		logger.Info("Using public holiday API",
			zap.String("api_url", cfg.Holidays.APIURL),
			zap.Strings("countries", cfg.Holidays.Countries))

		var fallback calendar.Source = calendar.NewStaticSource()
		if cfg.Holidays.File != "" {
			fallback = calendar.NewFileSource(cfg.Holidays.File, logger)
		}

		composite := calendar.NewCompositeSource(
			calendar.NewRemoteSource(cfg.Holidays.APIURL, cfg.Holidays.Countries, cfg.Holidays.GetCacheTTL(), logger),
			fallback,
			logger,
		)
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback holidays, continuing with API only",
				zap.Error(err))
		}
		return composite, nil

	case config.HolidaySourceBuiltin, "":
		return calendar.NewStaticSource(), nil

	default:
		return nil, fmt.Errorf("unknown holiday source: %s", cfg.Holidays.Source)
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
