package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/soocke/pong-tracker-go/app"
	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/report"
	"github.com/soocke/pong-tracker-go/store"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to the JSON configuration file")
	debugFlag := flag.Bool("debug", false, "debug logging and runtime diagnostics")
	listSessions := flag.Bool("sessions", false, "list recorded sessions and exit")
	exportID := flag.String("export", "", "write the report of a recorded session and exit")
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stdout, level)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}

	switch {
	case *listSessions:
		err = printSessions(cfg, logger)
	case *exportID != "":
		err = exportSession(cfg, logger, *exportID)
	default:
		err = run(cfg, *cfgPath, logger)
	}
	if err != nil {
		logger.Error("exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	application, err := app.NewApp("Pong Tracker", 1100, 820, cfg, cfgPath, logger)
	if err != nil {
		return err
	}
	application.Start()
	return nil
}

func printSessions(cfg *config.Config, logger *slog.Logger) error {
	st, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	sessions, err := st.Sessions(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSHOTS\tMAX\tFIRST\tLAST")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\t%s\n", s.SessionID, s.Shots, s.MaxSpeed,
			s.First.Format("2006-01-02 15:04:05"), s.Last.Format("15:04:05"))
	}
	return w.Flush()
}

func exportSession(cfg *config.Config, logger *slog.Logger, id string) error {
	session, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}
	st, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	stored, err := st.Shots(context.Background(), session)
	if err != nil {
		return err
	}
	shots := make([]hit.ShotRecord, 0, len(stored))
	lengthUnit := cfg.LengthUnit
	for _, s := range stored {
		shots = append(shots, s.ShotRecord)
		lengthUnit = s.LengthUnit
	}
	htmlPath, pngPath, err := report.Export(cfg.ReportDir, session, shots, report.Options{
		Title:       "Session " + id,
		LengthUnit:  lengthUnit,
		DisplayUnit: cfg.DisplayUnit,
	})
	if err != nil {
		return err
	}
	logger.Info("report exported", "html", htmlPath, "png", pngPath, "shots", len(shots))
	return nil
}
