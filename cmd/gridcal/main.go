package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"gridcal/config"
	"gridcal/internal/clients/caldav"
	"gridcal/internal/clients/realtime"
	"gridcal/internal/clients/rest"
	"gridcal/internal/scheduler"
	"gridcal/internal/service"
	"gridcal/internal/storage"
	"gridcal/internal/store"
	"gridcal/internal/tui"
)

// programRefresher forwards scheduler ticks onto the UI loop.
type programRefresher struct {
	p *tea.Program
}

func (r programRefresher) RequestRefresh() {
	r.p.Send(tui.RefreshMsg{})
}

func main() {
	logFile, err := os.OpenFile("gridcal.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var cache *storage.Storage
	if cfg.DatabasePath != "" {
		cache, err = storage.New(cfg.DatabasePath)
		if err != nil {
			log.Printf("Offline cache disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}

	restClient := rest.NewClient(cfg.APIBaseURL)
	rtClient := realtime.New(cfg.RealtimeURL)
	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)

	svc := service.NewCalendarService(store.New(tui.InitialWindow(cfg)), restClient, rtClient, cache, caldavClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rtClient.Run(ctx)

	sched := scheduler.New(cfg)
	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	p := tea.NewProgram(
		tui.New(cfg, svc, rtClient),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	sched.SetRefresher(programRefresher{p: p})

	log.Printf("gridcal started (realtime client %s)", rtClient.ClientID())

	if _, err := p.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}

	cancel()
	sched.Stop()
	log.Println("gridcal stopped")
}
