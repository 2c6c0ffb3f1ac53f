package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vsradar/vsradar/internal/archive"
	"github.com/vsradar/vsradar/internal/config"
	"github.com/vsradar/vsradar/pkg/alert"
	"github.com/vsradar/vsradar/pkg/engine"
	"github.com/vsradar/vsradar/pkg/server"
	"github.com/vsradar/vsradar/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func openArchive(cfg *config.Config) (archive.Store, error) {
	if cfg.Database.Path == "" {
		return nil, nil
	}
	return archive.New(cfg.Database.Path)
}

func buildEngine(cfg *config.Config, history archive.Store) *engine.Engine {
	shorts := source.NewShorts(cfg.Shorts.Pages)

	filter := source.NewFilter(cfg.News.ExcludeKeywords)
	feeds := make([]source.Feed, len(cfg.News.Feeds))
	for i, f := range cfg.News.Feeds {
		feeds[i] = source.Feed{Name: f.Name, URL: f.URL}
	}
	rss := source.NewRSS(feeds, filter)

	return engine.New(shorts, rss, history, buildAlertManager(cfg), nil)
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	history, err := openArchive(cfg)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if history != nil {
		defer history.Close()
	}

	eng := buildEngine(cfg, history)
	srv := server.New(eng, history, port)
	return srv.ListenAndServe()
}

func runFeed(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	eng := buildEngine(cfg, nil)
	videos := eng.RankedVideos(context.Background(), "cli")

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(videos)
	}

	if len(videos) == 0 {
		fmt.Println("no videos collected (shorts pages unreachable?)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tBOOSTS\tURL")
	for _, v := range videos {
		fmt.Fprintf(w, "%d\t%.1f\t%d\t%s\n", v.Rank, v.Score, v.TotalBoosts, v.URL)
	}
	return w.Flush()
}

func runNews(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	eng := buildEngine(cfg, nil)
	stories, _ := eng.RankedNews(context.Background())

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stories)
	}

	if len(stories) == 0 {
		fmt.Println("no trending stories (feeds unreachable?)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tSOURCES\tMENTIONS\tTITLE")
	for _, s := range stories {
		fmt.Fprintf(w, "%d\t%.2f\t%d\t%d\t%s\n", s.Rank, s.Score, s.SourceCount, s.Mentions, s.Title)
	}
	return w.Flush()
}

func runLeaders(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	history, err := openArchive(cfg)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if history == nil {
		fmt.Println("no archive configured (set database.path)")
		return nil
	}
	defer history.Close()

	leaders, err := history.ListLeaders(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("list leaders: %w", err)
	}

	if len(leaders) == 0 {
		fmt.Println("no winners recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tSCORE\tBOOSTS\tVIDEO")
	for _, l := range leaders {
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%s\n", l.Day, l.Score, l.TotalBoosts, l.URL)
	}
	return w.Flush()
}
