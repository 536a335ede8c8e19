package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/AMCarbonaro/snapbot/agent"
	"github.com/AMCarbonaro/snapbot/browser"
	"github.com/AMCarbonaro/snapbot/config"
	"github.com/AMCarbonaro/snapbot/inspect"
	"github.com/AMCarbonaro/snapbot/log"
	"github.com/AMCarbonaro/snapbot/persona"
	"github.com/AMCarbonaro/snapbot/reply"
	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/types"
	"github.com/AMCarbonaro/snapbot/utils"
)

var version = "dev"

func printSummary(stats []types.CycleStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Chat", "Replies", "Skips", "Errors", "Last Reply")
	totalReplies, totalErrors := 0, 0
	for _, s := range stats {
		last := ""
		if !s.LastReply.IsZero() {
			last = s.LastReply.Format("15:04:05")
		}
		table.Append([]string{s.Name, strconv.Itoa(s.Replies), strconv.Itoa(s.Skips), strconv.Itoa(s.Errors), last})
		totalReplies += s.Replies
		totalErrors += s.Errors
	}
	table.Footer("total", strconv.Itoa(totalReplies), "", strconv.Itoa(totalErrors), "")
	table.Render()
}

func runInspect(htmlPath string, pick bool, sels *selectors.Set) error {
	raw, err := os.ReadFile(htmlPath)
	if err != nil {
		return err
	}
	report, err := inspect.Analyze(string(raw))
	if err != nil {
		return err
	}
	var update map[string]string
	if pick {
		update, err = inspect.PickSelectors(report)
		if err != nil {
			return err
		}
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Role", "Selector", "Count", "Example")
		for _, role := range selectors.Roles {
			for _, cand := range report[role] {
				example := ""
				if len(cand.Examples) > 0 {
					example = cand.Examples[0]
				}
				table.Append([]string{string(role), utils.ShortenString(cand.Selector, 50), strconv.Itoa(cand.Count), example})
			}
		}
		table.Render()
		update = report.Merge(sels)
	}
	if len(update) == 0 {
		slog.Info("selectors look current, nothing to change")
		return nil
	}
	// print a ready-to-paste config snippet
	yamlData, err := yaml.Marshal(map[string]any{"agent": map[string]any{"selectors": update}})
	if err != nil {
		return err
	}
	fmt.Println(string(yamlData))
	return nil
}

func main() {
	configLoc := flag.String("c", "./config.yml", "The location of the configuration file. If the file does not exist the configuration is read from environment variables only.")
	urlOverride := flag.String("url", "", "Override the target page url from the config.")
	enable := flag.Bool("enable", false, "Start with the reply agent enabled instead of waiting for it to be switched on.")
	headless := flag.Bool("headless", false, "Run the browser headless. Note that a manual login needs a visible window first.")
	debugFlag := flag.Bool("debug", false, "Prints debug logs.")
	summaryFlag := flag.Bool("summary", false, "Print a per-chat summary on shutdown.")
	inspectFile := flag.String("inspect", "", "Analyze the given html snapshot of the target page and propose selectors, then exit.")
	pickFlag := flag.Bool("pick", false, "Interactively pick proposed selectors. Works in combination with the -inspect flag.")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective configuration and exit.")
	printVersion := flag.Bool("v", false, "The version of snapbot.")

	flag.Parse()

	if *printVersion {
		buildInfo, ok := debug.ReadBuildInfo()
		if ok {
			if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
				fmt.Println(buildInfo.Main.Version)
				return
			}
		}
		fmt.Println(version)
		return
	}

	config.Debug = *debugFlag
	log.InitializeDefaultLogger()

	loc := *configLoc
	if _, err := os.Stat(loc); err != nil {
		loc = ""
	}
	cfg, err := config.NewConfig(loc)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		os.Exit(1)
	}
	if *urlOverride != "" {
		cfg.Browser.URL = *urlOverride
	}
	if *headless {
		cfg.Browser.Headless = true
	}
	if *enable {
		cfg.Agent.Enabled = true
	}

	if *dumpConfig {
		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			slog.Error(fmt.Sprintf("error while marshaling. %v", err))
			os.Exit(1)
		}
		fmt.Println(string(yamlData))
		return
	}

	state := agent.NewState(&cfg.Agent)

	if *inspectFile != "" {
		if err := runInspect(*inspectFile, *pickFlag, state.Selectors()); err != nil {
			slog.Error(fmt.Sprintf("%v", err))
			os.Exit(1)
		}
		return
	}

	if cfg.Agent.PersonaCharacter != "" {
		if ch := persona.FindCharacter(cfg.Agent.PersonaCharacter); ch != nil {
			state.SetPersona(true, ch.Config)
		} else {
			slog.Warn("unknown persona character", slog.String("name", cfg.Agent.PersonaCharacter))
		}
	}

	// a persisted persona selection for this account wins over the
	// config file
	if cfg.Agent.AccountID != "" {
		store := persona.NewStore(config.DefaultPersonaStorePath())
		if stored := store.Get(cfg.Agent.AccountID); stored != nil && stored.Config != nil {
			state.SetPersona(stored.Enabled, *stored.Config)
		}
	}

	if cfg.Generation.APIKey == "" {
		slog.Warn("GROQ_API_KEY missing, replies will use the canned fallback only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := browser.NewHost(&cfg.Browser, cfg.Timing.PageCallTimeout)
	defer host.Close()
	if err := host.Start(ctx); err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		os.Exit(1)
	}
	go host.RunReloadLoop(ctx, cfg.Timing.ReloadInterval)

	scanner := agent.NewScanner(host, state, cfg.Scan)
	generator := reply.NewGenerator(reply.NewGroqClient(&cfg.Generation))
	engine := agent.NewEngine(host, state, scanner, generator, nil, cfg.Timing)

	slog.Info("agent starting",
		slog.String("version", version),
		slog.Bool("enabled", state.Enabled()),
		slog.String("url", cfg.Browser.URL))
	engine.Run(ctx)

	if *summaryFlag {
		printSummary(state.Stats())
	}
}
