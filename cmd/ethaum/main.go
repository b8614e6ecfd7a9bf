package main

import (
	"errors"
	"fmt"
	"maps"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/config"
	"github.com/TobiSchelling/ethaum/internal/database"
	"github.com/TobiSchelling/ethaum/internal/enrich"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/logger"
	"github.com/TobiSchelling/ethaum/internal/pages"
	"github.com/TobiSchelling/ethaum/internal/server"
	"github.com/TobiSchelling/ethaum/internal/ui"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	asUser     string
	cfg        *config.Config
)

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ethaum",
	Short:   "EthAum startup credibility marketplace",
	Long:    "EthAum serves the marketplace web front-end and drives the marketplace API from the terminal.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			logger.Init("ethaum", "dev", levelFor("info"))
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.Init("ethaum", cfg.Logging.Env, levelFor(cfg.Logging.Level))
		if path != "" {
			logger.L().Debug("config loaded", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&asUser, "as", "", "Identity-provider user id to act as")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(upvoteCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(dealsCmd)
	rootCmd.AddCommand(forgetCmd)
}

func levelFor(level string) string {
	if verbose {
		return "debug"
	}
	return level
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ethaum", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/ethaum/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point api.base_url at your marketplace backend.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend reachability and identity ledger status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Backend: %s\n", cfg.API.BaseURL)
		products, err := newClient().ListProducts(cmd.Context())
		if err != nil {
			fmt.Printf("  unreachable: %v\n", err)
		} else {
			fmt.Printf("  reachable, %d products listed\n", len(products))
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("\nIdentity ledger (%s):\n", db.Path())
		fmt.Printf("  Synced users: %d\n", stats.SyncedUsers)
		fmt.Printf("  Founders: %d\n", stats.Founders)
		fmt.Printf("  Buyers: %d\n", stats.Buyers)
		fmt.Printf("  Admins: %d\n", stats.Admins)
		if stats.LastSync != "" {
			fmt.Printf("  Last sync: %s\n", stats.LastSync)
		}
		return nil
	},
}

// --- serve command ---

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		log := logger.L()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		client := newClient()
		syncer := identity.NewSyncer(client, db, log.Named("identity"))
		syncer.TTL = cfg.Identity.SyncTTL
		srv, err := server.New(server.Options{
			Config: cfg,
			API:    client,
			Enrich: enrich.New(cfg.Enrich.Enabled, cfg.Enrich.Timeout, log.Named("enrich")),
			Syncer: syncer,
			Log:    log.Named("http"),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		fmt.Printf("Starting server at http://%s (backend %s)\n", addr, cfg.API.BaseURL)
		fmt.Println("Press Ctrl+C to stop")
		return srv.Serve(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- marketplace commands ---

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the launch leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := pages.LoadLeaderboard(cmd.Context(), deps(), currentUser())
		if err != nil {
			return err
		}
		if m.Empty() {
			fmt.Println("No launches yet.")
			return nil
		}
		for i, e := range m.Entries {
			mark := "  "
			if e.UserUpvoted {
				mark = "▲ "
			}
			medal := ""
			if ui.Podium(i) {
				medal = " (" + ui.Medal(i) + ")"
			}
			fmt.Printf("%3d. %s%-28s %5d  launch #%d%s\n", e.Rank, mark, e.Name, e.Upvotes, e.ID, medal)
		}
		return nil
	},
}

var upvoteCmd = &cobra.Command{
	Use:   "upvote <launch-id>",
	Short: "Toggle your upvote on a launch (requires --as)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := pages.Upvote(cmd.Context(), deps(), currentUser(), nil, id)
		if errors.Is(err, pages.ErrSignInRequired) {
			return fmt.Errorf("upvoting needs an identity: pass --as <user-id>")
		}
		if err != nil {
			return err
		}
		state := "removed"
		if res.UserUpvoted {
			state = "added"
		}
		fmt.Printf("Upvote %s. Launch #%d now has %d upvotes.\n", state, res.ID, res.Upvotes)
		return nil
	},
}

var (
	searchFlag   string
	categoryFlag string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List marketplace startups",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := pages.LoadMarketplace(cmd.Context(), deps(), currentUser(), pages.MarketQuery{
			Search:   searchFlag,
			Category: categoryFlag,
		})
		if err != nil {
			return err
		}
		if m.Fallback {
			fmt.Println("Marketplace unavailable; showing sample startups.")
		}
		if m.Empty() {
			fmt.Println("No startups match.")
			return nil
		}
		for _, p := range m.Items {
			upvotes := ""
			if p.HasLaunch {
				upvotes = fmt.Sprintf("  ▲ %d", p.Upvotes)
			}
			fmt.Printf("[%d] %-28s %-12s trust %3d (%s)%s\n",
				p.ID, p.Name, p.Category, p.TrustScore.Int(), ui.TrustTier(p.TrustScore.Int()), upvotes)
		}
		fmt.Printf("\n%d of %d startups\n", len(m.Items), m.Total)
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Filter by name (case-insensitive)")
	productsCmd.Flags().StringVar(&categoryFlag, "category", "", "Filter by category")
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show a startup with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := pages.LoadProduct(cmd.Context(), deps(), currentUser(), id)
		if err != nil {
			return err
		}
		p := m.Product
		if m.Demo {
			fmt.Println("Startup unavailable; showing a sample profile.")
		}
		fmt.Printf("%s  [%s · %s]\n", p.Name, p.Category, p.FundingStage)
		if p.Tagline != "" {
			fmt.Println(p.Tagline)
		}
		fmt.Printf("Trust score: %d (%s)\n", p.TrustScore.Int(), ui.TrustTier(p.TrustScore.Int()))
		if b := p.ScoreBreakdown; b != nil {
			fmt.Printf("  data integrity %d · market traction %d · user sentiment %d\n",
				b.DataIntegrity.Int(), b.MarketTraction.Int(), b.UserSentiment.Int())
		}
		if l := p.Launch; l != nil && l.IsLaunched {
			fmt.Printf("Launched: %d upvotes, rank #%d\n", l.Upvotes, l.Rank)
		}
		if s := m.Sentiment; s != nil {
			fmt.Printf("Sentiment: %s across %d reviews (avg rating %.1f)\n", s.SentimentLabel, s.TotalReviews, s.AverageRating)
		}
		if len(m.Reviews) > 0 {
			fmt.Println("\nReviews:")
			for _, r := range m.Reviews {
				fmt.Printf("  %s %s\n", stars(r.Rating.Int()), r.Comment)
			}
		}
		if len(m.Updates) > 0 {
			fmt.Println("\nFrom the founders:")
			for _, u := range m.Updates {
				fmt.Printf("  %s  %s\n", u.Title, u.URL)
			}
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <id1> <id2>",
	Short: "Compare two startups side by side",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left, err := parseID(args[0])
		if err != nil {
			return err
		}
		right, err := parseID(args[1])
		if err != nil {
			return err
		}
		m, err := pages.LoadCompare(cmd.Context(), deps(), currentUser(), left, right)
		if err != nil {
			return err
		}
		if m.Same {
			return fmt.Errorf("pick two different startups")
		}
		if m.Result == nil {
			fmt.Println("Comparison unavailable.")
			return nil
		}
		a, b := m.Result.Pair.Startup1, m.Result.Pair.Startup2
		fmt.Printf("%-24s %-20s %-20s\n", "", a.Name, b.Name)
		fmt.Printf("%-24s %-20d %-20d\n", "Trust score", a.TrustScore.Int(), b.TrustScore.Int())
		fmt.Printf("%-24s %-20s %-20s\n", "Pricing", a.PricingTier, b.PricingTier)
		fmt.Printf("%-24s %-20d %-20d\n", "Implementation (days)", a.AvgImplementationDays, b.AvgImplementationDays)
		fmt.Printf("%-24s %-20d %-20d\n", "ROI (%)", a.ROIPercentage, b.ROIPercentage)
		for _, name := range slices.Sorted(maps.Keys(m.Result.Metrics)) {
			fmt.Printf("%-24s winner: %s\n", name, m.Result.Metrics[name].Winner)
		}
		if m.Result.Recommendation != "" {
			fmt.Printf("\n%s\n", m.Result.Recommendation)
		}
		return nil
	},
}

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List enterprise pilot deals",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := pages.LoadDeals(cmd.Context(), deps(), currentUser())
		if err != nil {
			return err
		}
		if m.Empty() {
			fmt.Println("No pilot deals are open right now.")
			return nil
		}
		for _, d := range m.Deals {
			fmt.Printf("[%d] %s: %s (%s)\n", d.ID, d.StartupName, d.PilotTitle, d.PilotDuration)
			fmt.Printf("    ideal buyer: %s · credibility %d\n", d.IdealBuyer, d.CredibilityScore.Int())
		}
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <user-id>",
	Short: "Drop an identity from the sync ledger so it is re-synced on next visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		removed, err := db.ForgetUser(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("No ledger entry for %s\n", args[0])
			return nil
		}
		fmt.Printf("Forgot %s\n", args[0])
		return nil
	},
}

func newClient() *api.Client {
	return api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserHeader(cfg.API.UserHeader),
		api.WithLogger(logger.L().Named("api")),
	)
}

func deps() pages.Deps {
	log := logger.L()
	return pages.Deps{
		API:       newClient(),
		Enrich:    enrich.New(cfg.Enrich.Enabled, cfg.Enrich.Timeout, log.Named("enrich")),
		Log:       log,
		PublicURL: cfg.PublicURL(),
	}
}

func currentUser() identity.User {
	return identity.User{ID: strings.TrimSpace(asUser)}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func stars(rating int) string {
	var b strings.Builder
	for _, filled := range ui.Stars(rating) {
		if filled {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, database.FileName))
}

// Compile-time check that the ledger satisfies the syncer's interface.
var _ identity.Ledger = (*database.DB)(nil)
