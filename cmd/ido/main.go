package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jarjarbinks8341/tinder-ido/internal/app"
	"github.com/Jarjarbinks8341/tinder-ido/internal/config"
	"github.com/Jarjarbinks8341/tinder-ido/internal/db"
	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
	"github.com/Jarjarbinks8341/tinder-ido/internal/logging"
	"github.com/Jarjarbinks8341/tinder-ido/internal/migrate"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
	"github.com/Jarjarbinks8341/tinder-ido/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ido",
	Short: "Tinder IDO matchmaking backend",
	Long: `ido runs the matchmaking API and inspects its workspace.
- Profiles register with email and password and get a matchmaker agent.
- Candidates are every other profile the viewer has not swiped on yet.
- A right swipe queues an outreach task for the swiper's agent; two right swipes make a match.
- Event log: every change, view with 'ido log tail'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := db.EnsureWorkspace(viper.GetString("workspace"))
		return err
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("IDO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default <workspace>/"+config.FileName+")")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "debug logging")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(swipeCmd())
	rootCmd.AddCommand(matchesCmd())
	rootCmd.AddCommand(agentCmd())
	rootCmd.AddCommand(logCmd())
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("base-path") {
				cfg.Server.BasePath = basePath
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a, err := app.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			handler, err := server.New(server.Config{Engine: a.Engine, BasePath: cfg.Server.BasePath, Log: log})
			if err != nil {
				return err
			}
			if len(cfg.Server.CORSOrigins) > 0 {
				handler = cors.New(cors.Options{
					AllowedOrigins:   cfg.Server.CORSOrigins,
					AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
					AllowedHeaders:   []string{"Authorization", "Content-Type"},
					AllowCredentials: true,
				}).Handler(handler)
			}
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("serving api",
					zap.String("addr", cfg.Server.Addr),
					zap.String("base_path", cfg.Server.BasePath),
					zap.String("jwt_secret", logging.Redact(cfg.Auth.JWTSecret)))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			fmt.Printf("Serving Tinder IDO API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n",
				cfg.Server.Addr, cfg.Server.BasePath, cfg.Server.BasePath)
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (overrides config)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbCfg := db.Config{Workspace: cfg.Database.Workspace, Name: cfg.Database.Name}
			conn, err := db.Open(dbCfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			version, err := migrate.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"path": db.Path(dbCfg), "version": version})
			}
			fmt.Printf("%s at schema version %d\n", db.Path(dbCfg), version)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long:  "Configuration lives in " + config.FileName + " inside the workspace; IDO_JWT_SECRET overrides the signing secret.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			shown := *cfg
			shown.Auth.JWTSecret = logging.Redact(cfg.Auth.JWTSecret)
			if viper.GetBool("json") {
				return printJSON(shown)
			}
			out, err := shown.YAML()
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate config",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadConfig()
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func userCmd() *cobra.Command {
	usr := &cobra.Command{
		Use:   "user",
		Short: "Manage profiles",
	}
	usr.AddCommand(userRegisterCmd())
	usr.AddCommand(userListCmd())
	usr.AddCommand(userDeleteCmd())
	return usr
}

func userRegisterCmd() *cobra.Command {
	var opts engine.RegisterOptions
	var gender, income, education, industry string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Gender = domain.Gender(gender)
			opts.IncomeRange = domain.IncomeRange(income)
			opts.Education = domain.Education(education)
			opts.Industry = domain.Industry(industry)
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				p, err := a.Engine.Register(ctx, opts)
				if err != nil {
					return err
				}
				return printProfiles(p, []domain.Profile{p})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&gender, "gender", "", "male|female|other")
	cmd.Flags().IntVar(&opts.Age, "age", 0, "age in years")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location")
	cmd.Flags().StringVar(&opts.Bio, "bio", "", "bio")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "interest tag (repeatable)")
	cmd.Flags().StringVar(&income, "income-range", "", "income range")
	cmd.Flags().StringVar(&education, "education", "", "education level")
	cmd.Flags().StringVar(&industry, "industry", "", "industry")
	for _, f := range []string{"email", "password", "name", "gender", "age"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.ListProfiles(ctx)
				if err != nil {
					return err
				}
				return printProfiles(items, items)
			})
		},
	}
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete a profile and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Engine.DeleteProfile(ctx, args[0]); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"deleted": args[0]})
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
}

func swipeCmd() *cobra.Command {
	var actor, target, direction string
	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Record a swipe on behalf of a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.Engine.RecordSwipe(ctx, actor, target, domain.Direction(direction))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Swipe", "Direction", "Target", "Match", "Outreach Task"})
				matchID, taskID := "", ""
				if res.Match != nil {
					matchID = res.Match.ID
				}
				if res.OutreachTask != nil {
					taskID = res.OutreachTask.ID
				}
				tw.AppendRow(table.Row{res.Swipe.ID, res.Swipe.Direction, res.Swipe.TargetID, matchID, taskID})
				fmt.Println(tw.Render())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "swiping profile id")
	cmd.Flags().StringVar(&target, "target", "", "target profile id")
	cmd.Flags().StringVar(&direction, "direction", "", "left|right")
	for _, f := range []string{"actor", "target", "direction"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func matchesCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List a profile's matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.ListMatches(ctx, user)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Matched With", "Name", "Matched At"})
				for _, m := range items {
					other := m.Other(user)
					name := ""
					if m.ProfileA != nil && m.ProfileA.ID == other {
						name = m.ProfileA.Name
					} else if m.ProfileB != nil && m.ProfileB.ID == other {
						name = m.ProfileB.Name
					}
					tw.AppendRow(table.Row{m.ID, other, name, m.MatchedAt})
				}
				fmt.Println(tw.Render())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "profile id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func agentCmd() *cobra.Command {
	var user string
	agt := &cobra.Command{
		Use:   "agent",
		Short: "Inspect a profile's matchmaker agent",
	}
	agt.PersistentFlags().StringVar(&user, "user", "", "profile id")
	_ = agt.MarkPersistentFlagRequired("user")
	agt.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				agent, err := a.Engine.GetAgent(ctx, user)
				if err != nil {
					return err
				}
				return printJSONOrTable(agent)
			})
		},
	})
	agt.AddCommand(&cobra.Command{
		Use:   "tasks",
		Short: "List the agent's outreach tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.ListOutreachTasks(ctx, user)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Target", "Name", "Status", "Created At"})
				for _, t := range items {
					name := ""
					if t.Target != nil {
						name = t.Target.Name
					}
					tw.AppendRow(table.Row{t.ID, t.TargetID, name, t.Status, t.CreatedAt})
				}
				fmt.Println(tw.Render())
				return nil
			})
		},
	})
	return agt
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "Every registration, edit, swipe, match and outreach task leaves an event.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var f repo.EventFilters
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				events, err := a.Engine.ListEvents(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "TS", "Type", "Entity", "Actor"})
				for _, ev := range events {
					tw.AppendRow(table.Row{ev.ID, ev.TS, ev.Type, ev.EntityKind + ":" + ev.EntityID, ev.ActorID})
				}
				fmt.Println(tw.Render())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&f.Limit, "n", "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	cmd.Flags().StringVar(&f.ActorID, "actor", "", "actor profile id")
	return cmd
}

// --- helpers ---

// loadConfig reads the workspace config (or --config), then applies
// environment overrides. A relative database workspace resolves against
// the CLI workspace.
func loadConfig() (*config.Config, error) {
	workspace := viper.GetString("workspace")
	var (
		cfg *config.Config
		err error
	)
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.FromFile(path)
	} else {
		cfg, err = config.LoadOptional(workspace)
	}
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Database.Workspace) {
		cfg.Database.Workspace = filepath.Join(workspace, cfg.Database.Workspace)
	}
	if secret := viper.GetString("jwt_secret"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if viper.GetBool("debug") {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.JSON, cfg.Log.Debug)
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printProfiles(v any, items []domain.Profile) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Email", "Name", "Gender", "Age", "Location", "Tags"})
	for _, p := range items {
		tw.AppendRow(table.Row{p.ID, p.Email, p.Name, p.Gender, p.Age, p.Location, strings.Join(p.Tags, ",")})
	}
	fmt.Println(tw.Render())
	return nil
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	return tw
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
