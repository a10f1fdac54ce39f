// Command rotoctl runs the ranking engine against a league file without the API.
//
// Usage:
//
//	rotoctl categories
//	rotoctl standings --file league.json --categories HR,SB,ERA
//	rotoctl analyze --file league.json --team t3 --k 4 --top 3 --policy skip
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/models"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	policy   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:          "rotoctl",
		Short:        "Rotisserie standings and trade analysis CLI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.policy, "policy", envOr("INVALID_STAT_POLICY", string(logic.PolicyFail)), "Invalid stat policy: fail or skip")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level (logs go to stderr)")

	root.AddCommand(categoriesCmd())
	root.AddCommand(standingsCmd(&g))
	root.AddCommand(analyzeCmd(&g))
	return root
}

// --------------------------------------------------------------------------
// categories command
// --------------------------------------------------------------------------

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the scored categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), category.DefaultRegistry().All())
		},
	}
}

// --------------------------------------------------------------------------
// standings command
// --------------------------------------------------------------------------

func standingsCmd(g *globalFlags) *cobra.Command {
	var (
		file       string
		categories []string
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Rank the teams of a league file",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(g, 0, 0)
			if err != nil {
				return err
			}
			league, err := loadLeague(file)
			if err != nil {
				return err
			}

			teams := league.Teams
			var warnings []string
			if len(teams) == 0 {
				teams, warnings = logic.RollupTeams(svc.Registry(), league.Rosters, league.Players)
			}
			st, ignored, err := svc.Standings(cmd.Context(), teams, categories)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			return writeJSON(cmd.OutOrStdout(), models.StandingsResponse{
				Standings:         st,
				IgnoredCategories: ignored,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "League JSON file (- for stdin)")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Categories to rank (default: all)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// analyze command
// --------------------------------------------------------------------------

func analyzeCmd(g *globalFlags) *cobra.Command {
	var (
		file   string
		team   string
		k      int
		top    int
		waiver int
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Produce the full league report",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(g, top, waiver)
			if err != nil {
				return err
			}
			league, err := loadLeague(file)
			if err != nil {
				return err
			}

			opts := models.AnalysisOptions{TargetTeam: team, TopN: top, WaiverPerCategory: waiver}
			if cmd.Flags().Changed("k") {
				opts.TopK = &k
			}
			report, err := svc.Analyze(cmd.Context(), league, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "League JSON file (- for stdin)")
	cmd.Flags().StringVar(&team, "team", "", "Only analyse this team")
	cmd.Flags().IntVar(&k, "k", logic.DefaultTopK, "Strengths and weaknesses per team")
	cmd.Flags().IntVar(&top, "top", logic.DefaultTopN, "Trade partners per team")
	cmd.Flags().IntVar(&waiver, "waiver", logic.DefaultWaiverTargets, "Waiver targets per weak category")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newService(g *globalFlags, topN, waiver int) (*logic.AnalysisService, error) {
	policy, err := logic.ParsePolicy(g.policy)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logic.NewAnalysisService(logic.AnalysisConfig{
		Registry:          category.DefaultRegistry(),
		Policy:            policy,
		TopN:              topN,
		WaiverPerCategory: waiver,
		Logger:            log.Sugar(),
	}), nil
}

// newLogger writes to stderr so stdout stays pure JSON.
func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func loadLeague(path string) (models.League, error) {
	var league models.League
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return league, fmt.Errorf("open league file: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&league); err != nil {
		return league, fmt.Errorf("decode league file: %w", err)
	}
	return league, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
