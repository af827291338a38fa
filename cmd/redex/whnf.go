package main

import (
	"context"
	"fmt"
	"log/slog"

	"charm.land/lipgloss/v2"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vito/redex/pkg/check"
	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/ioctx"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/prelude"
	"github.com/vito/redex/pkg/whnf"
)

var (
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	arrowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type whnfFlags struct {
	All     bool
	Args    []uint
	Mode    string
	NoCache bool
	AST     bool
	Stats   bool
}

func whnfCmd(cfg *Config) *cobra.Command {
	var flags whnfFlags

	cmd := &cobra.Command{
		Use:   "whnf [flags] NAME...",
		Short: "Reduce constants to weak head normal form",
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.All && len(args) > 0 {
				return fmt.Errorf("--all takes no names")
			}
			if !flags.All && len(args) == 0 {
				return fmt.Errorf("expected at least one constant name, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cfg)
			if err != nil {
				return err
			}
			wcfg := config.WhnfConfig()
			if flags.Mode != "" {
				mode, err := whnf.ParseTransparencyMode(flags.Mode)
				if err != nil {
					return err
				}
				wcfg.Transparency = mode
			}
			if flags.NoCache {
				wcfg.Cache = false
			}

			e, err := prelude.New()
			if err != nil {
				return err
			}

			names := make([]expr.Name, len(args))
			for i, arg := range args {
				names[i] = expr.Name(arg)
			}
			if flags.All {
				names = e.Names()
			}

			results, err := reduceAll(cmd.Context(), e, wcfg, names, flags.Args)
			if err != nil {
				return err
			}
			printResults(cmd.Context(), results, flags)

			if n := countFailed(results); n > 0 {
				return fmt.Errorf("%d of %d reductions failed", n, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.All, "all", false, "Reduce every declaration in the prelude")
	cmd.Flags().UintSliceVar(&flags.Args, "arg", nil, "Nat literal to apply each constant to (repeatable)")
	cmd.Flags().StringVarP(&flags.Mode, "mode", "m", "", "Transparency mode: instances, reducible, default or all")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable the reduction cache")
	cmd.Flags().BoolVar(&flags.AST, "ast", false, "Dump the result's syntax tree")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "Print reduction step counts")

	return cmd
}

type reduction struct {
	Input  expr.Expr
	Result expr.Expr
	Stats  whnf.Stats
	Err    error
}

// reduceAll reduces each named constant in its own session, in parallel.
// Results come back in the order of names; a failed reduction is reported
// in its result rather than cancelling the others.
func reduceAll(ctx context.Context, e *env.Environment, cfg whnf.Config, names []expr.Name, args []uint) ([]reduction, error) {
	results := make([]reduction, len(names))
	for i, name := range names {
		info, ok := e.Find(name)
		if !ok {
			return nil, fmt.Errorf("unknown constant '%s'", name)
		}
		results[i].Input = applyArgs(constOf(info), args)
	}

	eg, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		input := results[i].Input
		eg.Go(func() error {
			s := whnf.NewSession(whnf.Context{Env: e},
				whnf.WithConfig(cfg),
				whnf.WithLogger(slog.Default().With("name", string(name))),
			)
			check.New(s)

			res, err := s.Whnf(gctx, input)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].Err = err
				return nil
			}
			results[i].Result = res
			results[i].Stats = s.Stats()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// constOf refers to info with every universe parameter set to zero.
func constOf(info env.ConstantInfo) expr.Expr {
	base := info.Base()
	levels := make([]level.Level, len(base.LevelParams))
	for i := range levels {
		levels[i] = level.Zero
	}
	return expr.NewConst(base.Name, levels...)
}

func applyArgs(f expr.Expr, args []uint) expr.Expr {
	lits := make([]expr.Expr, len(args))
	for i, n := range args {
		lits[i] = expr.NatLit(uint64(n))
	}
	return expr.MkApp(f, lits...)
}

func printResults(ctx context.Context, results []reduction, flags whnfFlags) {
	stdout := ioctx.StdoutFromContext(ctx)
	for _, r := range results {
		if r.Err != nil {
			_, _ = lipgloss.Fprintf(stdout, "%s %s %s\n",
				nameStyle.Render(r.Input.String()),
				arrowStyle.Render("!!"),
				errorStyle.Render(r.Err.Error()))
			continue
		}
		_, _ = lipgloss.Fprintf(stdout, "%s %s %s\n",
			nameStyle.Render(r.Input.String()),
			arrowStyle.Render("~>"),
			resultStyle.Render(r.Result.String()))
		if flags.AST {
			_, _ = fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(r.Result))
		}
		if flags.Stats {
			_, _ = lipgloss.Fprintln(stdout, dimStyle.Render("  "+r.Stats.String()))
		}
	}
}

func countFailed(results []reduction) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
