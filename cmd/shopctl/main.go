package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/shopctl/internal/agent"
	"github.com/jask/shopctl/internal/config"
	"github.com/jask/shopctl/internal/history"
	"github.com/jask/shopctl/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var initial agent.Request

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Terminal controller for the shopping agent",
		Long:          "shopctl launches the external shopping agent, streams its progress into a step checklist, and presents the final cart, validation decision and payment result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), initial)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&initial.Requirements, "requirements", "r", "", "what to buy; skips the input form when set")
	f.StringVarP(&initial.Budget, "budget", "b", "", "budget in dollars, appended to the requirements")
	f.StringVarP(&initial.Domain, "domain", "d", "", "merchant site to shop on")
	f.StringVarP(&initial.Instructions, "instructions", "i", "", "extra guidance passed to the agent")
	f.BoolVar(&initial.Headless, "headless", false, "run the agent's browser headless")

	return cmd
}

func run(ctx context.Context, initial agent.Request) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// The supervisor spawns the agent with this context, so cancelling it
	// kills the child. Signals cancel it directly; quitting the TUI cancels
	// it on the way out, so no run outlives the controller.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// History is best effort: a broken database costs the recent-runs list,
	// not the session.
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Printf("history unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	sup := &agent.Supervisor{
		Command:   cfg.Agent.Command,
		WorkDir:   cfg.Agent.WorkDir,
		OutputDir: cfg.Agent.OutputDir,
		LogDir:    cfg.Agent.LogDir,
	}

	app := tui.New(ctx, cfg, sup, store, initial)
	_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
