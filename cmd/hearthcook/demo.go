package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/hearthcook/internal/clock"
	"github.com/hammamikhairi/hearthcook/internal/config"
	"github.com/hammamikhairi/hearthcook/internal/display"
	"github.com/hammamikhairi/hearthcook/internal/inventory"
	"github.com/hammamikhairi/hearthcook/internal/notify"
	"github.com/hammamikhairi/hearthcook/internal/session"
)

// newDemoCmd runs a scripted stew against a stepped clock, so the whole
// lifecycle plays out in an instant.
func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Scripted cook from empty pot to served dish",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			log, cleanup := setupLogger(cmd, cfg)
			defer cleanup()

			ctx := context.Background()
			clk := clock.NewFake(time.Now())

			recipes := buildCatalog(log, "")
			items := inventory.NewMemoryStore(log)
			seedPack(ctx, items)
			reserve := inventory.NewReservation(items, log)
			notifier := notify.NewConsoleNotifier(log, nil)

			ctl := session.New(recipes, reserve, notifier, log,
				session.WithClock(clk),
				session.WithClassifier(inventory.KeywordClassifier),
			)

			ctl.SelectRecipe(ctx, "hearty-stew")
			ctl.FillSlot(ctx, 0, "venison")
			ctl.FillSlot(ctx, 1, "carrot")
			ctl.FillSlot(ctx, 2, "thyme")
			ctl.Start(ctx)

			// Step through the cook, stirring on time.
			sess := ctl.Snapshot()
			for elapsed := time.Duration(0); elapsed < sess.EffDuration; elapsed += sess.EffStirEvery {
				clk.Advance(sess.EffStirEvery)
				ctl.Stir(ctx)
				ctl.Tick(ctx)
			}
			clk.Advance(time.Second)
			ctl.Tick(ctx)

			fmt.Println(display.Status(ctl.Snapshot(), "Hearty Stew", clk.Now()))

			if _, dish := ctl.Serve(ctx); dish != nil {
				fmt.Printf("\n%s\n%s\n", dish.Name, dish.Description)
			}
			return nil
		},
	}
}
