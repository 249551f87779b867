package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/hearthcook/internal/config"
	"github.com/hammamikhairi/hearthcook/internal/display"
	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/inventory"
	"github.com/hammamikhairi/hearthcook/internal/logger"
	"github.com/hammamikhairi/hearthcook/internal/notify"
	"github.com/hammamikhairi/hearthcook/internal/session"
	"github.com/hammamikhairi/hearthcook/internal/storage"
	"github.com/hammamikhairi/hearthcook/internal/tick"
)

func newRunCmd() *cobra.Command {
	var (
		dbPath   string
		packPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Interactive kitchen REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			log, cleanup := setupLogger(cmd, cfg)
			defer cleanup()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Settings store: sqlite when a path is given, memory otherwise.
			var settingsStore domain.SettingsStore
			if cfg.DBPath != "" {
				db, err := storage.OpenSQLite(cfg.DBPath, log)
				if err != nil {
					return err
				}
				defer db.Close()
				settingsStore = db
			} else {
				settingsStore = storage.NewMemoryStore(log)
			}

			saved, err := settingsStore.Load(ctx)
			if err != nil {
				log.Error("loading settings: %v (starting fresh)", err)
				saved = domain.Settings{}
			}

			recipes := buildCatalog(log, packPath)

			items := inventory.NewMemoryStore(log)
			if len(saved.Inventory) > 0 {
				for _, it := range saved.Inventory {
					items.Append(ctx, it)
				}
			} else {
				seedPack(ctx, items)
			}

			reserve := inventory.NewReservation(items, log)
			notifier := notify.NewConsoleNotifier(log, nil)

			var saver *storage.Debouncer
			ctl := session.New(recipes, reserve, notifier, log,
				session.WithStirSlack(cfg.StirSlack),
				session.WithClassifier(inventory.KeywordClassifier),
				session.WithRestoredSession(saved.Session),
				session.WithOnChange(func(*domain.Session) {
					if saver != nil {
						saver.Mark()
					}
				}),
			)
			saver = storage.NewDebouncer(settingsStore, func() domain.Settings {
				return domain.Settings{
					Session:   ctl.Snapshot(),
					Inventory: items.List(context.Background()),
				}
			}, cfg.SaveDebounce, log)
			defer saver.Flush()

			runner := tick.New(ctl, log, tick.WithInterval(cfg.TickInterval))
			runner.Start(ctx)
			defer runner.Stop()

			fmt.Println(display.Banner())
			fmt.Println("Type 'help' for commands, 'quit' to leave the kitchen.")
			fmt.Println()

			repl(ctx, ctl, recipes, items, log)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite settings file (empty = in-memory)")
	cmd.Flags().StringVar(&packPath, "recipes", "", "YAML recipe pack to load on top of the built-ins")
	return cmd
}

// seedPack stocks a fresh pack with enough to cook the built-ins.
func seedPack(ctx context.Context, items *inventory.MemoryStore) {
	for _, it := range []domain.Item{
		{ID: "venison", Name: "Venison Cut", Category: "meat", Rarity: "common", Qty: 3},
		{ID: "carrot", Name: "Wild Carrot", Category: "vegetable", Rarity: "common", Qty: 5},
		{ID: "thyme", Name: "Creek Thyme", Category: "herb", Rarity: "uncommon", Qty: 2},
		{ID: "oats", Name: "Rolled Oats", Category: "grain", Rarity: "common", Qty: 4},
		{ID: "mushroom", Name: "Forest Mushroom", Category: "vegetable", Rarity: "common", Qty: 3},
	} {
		items.Append(ctx, it)
	}
}

// repl loops on stdin, mapping words onto controller actions. Illegal
// actions are no-ops in the engine, so the loop never has to guard
// state itself.
func repl(ctx context.Context, ctl *session.Controller, recipes domain.RecipeSource, items *inventory.MemoryStore, log *logger.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "recipes":
			if list, err := recipes.List(ctx); err == nil {
				fmt.Println(display.Recipes(list))
			}
		case "inventory", "inv":
			fmt.Println(display.Inventory(items.List(ctx)))
		case "status":
			printStatus(ctx, ctl, recipes)
		case "select":
			if len(args) == 1 {
				ctl.SelectRecipe(ctx, args[0])
			}
		case "station":
			if len(args) == 1 {
				ctl.SetStation(ctx, domain.StationID(args[0]))
			}
		case "heat":
			if len(args) == 1 {
				ctl.SetHeat(ctx, domain.ParseHeatLevel(args[0]))
			}
		case "fill":
			if len(args) == 2 {
				slot, err := strconv.Atoi(args[0])
				if err != nil {
					fmt.Println("usage: fill <slot#> <item-id>")
					continue
				}
				ctl.FillSlot(ctx, slot-1, args[1])
			}
		case "candidates":
			if len(args) == 1 {
				printCandidates(ctx, ctl, items, args[0])
			}
		case "start":
			ctl.Start(ctx)
		case "pause":
			ctl.Pause(ctx)
		case "resume":
			ctl.Resume(ctx)
		case "stir":
			ctl.Stir(ctx)
		case "cancel":
			ctl.Cancel(ctx)
		case "serve":
			if _, dish := ctl.Serve(ctx); dish != nil {
				fmt.Printf("%s\n%s\n", dish.Name, dish.Description)
			}
		case "reset":
			ctl.Reset(ctx)
		default:
			fmt.Printf("unknown command %q — try 'help'\n", cmd)
		}
	}
}

func printStatus(ctx context.Context, ctl *session.Controller, recipes domain.RecipeSource) {
	sess := ctl.Snapshot()
	name := sess.Recipe
	if r, err := recipes.Get(ctx, sess.Recipe); err == nil {
		name = r.Name
	}
	fmt.Println(display.Status(sess, name, ctl.Now()))
}

func printCandidates(ctx context.Context, ctl *session.Controller, items *inventory.MemoryStore, slotArg string) {
	slot, err := strconv.Atoi(slotArg)
	if err != nil {
		fmt.Println("usage: candidates <slot#>")
		return
	}
	sess := ctl.Snapshot()
	if slot < 1 || slot > len(sess.Slots) {
		fmt.Println("no such slot")
		return
	}
	tag := sess.Slots[slot-1].Tag
	matches := inventory.Candidates(ctx, items, tag, inventory.KeywordClassifier)
	if len(matches) == 0 {
		fmt.Printf("nothing in the pack matches %q\n", tag)
		return
	}
	fmt.Println(display.Inventory(matches))
}

func printHelp() {
	fmt.Print(`commands:
  recipes                list the catalog
  select <recipe-id>     pick a recipe (from idle)
  station <station-id>   choose stove | oven | open-fire
  heat <low|med|high>    set heat level
  candidates <slot#>     show items that fit a slot
  fill <slot#> <item>    bind an item to a slot
  start                  reserve ingredients and start cooking
  pause / resume         stop and restart the cook clock
  stir                   attend the pot
  status                 show the session panel
  inventory              show the pack
  serve                  plate a finished dish
  cancel                 abort (returns ingredients unless burned)
  reset                  clear an unstarted session
  quit
`)
}
