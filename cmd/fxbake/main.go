// Command fxbake precomputes snapshot groups and saves them to the
// snapshot store read by the viewer.
//
// Usage:
//
//	go run ./cmd/fxbake [flags]
//
// Flags:
//
//	-root <dir>        Directory containing data/ (default ".")
//	-config <path>     Engine configuration (default data/fx/engine.yaml)
//	-effects <list>    Comma separated effect names (default all)
//	-times <list>      Comma separated animation times in seconds
//	-variants <n>      Random variants per group
//	-params <list>     Up to two comma separated spawn parameters
//	-list              Print stored groups and exit
//	-delete            Delete the selected groups instead of baking
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/fx/pkg/config"
	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
	"github.com/decker502/fx/pkg/store"
)

var (
	rootFlag     = flag.String("root", ".", "Directory containing data/")
	configFlag   = flag.String("config", config.DefaultEngineConfigPath, "Engine configuration file")
	effectsFlag  = flag.String("effects", "", "Comma separated effect names (default all)")
	timesFlag    = flag.String("times", "0.1,0.25,0.5,0.75,1", "Comma separated animation times in seconds")
	variantsFlag = flag.Int("variants", 4, "Random variants per group")
	paramsFlag   = flag.String("params", "", "Up to two comma separated spawn parameters")
	listFlag     = flag.Bool("list", false, "Print stored groups and exit")
	deleteFlag   = flag.Bool("delete", false, "Delete the selected groups instead of baking")
)

func main() {
	flag.Parse()
	embedded.Init(os.DirFS(*rootFlag))

	if err := run(); err != nil {
		log.Fatalf("fxbake: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadEngineConfig(*configFlag)
	if err != nil {
		return err
	}
	snapshots, err := store.Open(cfg.StoreAppName)
	if err != nil {
		return err
	}

	if *listFlag {
		refs, err := snapshots.List()
		if err != nil {
			return err
		}
		for _, ref := range refs {
			fmt.Printf("%s %v\n", ref.Effect, ref.Key)
		}
		return nil
	}

	effects, err := parseEffects(*effectsFlag)
	if err != nil {
		return err
	}
	params, err := parseFloats(*paramsFlag)
	if err != nil {
		return fmt.Errorf("invalid -params: %w", err)
	}
	if len(params) > len(fx.SnapshotKey{}) {
		return fmt.Errorf("invalid -params: at most %d values, got %d", len(fx.SnapshotKey{}), len(params))
	}
	key := fx.SnapshotKeyFrom(params)

	if *deleteFlag {
		for _, effect := range effects {
			if err := snapshots.Delete(effect, key); err != nil {
				return err
			}
			log.Printf("Deleted %s %v", effect, key)
		}
		return nil
	}

	times, err := parseFloats(*timesFlag)
	if err != nil {
		return fmt.Errorf("invalid -times: %w", err)
	}
	defs, err := fx.LoadDefinitionFiles(cfg.EffectsPath, cfg.TexturesPath)
	if err != nil {
		return fmt.Errorf("failed to load effect definitions: %w", err)
	}

	manager := fx.NewManager(defs, cfg.ManagerOptions()...)
	return bake(manager, snapshots, effects, times, params, *variantsFlag)
}

// bake generates one group per effect and saves it.
func bake(manager *fx.Manager, snapshots *store.SnapshotStore, effects []fx.EffectName, times, params []float64, variants int) error {
	for _, effect := range effects {
		g := manager.GenSnapshots(effect, times, params, variants)
		if err := snapshots.Save(g); err != nil {
			return err
		}
		particles := 0
		for i := range g.Snapshots {
			for _, sub := range g.Snapshots[i].SubSystems {
				particles += len(sub.Particles)
			}
		}
		log.Printf("Baked %s: %d snapshots, %d particles", effect, len(g.Snapshots), particles)
	}
	return nil
}

// parseEffects parses a comma separated list of effect names. An empty list
// selects every effect.
func parseEffects(list string) ([]fx.EffectName, error) {
	if strings.TrimSpace(list) == "" {
		return fx.EffectNames(), nil
	}
	var effects []fx.EffectName
	for _, field := range strings.Split(list, ",") {
		name, err := fx.ParseEffectName(strings.ToUpper(strings.TrimSpace(field)))
		if err != nil {
			return nil, err
		}
		effects = append(effects, name)
	}
	return effects, nil
}

func parseFloats(list string) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
