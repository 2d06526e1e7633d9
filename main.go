// Package main provides an interactive viewer for the particle effects.
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	-config <path>    Engine configuration (default data/fx/engine.yaml)
//	-effect <name>    Start with a specific effect (e.g. -effect=EXPLOSION)
//	-filter <keyword> Only cycle through effects whose name contains keyword
//	-verbose          Enable verbose logging
//
// Controls:
//
//	Click/Touch       - Spawn the current effect at the pointer
//	Space             - Spawn the current effect at screen center
//	Left/Right Arrow  - Switch to previous/next effect
//	V                 - Cycle color variants (none, then every variant)
//	K                 - Kill the newest instance, letting particles fade
//	Shift+K           - Kill the newest instance immediately
//	R                 - Kill all instances
//	S                 - Toggle the snapshot preview of the current effect
//	P                 - Toggle pause
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/decker502/fx/pkg/config"
	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
	"github.com/decker502/fx/pkg/metrics"
	"github.com/decker502/fx/pkg/render"
	"github.com/decker502/fx/pkg/store"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

var (
	configFlag  = flag.String("config", config.DefaultEngineConfigPath, "Engine configuration file")
	effectFlag  = flag.String("effect", "", "Start with specific effect name")
	filterFlag  = flag.String("filter", "", "Initial filter by name keyword")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit")

// previewTimes are the animation times baked for the snapshot preview.
var previewTimes = []float64{0.1, 0.25, 0.5, 0.75, 1}

// ViewerGame implements ebiten.Game for the effect viewer.
type ViewerGame struct {
	cfg     *config.EngineConfig
	mu      sync.Mutex // guards manager against metric scrapes
	manager *fx.Manager
	batcher *render.Batcher
	rec     *metrics.Recorder

	effects      []fx.EffectName
	currentIndex int
	variant      int // 0 = none, otherwise VariantNames()[variant-1]
	spawned      []fx.ParticleSystemId

	start       time.Time
	paused      bool
	pausedAt    time.Duration
	preview     bool
	previewTime float64
	buffers     fx.DrawBuffers // preview batch
	draw        *fx.DrawBuffers

	statusMessage string
}

// NewViewerGame loads configuration and definitions and prepares rendering.
func NewViewerGame() (*ViewerGame, error) {
	cfg, err := config.LoadEngineConfig(*configFlag)
	if err != nil {
		return nil, err
	}
	if *verboseFlag {
		cfg.Verbose = true
	}

	defs, err := fx.LoadDefinitionFiles(cfg.EffectsPath, cfg.TexturesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load effect definitions: %w", err)
	}

	effects := filterEffects(fx.EffectNames(), *filterFlag)
	if len(effects) == 0 {
		log.Printf("Warning: No effects match filter %q, showing all", *filterFlag)
		effects = fx.EffectNames()
	}
	startIndex := 0
	if *effectFlag != "" {
		name, err := fx.ParseEffectName(*effectFlag)
		if err != nil {
			return nil, err
		}
		for i, e := range effects {
			if e == name {
				startIndex = i
			}
		}
	}

	g := &ViewerGame{
		cfg:          cfg,
		manager:      fx.NewManager(defs, cfg.ManagerOptions()...),
		batcher:      render.NewBatcher(defs, render.LoadImages(defs)),
		effects:      effects,
		currentIndex: startIndex,
		start:        time.Now(),
	}

	snapshots, err := store.Open(cfg.StoreAppName)
	if err != nil {
		log.Printf("Warning: %v (baked snapshots unavailable)", err)
		snapshots = store.New(nil)
	}
	if n, err := snapshots.LoadAll(g.manager.Snapshots()); err != nil {
		log.Printf("Warning: failed to load baked snapshots: %v", err)
	} else if n > 0 {
		log.Printf("Loaded %d baked snapshot groups", n)
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		g.rec = metrics.NewRecorder(reg, metrics.Locked(g.manager, &g.mu))
		metrics.Serve(cfg.MetricsAddr, reg)
	}

	log.Printf("Viewer initialized: %d effects", len(effects))
	g.updateStatusMessage()
	g.spawn(screenWidth/2, screenHeight/2)
	return g, nil
}

// filterEffects returns effects whose name contains query, ignoring case.
func filterEffects(all []fx.EffectName, query string) []fx.EffectName {
	if query == "" {
		return all
	}
	query = strings.ToUpper(query)
	var filtered []fx.EffectName
	for _, name := range all {
		if strings.Contains(name.String(), query) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// variantFor maps the variant cursor to a name; ok is false for "none".
func variantFor(cursor int) (fx.VariantName, bool) {
	if cursor <= 0 {
		return 0, false
	}
	return fx.VariantNames()[cursor-1], true
}

func (g *ViewerGame) current() fx.EffectName {
	return g.effects[g.currentIndex]
}

func (g *ViewerGame) spawn(x, y float64) {
	cfg := fx.InitConfig{Pos: fx.Vec2{X: x, Y: y}}
	var id fx.ParticleSystemId
	if v, ok := variantFor(g.variant); ok {
		id = g.manager.AddVariant(v, cfg)
	} else {
		id = g.manager.AddSystem(g.current(), cfg)
	}
	g.spawned = append(g.spawned, id)
}

// newestKillable drops ids that are no longer alive and returns the newest
// one a kill would change. Dying systems only qualify for immediate kills.
func (g *ViewerGame) newestKillable(immediate bool) (fx.ParticleSystemId, bool) {
	g.spawned = slices.DeleteFunc(g.spawned, func(id fx.ParticleSystemId) bool {
		return !g.manager.Alive(id)
	})
	for i := len(g.spawned) - 1; i >= 0; i-- {
		if id := g.spawned[i]; immediate || g.manager.Emitting(id) {
			return id, true
		}
	}
	return fx.ParticleSystemId{}, false
}

func (g *ViewerGame) elapsed() time.Duration {
	if g.paused {
		return g.pausedAt
	}
	return time.Since(g.start)
}

// Update handles input and advances the simulation.
func (g *ViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.currentIndex = (g.currentIndex + 1) % len(g.effects)
		g.variant = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.currentIndex = (g.currentIndex - 1 + len(g.effects)) % len(g.effects)
		g.variant = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.variant = (g.variant + 1) % (len(fx.VariantNames()) + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		immediate := ebiten.IsKeyPressed(ebiten.KeyShift)
		if id, ok := g.newestKillable(immediate); ok {
			g.manager.Kill(id, immediate)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.manager.KillAll(true)
		g.spawned = g.spawned[:0]
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.preview = !g.preview
		g.previewTime = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if g.paused {
			g.start = time.Now().Add(-g.pausedAt)
		} else {
			g.pausedAt = time.Since(g.start)
		}
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.spawn(screenWidth/2, screenHeight/2)
	default:
		if pressed, x, y := justTouchedOrClicked(); pressed {
			g.spawn(float64(x), float64(y))
		}
	}

	frameStart := time.Now()
	steps := g.manager.SimulateStableTime(g.elapsed().Seconds(), g.cfg.DesiredFPS)
	g.fillBuffers()
	if g.rec != nil {
		g.rec.RecordFrame(time.Since(frameStart), steps)
	}
	g.updateStatusMessage()
	return nil
}

func (g *ViewerGame) fillBuffers() {
	if !g.preview {
		g.draw = g.manager.GenBuffers()
		return
	}

	effect := g.current()
	if _, ok := g.manager.FindSnapshotGroup(effect, fx.SnapshotKey{}); !ok {
		g.manager.GenSnapshots(effect, previewTimes, nil, 4)
	}
	if !g.paused {
		g.previewTime += 1 / float64(ebiten.TPS())
		if g.previewTime > previewTimes[len(previewTimes)-1] {
			g.previewTime = 0
		}
	}
	quads := g.manager.GenQuads()
	for i := range 4 {
		pos := fx.Vec2{X: float64(screenWidth) * float64(i+1) / 5, Y: screenHeight / 3}
		preview, _ := g.manager.SnapshotQuads(effect, fx.SnapshotKey{}, g.previewTime, i, pos)
		quads = append(quads, preview...)
	}
	g.buffers.Fill(quads)
	g.draw = &g.buffers
}

func (g *ViewerGame) updateStatusMessage() {
	variant := "none"
	if v, ok := variantFor(g.variant); ok {
		variant = v.String()
	}
	st := g.manager.Stats()
	g.statusMessage = fmt.Sprintf("Effect: %s [%d/%d]  Variant: %s\nInstances: %d emitting, %d dying  Particles: %d  Steps: %d (dropped %d)",
		g.current(), g.currentIndex+1, len(g.effects), variant,
		st.Emitting, st.Dying, st.Particles, st.Steps, st.DroppedSteps)
	if g.paused {
		g.statusMessage += "  [PAUSED]"
	}
	if g.preview {
		g.statusMessage += "  [SNAPSHOT PREVIEW]"
	}
}

// Draw renders the particles and the status overlay.
func (g *ViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})
	if g.draw != nil {
		g.batcher.Draw(screen, g.draw)
	}
	ebitenutil.DebugPrint(screen, g.statusMessage)
}

// Layout returns the logical screen size.
func (g *ViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	game, err := NewViewerGame()
	if err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Particle Effects Viewer")

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
