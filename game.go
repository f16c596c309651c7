package main

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/config"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/input"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/scene"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/sim"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Game is the windowed front-end: it steps the simulation once per tick and
// draws a read-only debug view of the world.
type Game struct {
	sim   *sim.Simulation
	log   *zap.Logger
	ctx   context.Context
	debug bool

	battleUI  *ebitenui.UI
	clipboard bool
	toast     string
	toastTTL  int
}

func NewGame(ctx context.Context, cfg *config.Config, log *zap.Logger, debug bool) (*Game, error) {
	g := &Game{log: log, ctx: ctx, debug: debug}
	s, err := sim.New(ctx, sim.Options{Config: cfg, Input: input.NewEbiten(), Battles: g, Log: log})
	if err != nil {
		return nil, err
	}
	g.sim = s
	s.Events.Handle(scene.EventToast, func(evt ecs.Event) {
		g.showToast(fmt.Sprint(evt.Data))
	})
	s.Events.Handle(scene.EventSceneChanged, func(evt ecs.Event) {
		g.showToast(fmt.Sprintf("entered %v", evt.Data))
	})
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboard = true
	}
	return g, nil
}

// StartBattle shows the battle overlay. The world stays frozen until the
// player picks an outcome.
func (g *Game) StartBattle(req scene.BattleRequest) {
	g.battleUI = NewBattleUI(req, func(won bool) {
		if err := g.sim.Scene.ResolveBattle(g.ctx, scene.BattleOutcome{BattleID: req.BattleID, Won: won}); err != nil {
			g.log.Warn("resolve battle", zap.Error(err))
		}
		g.battleUI = nil
	})
}

func (g *Game) showToast(msg string) {
	g.toast = msg
	g.toastTTL = 120
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.copySnapshot()
	}
	if g.toastTTL > 0 {
		g.toastTTL--
	}
	if g.battleUI != nil {
		g.battleUI.Update()
	}
	return g.sim.Step(g.ctx)
}

// copySnapshot puts the serialized scene on the clipboard as YAML.
func (g *Game) copySnapshot() {
	w := g.sim.World
	var out []map[string]any
	for _, e := range ecs.Entities(w) {
		if data, ok := g.sim.Factory.Serialize(w, e); ok {
			out = append(out, data)
		}
	}
	raw, err := yaml.Marshal(map[string]any{"map": g.sim.Scene.CurrentMap(), "entities": out})
	if err != nil {
		g.log.Warn("snapshot", zap.Error(err))
		return
	}
	if !g.clipboard {
		g.log.Info("snapshot", zap.ByteString("yaml", raw))
		return
	}
	clipboard.Write(clipboard.FmtText, raw)
	g.showToast(fmt.Sprintf("copied %d entities", len(out)))
}

// view maps world coordinates onto the screen, letterboxing the map.
type view struct {
	scale, offX, offY float64
}

func (v view) pt(x, y float64) (float32, float32) {
	return float32(x*v.scale + v.offX), float32(y*v.scale + v.offY)
}

func (v view) len(d float64) float32 {
	return float32(d * v.scale)
}

func (g *Game) camera() view {
	lvl := g.sim.Scene.Level()
	if lvl == nil || lvl.Width <= 0 || lvl.Height <= 0 {
		return view{scale: 1}
	}
	scale := math.Min((baseWidth-40)/lvl.Width, (baseHeight-60)/lvl.Height)
	return view{
		scale: scale,
		offX:  (baseWidth - lvl.Width*scale) / 2,
		offY:  (baseHeight-lvl.Height*scale)/2 + 10,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	w := g.sim.World
	v := g.camera()

	if lvl := g.sim.Scene.Level(); lvl != nil {
		x, y := v.pt(0, 0)
		vector.FillRect(screen, x, y, v.len(lvl.Width), v.len(lvl.Height), colornames.Darkolivegreen, false)
		for _, entry := range lvl.Entries {
			ex, ey := v.pt(entry.X, entry.Y)
			vector.StrokeRect(screen, ex-3, ey-3, 6, 6, 1, colornames.Lightgrey, false)
		}
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, tr *component.Transform, col *component.Collider) {
		clr := color.Color(colornames.White)
		if ap, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok {
			clr = ap.Color
		}
		c := col.Center(tr.X, tr.Y)
		switch col.Shape {
		case component.ColliderCircle:
			x, y := v.pt(c.X, c.Y)
			vector.FillCircle(screen, x, y, v.len(col.Radius), clr, true)
		default:
			x, y := v.pt(c.X-col.Width/2, c.Y-col.Height/2)
			vector.FillRect(screen, x, y, v.len(col.Width), v.len(col.Height), clr, false)
		}
		if g.debug {
			g.drawAI(screen, v, e, tr)
		}
	})

	mode := g.sim.Scene.Mode()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  map: %s  mode: %s  wave: %d  t: %.1fs  entities: %d",
		ebiten.ActualFPS(), g.sim.Scene.CurrentMap(), mode, g.sim.Wave(), g.sim.Time(), w.Len()))
	if g.toastTTL > 0 {
		ebitenutil.DebugPrintAt(screen, g.toast, 10, baseHeight-24)
	}
	if g.battleUI != nil {
		g.battleUI.Draw(screen)
	}
}

func (g *Game) drawAI(screen *ebiten.Image, v view, e ecs.Entity, tr *component.Transform) {
	w := g.sim.World
	cfg, ok := ecs.Get(w, e, component.AIConfigComponent.Kind())
	if !ok {
		return
	}
	st, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	x, y := v.pt(tr.X, tr.Y)
	ring := colornames.Yellow
	if st != nil && st.State == component.AIChase {
		ring = colornames.Red
	}
	vector.StrokeCircle(screen, x, y, v.len(cfg.VisionRadius), 1, ring, true)
	if st == nil {
		return
	}
	fx, fy := v.pt(tr.X+st.Facing.X*20, tr.Y+st.Facing.Y*20)
	vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.Lightgrey, true)
	label := string(st.State)
	if st.Suspicion > 0 {
		label = fmt.Sprintf("%s %.0f%%", label, st.Suspicion*100)
	}
	ebitenutil.DebugPrintAt(screen, label, int(x)+8, int(y)-20)
}

func (g *Game) Close() error {
	return g.sim.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
