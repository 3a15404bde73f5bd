// Terminal view of a running spring bone scene.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"springbone/internal/world"
)

const frameDelta = float32(1) / 60

var styles = [...]tcell.Style{
	cellEmpty:    tcell.StyleDefault,
	cellGround:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	cellCollider: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	cellBone:     tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 161, 0)),
	cellTip:      tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
}

type viewer struct {
	screen tcell.Screen
	world  *world.World
	paused bool
}

func main() {
	scene := flag.String("scene", "", "scene file (default: built-in demo)")
	chains := flag.Int("chains", 8, "demo chains per character")
	bones := flag.Int("bones", 5, "demo bones per chain")
	workers := flag.Int("workers", 1, "chain workers per rig")
	flag.Parse()

	opts := world.DefaultDemoOptions()
	opts.Chains = *chains
	opts.BonesPerChain = *bones
	opts.Workers = *workers
	w, err := world.Open(*scene, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Solver logs would tear the screen.
	log.SetOutput(io.Discard)

	v := &viewer{screen: screen, world: w}
	v.run()
	screen.Fini()
}

func (v *viewer) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if !v.paused {
				v.world.Update(frameDelta)
			}
			v.draw()
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'r':
				v.world.Reset()
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width < 1 || height < 2 {
		v.screen.Show()
		return
	}

	st := v.world.Stats()
	status := fmt.Sprintf(" bones %d  frame %d  collisions %d  ground %d  recoveries %d ",
		v.world.BoneCount(), st.Frames, st.Collisions, st.GroundHits, st.Recoveries)
	if v.paused {
		status += " PAUSED "
	}
	status += " [space] pause  [r] reset  [q] quit"
	header := tcell.StyleDefault.Reverse(true)
	for x := range width {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		v.screen.SetContent(x, 0, r, nil, header)
	}

	g := newGrid(v.world.Systems(), width, height-1)
	g.plot(v.world.Systems())
	for y := range g.height {
		for x := range g.width {
			if k := g.at(x, y); k != cellEmpty {
				v.screen.SetContent(x, y+1, cellRunes[k], nil, styles[k])
			}
		}
	}
	v.screen.Show()
}
