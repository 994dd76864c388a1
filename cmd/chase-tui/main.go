// Command chase-tui plays a single level in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/vinom-chase/config/tuning"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/gdamore/tcell/v2"
)

const frame = 50 * time.Millisecond

type outcome int32

const (
	playing outcome = iota
	won
	lost
)

// statusObserver keeps the outcome of the level for the screen.
type statusObserver struct {
	game.NopObserver
	level   *game.Level
	outcome atomic.Int32
}

func (o *statusObserver) LevelWon() {
	o.outcome.Store(int32(won))
	o.level.Stop()
}

func (o *statusObserver) LevelLost() {
	o.outcome.Store(int32(lost))
	o.level.Stop()
}

func main() {
	mapFile := flag.String("map", "", "map template file, a maze is generated when empty")
	tuningFile := flag.String("tuning", "", "YAML tuning overrides")
	logFile := flag.String("log", "", "file receiving the level log")
	infinite := flag.Bool("infinite", false, "play on a board that grows towards the player")
	width := flag.Int("width", 10, "rooms across of a generated maze")
	height := flag.Int("height", 7, "rooms down of a generated maze")
	hunters := flag.Int("hunters", 3, "hunters of a generated maze")
	margin := flag.Int("margin", 3, "cells from the edge at which an infinite board grows")
	flag.Parse()

	if err := run(options{
		mapFile:    *mapFile,
		tuningFile: *tuningFile,
		logFile:    *logFile,
		infinite:   *infinite,
		width:      *width,
		height:     *height,
		hunters:    *hunters,
		margin:     *margin,
	}); err != nil {
		log.Fatalf("[TUI] [FATAL] %v", err)
	}
}

type options struct {
	mapFile    string
	tuningFile string
	logFile    string
	infinite   bool
	width      int
	height     int
	hunters    int
	margin     int
}

func levelLogger(path string) (general_i.Logger, func(), error) {
	if path == "" {
		path = os.DevNull
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New("LEVEL", "", f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, func() { f.Close() }, nil
}

func template(o options) (*maze.Template, error) {
	if o.mapFile == "" {
		return maze.Generate(maze.GeneratorConfig{
			Width:       o.width,
			Height:      o.height,
			PelletProb:  0.9,
			Hunters:     o.hunters,
			OpenTunnels: o.infinite,
		})
	}
	data, err := os.ReadFile(o.mapFile)
	if err != nil {
		return nil, err
	}
	return maze.ParseTemplateText(string(data))
}

func run(o options) error {
	t, err := tuning.Load(o.tuningFile)
	if err != nil {
		return err
	}
	tpl, err := template(o)
	if err != nil {
		return fmt.Errorf("building map: %w", err)
	}
	l, closeLog, err := levelLogger(o.logFile)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	level, err := game.NewLevel(tpl, game.Config{Tuning: t, Infinite: o.infinite, Logger: l})
	if err != nil {
		return err
	}
	player := level.NewPlayer()
	if err := level.RegisterPlayer(player); err != nil {
		return err
	}
	status := &statusObserver{level: level}
	level.AddObserver(status)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	g := &session{
		screen: screen,
		level:  level,
		player: player,
		status: status,
		margin: o.margin,
	}
	level.Start()
	defer level.Stop()
	g.loop()
	return nil
}
