package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/reporting"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
)

// ErrInterrupted is returned by Run when the user quits before the last generation
var ErrInterrupted = errors.New("run interrupted by user")

const defaultTick = 30 * time.Millisecond

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Stepper is the part of the optimizer the host drives
type Stepper interface {
	Start(generations int, observer optimization.Observer) error
	Step() (bool, error)
	Finish() (*optimization.Result, error)
	Catalog() types.Catalog
	Config() optimization.OptimizationConfig
}

// Options controls the host's pacing and exit behavior
type Options struct {
	Generations  int
	Tick         time.Duration
	Observer     optimization.Observer
	ExitOnFinish bool
}

// Host runs an optimizer one generation per tick and renders its progress.
// Quitting between ticks abandons the run.
type Host struct {
	screen  tcell.Screen
	stepper Stepper
	opts    Options

	history  []types.GenerationStats
	result   *optimization.Result
	err      error
	paused   bool
	finished bool
}

func NewHost(screen tcell.Screen, stepper Stepper, opts Options) *Host {
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}
	if opts.Generations <= 0 {
		opts.Generations = stepper.Config().Generations
	}
	return &Host{
		screen:  screen,
		stepper: stepper,
		opts:    opts,
		history: make([]types.GenerationStats, 0, opts.Generations),
	}
}

// Run starts the optimizer and blocks until the run finishes (and the user
// dismisses the result, unless ExitOnFinish is set) or the user quits.
func (h *Host) Run() (*optimization.Result, error) {
	if err := h.start(); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(h.opts.Tick)
	defer ticker.Stop()

	stop := make(chan struct{})
	defer close(stop)

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-stop:
				return
			}
		}
	}()

	h.draw()
	for {
		select {
		case ev := <-eventChan:
			if !h.handleInput(ev) {
				if !h.finished {
					return nil, ErrInterrupted
				}
				return h.result, h.err
			}
			h.draw()

		case <-ticker.C:
			if h.paused || h.finished {
				continue
			}
			h.advance()
			h.draw()
			if h.finished && (h.opts.ExitOnFinish || h.err != nil) {
				return h.result, h.err
			}
		}
	}
}

func (h *Host) start() error {
	record := func(stats types.GenerationStats) error {
		h.history = append(h.history, stats)
		return nil
	}
	return h.stepper.Start(h.opts.Generations, optimization.MultiObserver(record, h.opts.Observer))
}

// advance evolves one generation and finalizes the run after the last one
func (h *Host) advance() {
	done, err := h.stepper.Step()
	if err != nil {
		h.err = err
		h.finished = true
		return
	}
	if !done {
		return
	}
	h.result, h.err = h.stepper.Finish()
	h.finished = true
}

// handleInput returns false when the host should exit
func (h *Host) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				h.paused = !h.paused
				return true
			}
		}
		// Any key dismisses a finished run
		return !h.finished

	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

func (h *Host) draw() {
	h.screen.Clear()
	width, height := h.screen.Size()

	title := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	value := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	drawText(h.screen, 1, 0, title, "CROP ALLOCATION OPTIMIZER")

	completed := len(h.history)
	drawText(h.screen, 1, 2, label, "Generation")
	drawText(h.screen, 14, 2, value, fmt.Sprintf("%d / %d  %s", completed, h.opts.Generations, h.statusText()))

	if completed > 0 {
		latest := h.history[completed-1]
		drawText(h.screen, 1, 3, label, "Best")
		drawText(h.screen, 14, 3, value, humanize.Commaf(math.Floor(latest.BestFitness)))
		drawText(h.screen, 1, 4, label, "Average")
		drawText(h.screen, 14, 4, value, humanize.CommafWithDigits(latest.AverageFitness, 2))
	}

	barWidth := max(10, width-16)
	drawText(h.screen, 1, 5, label, "Progress")
	drawText(h.screen, 14, 5, tcell.StyleDefault.Foreground(tcell.ColorGreen), progressBar(completed, h.opts.Generations, barWidth))

	best := make([]float64, completed)
	for i, s := range h.history {
		best[i] = s.BestFitness
	}
	drawText(h.screen, 1, 6, label, "Best trend")
	drawText(h.screen, 14, 6, tcell.StyleDefault.Foreground(tcell.ColorYellow), sparkline(best, barWidth))

	row := 8
	if h.err != nil {
		drawText(h.screen, 1, row, tcell.StyleDefault.Foreground(tcell.ColorRed), h.err.Error())
		row += 2
	}
	if h.result != nil {
		row = h.drawSolutions(row, height-2)
	}

	drawText(h.screen, 1, height-1, label, h.helpText())
	h.screen.Show()
}

func (h *Host) drawSolutions(row, lastRow int) int {
	cfg := h.stepper.Config()
	days := cfg.DaysPerYear
	if days <= 0 {
		days = optimization.DaysPerYear
	}
	formatter := reporting.NewDefaultTextFormatter(h.stepper.Catalog(), days)

	for i, solution := range h.result.Solutions {
		entry := fmt.Sprintf("%d. %s", i+1, formatter.FormatSolution(solution, h.result.FitnessScores[i]))
		for _, line := range strings.Split(strings.TrimRight(entry, "\n"), "\n") {
			if row > lastRow {
				return row
			}
			drawText(h.screen, 1, row, tcell.StyleDefault, line)
			row++
		}
	}
	return row
}

func (h *Host) statusText() string {
	switch {
	case h.err != nil:
		return "[failed]"
	case h.finished:
		return "[done]"
	case h.paused:
		return "[paused]"
	default:
		return "[running]"
	}
}

func (h *Host) helpText() string {
	if h.finished {
		return "press any key to exit"
	}
	return "[space] pause/resume   [q/esc] quit"
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// progressBar renders done/total as a bar of the given width
func progressBar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sparkline renders the last width values scaled between their min and max
func sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	top := len(sparkLevels) - 1
	for _, v := range values {
		level := top
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(top))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
