// Package session drives one trainer run: it presents levels in order,
// reads answers, and advances when the matcher accepts one.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/events"
	"github.com/alfredjeanlab/linuxtrainer/internal/executor"
	"github.com/alfredjeanlab/linuxtrainer/internal/journal"
	"github.com/alfredjeanlab/linuxtrainer/internal/matcher"
	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

// ErrNoLevels is returned by Run when there is nothing to play.
var ErrNoLevels = errors.New("no levels loaded")

// State is the runner's position in the session state machine.
type State int

const (
	AwaitingInput State = iota
	LevelSolved
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case LevelSolved:
		return "level_solved"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Judge decides whether an answer satisfies an expected command.
// *matcher.Matcher implements it.
type Judge interface {
	Matches(userInput string, expected *string) bool
}

// Options configures a Runner. Zero values get working defaults except
// In and Out, which are required.
type Options struct {
	SessionID string
	Matcher   Judge
	Executor  executor.Runner // nil disables demonstrations
	Execute   bool
	Journal   journal.Sink
	Publisher events.Publisher
	Logger    *slog.Logger

	In  io.Reader
	Out io.Writer

	Clock func() time.Time
}

// Result summarizes a finished session.
type Result struct {
	SessionID string
	Solved    int
	Total     int
	Completed bool
	Quit      bool
}

// Runner owns the session loop. The level sequence is never reordered and
// the index only moves forward.
type Runner struct {
	levels []*model.Level
	opts   Options
	in     *bufio.Reader
	out    io.Writer

	state    State
	index    int
	attempts int
	solved   int
	quit     bool
}

// New creates a Runner over levels, which must already be in play order.
func New(levels []*model.Level, opts Options) *Runner {
	if opts.Matcher == nil {
		opts.Matcher = matcher.Default()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Discard()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Runner{
		levels: levels,
		opts:   opts,
		in:     bufio.NewReader(opts.In),
		out:    opts.Out,
		state:  AwaitingInput,
	}
}

// State returns the current state.
func (r *Runner) State() State {
	return r.state
}

// Current returns the level awaiting an answer, or nil once terminated.
func (r *Runner) Current() *model.Level {
	if r.state == Terminated || r.index >= len(r.levels) {
		return nil
	}
	return r.levels[r.index]
}

// Result reports progress so far.
func (r *Runner) Result() Result {
	return Result{
		SessionID: r.opts.SessionID,
		Solved:    r.solved,
		Total:     len(r.levels),
		Completed: r.solved == len(r.levels) && len(r.levels) > 0,
		Quit:      r.quit,
	}
}

// Run plays the session until the levels are exhausted, the user quits,
// input ends, or ctx is cancelled. The session-end entry is recorded on
// every path, including a panic inside the loop, which is returned as an
// error.
func (r *Runner) Run(ctx context.Context) (err error) {
	r.record(model.EntrySessionStart, 0, "", "")
	r.publish(ctx, events.TopicSessionStarted, events.SessionStarted{
		SessionID: r.opts.SessionID,
		Levels:    len(r.levels),
		StartedAt: r.opts.Clock(),
	})

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("session: panic: %v", p)
			r.record(model.EntryError, r.levelNumber(), "", err.Error())
		}
		r.finish(ctx)
	}()

	if len(r.levels) == 0 {
		fmt.Fprintln(r.out, errorStyle("No levels found. Please add level files to the levels directory."))
		r.record(model.EntryError, 0, "", "No levels loaded.")
		r.state = Terminated
		return ErrNoLevels
	}

	r.printWelcome()
	r.printLevel()

	done := make(chan struct{})
	defer close(done)
	lines := r.readLines(done)

	for r.state != Terminated {
		if err := ctx.Err(); err != nil {
			r.terminate("interrupted")
			return err
		}

		fmt.Fprint(r.out, "> ")
		var in inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			r.terminate("interrupted")
			return ctx.Err()
		case in = <-lines:
		}

		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				fmt.Fprintln(r.out)
				r.terminate("eof")
				return nil
			}
			r.terminate("read error")
			return fmt.Errorf("read input: %w", in.err)
		}
		r.Handle(ctx, in.text)
	}
	return nil
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds input lines to the loop so a blocked read never delays
// cancellation. A final unterminated line is delivered before the error.
func (r *Runner) readLines(done <-chan struct{}) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		send := func(l inputLine) bool {
			select {
			case ch <- l:
				return true
			case <-done:
				return false
			}
		}
		for {
			text, err := r.in.ReadString('\n')
			if text != "" && !send(inputLine{text: text}) {
				return
			}
			if err != nil {
				send(inputLine{err: err})
				return
			}
		}
	}()
	return ch
}

// Handle processes one line of input and returns the resulting state.
func (r *Runner) Handle(ctx context.Context, line string) State {
	if r.state == Terminated {
		return r.state
	}
	level := r.levels[r.index]
	line = strings.TrimSpace(line)
	r.record(model.EntryInput, level.Number, line, "")

	switch Classify(line) {
	case ActionQuit:
		fmt.Fprintln(r.out, "Exiting the LinuxTrainer. Goodbye!")
		r.terminate("")
		return r.state

	case ActionHint:
		if level.Hint != "" {
			fmt.Fprintln(r.out, hintStyle("Hint: "+level.Hint))
		} else {
			fmt.Fprintln(r.out, hintStyle("No hint available for this level."))
		}
		r.record(model.EntryHint, level.Number, "", "")
		return r.state
	}

	r.attempts++
	if !r.opts.Matcher.Matches(line, level.ExpectedCommand) {
		fmt.Fprintln(r.out, errorStyle("Oops, that's not the right command. Try again or type 'hint' for help."))
		r.record(model.EntryIncorrect, level.Number, line, "")
		return r.state
	}

	r.state = LevelSolved
	r.solved++
	fmt.Fprintln(r.out, successStyle("Correct! Well done."))
	r.record(model.EntrySolved, level.Number, line, fmt.Sprintf("attempts=%d", r.attempts))
	r.publish(ctx, events.TopicLevelSolved, events.LevelSolved{
		SessionID: r.opts.SessionID,
		Level:     level.Number,
		Title:     level.DisplayTitle(),
		Input:     line,
		Attempts:  r.attempts,
	})

	r.demonstrate(ctx, level, line)
	r.advance()
	return r.state
}

func (r *Runner) advance() {
	r.index++
	r.attempts = 0
	fmt.Fprintln(r.out)

	if r.index >= len(r.levels) {
		fmt.Fprintln(r.out, successStyle(boldStyle("Congratulations! You have completed all the levels!")))
		fmt.Fprintln(r.out, "You've learned a variety of Linux commands. Keep practising!")
		r.record(model.EntryComplete, 0, "", "")
		r.state = Terminated
		return
	}

	r.state = AwaitingInput
	r.printLevel()
}

// demonstrate runs the solved command when it is allow-listed. Its outcome
// never affects progression.
func (r *Runner) demonstrate(ctx context.Context, level *model.Level, line string) {
	if !r.opts.Execute || r.opts.Executor == nil {
		return
	}

	res := r.opts.Executor.Run(ctx, line)
	switch res.Status {
	case executor.StatusSkipped:
		fmt.Fprintln(r.out, infoStyle("(Command execution skipped for safety.)"))
		r.record(model.EntryExec, level.Number, line, "skipped")

	case executor.StatusRan:
		if res.Stdout != "" {
			fmt.Fprintln(r.out, res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprintln(r.out, errorStyle(res.Stderr))
		}
		r.record(model.EntryExec, level.Number, line, fmt.Sprintf("ran exit=%d", res.ExitCode))

	case executor.StatusFailed:
		if res.NotFound() {
			r.opts.Logger.Debug("demonstration command not found", "session", r.opts.SessionID, "command", line, "err", res.Err)
			r.record(model.EntryExec, level.Number, line, "not found")
			return
		}
		if res.Stderr != "" {
			fmt.Fprintln(r.out, errorStyle(res.Stderr))
		}
		fmt.Fprintln(r.out, mutedStyle(fmt.Sprintf("(Could not run the command: %v)", res.Err)))
		r.opts.Logger.Warn("demonstration failed", "session", r.opts.SessionID, "command", line, "err", res.Err)
		r.record(model.EntryExec, level.Number, line, fmt.Sprintf("failed: %v", res.Err))
	}
}

func (r *Runner) terminate(detail string) {
	if r.state == Terminated {
		return
	}
	r.quit = true
	r.record(model.EntryQuit, r.levelNumber(), "", detail)
	r.state = Terminated
}

// finish performs session-end bookkeeping. It must run exactly once per Run.
func (r *Runner) finish(ctx context.Context) {
	r.state = Terminated
	res := r.Result()
	r.record(model.EntrySessionEnd, 0, "", fmt.Sprintf("solved=%d/%d", res.Solved, res.Total))
	r.publish(ctx, events.TopicSessionEnded, events.SessionEnded{
		SessionID: res.SessionID,
		Solved:    res.Solved,
		Total:     res.Total,
		Completed: res.Completed,
		Quit:      res.Quit,
		EndedAt:   r.opts.Clock(),
	})
}

func (r *Runner) levelNumber() int {
	if r.index < len(r.levels) {
		return r.levels[r.index].Number
	}
	return 0
}

func (r *Runner) record(kind model.EntryKind, level int, input, detail string) {
	err := r.opts.Journal.Record(model.TranscriptEntry{
		Time:      r.opts.Clock(),
		SessionID: r.opts.SessionID,
		Kind:      kind,
		Level:     level,
		Input:     input,
		Detail:    detail,
	})
	if err != nil {
		r.opts.Logger.Warn("journal write failed", "session", r.opts.SessionID, "kind", kind, "err", err)
	}
}

func (r *Runner) publish(ctx context.Context, topic string, event any) {
	// Session-end events must go out even when ctx was cancelled.
	if err := r.opts.Publisher.Publish(context.WithoutCancel(ctx), topic, event); err != nil {
		r.opts.Logger.Warn("event publish failed", "topic", topic, "session", r.opts.SessionID, "err", err)
	}
}

func (r *Runner) printWelcome() {
	fmt.Fprintln(r.out, boldStyle("Welcome to LinuxTrainer CLI!"))
	fmt.Fprintln(r.out, "This interactive program helps you practise common Linux commands.")
	fmt.Fprintln(r.out, "Type the command you think solves the current level, or type 'hint' for help.")
	fmt.Fprintln(r.out, "You can leave the trainer at any time by typing 'exit' or 'quit'.")
	fmt.Fprintln(r.out)
}

func (r *Runner) printLevel() {
	level := r.levels[r.index]
	fmt.Fprintln(r.out, boldStyle(fmt.Sprintf("** Level %d: %s **", level.Number, level.DisplayTitle())))
	if level.Description != "" {
		fmt.Fprintln(r.out, level.Description)
	}
}
