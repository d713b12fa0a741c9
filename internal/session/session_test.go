package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/events"
	"github.com/alfredjeanlab/linuxtrainer/internal/executor"
	"github.com/alfredjeanlab/linuxtrainer/internal/journal"
	"github.com/alfredjeanlab/linuxtrainer/internal/model"
	"github.com/alfredjeanlab/linuxtrainer/internal/ui"
)

func TestMain(m *testing.M) {
	ui.ForceNoColor()
	os.Exit(m.Run())
}

// fakeExecutor records the command lines it was asked to run.
type fakeExecutor struct {
	calls  []string
	result executor.Result
}

func (f *fakeExecutor) Run(_ context.Context, line string) executor.Result {
	f.calls = append(f.calls, line)
	res := f.result
	res.Command = line
	return res
}

// recordingPublisher keeps published topics in order.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// panicMatcher blows up on the first answer.
type panicMatcher struct{}

func (panicMatcher) Matches(string, *string) bool { panic("boom") }

func threeLevels() []*model.Level {
	return []*model.Level{
		{Number: 1, Title: "Where am I?", Description: "Print the working directory.", ExpectedCommand: model.StringPtr("pwd"), Hint: "print working directory"},
		{Number: 2, Title: "Look around", ExpectedCommand: model.StringPtr("ls")},
		{Number: 3, Title: "Edit a file", ExpectedCommand: model.StringPtr("nano notes.txt"), Hint: "use an editor"},
	}
}

type harness struct {
	runner *Runner
	out    *strings.Builder
	jnl    *journal.Journal
	pub    *recordingPublisher
	exec   *fakeExecutor
}

func newHarness(levels []*model.Level, input string, execute bool) *harness {
	h := &harness{
		out:  &strings.Builder{},
		jnl:  journal.Discard(),
		pub:  &recordingPublisher{},
		exec: &fakeExecutor{result: executor.Result{Status: executor.StatusRan, Stdout: "output"}},
	}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.runner = New(levels, Options{
		SessionID: "ls-test0001",
		Executor:  h.exec,
		Execute:   execute,
		Journal:   h.jnl,
		Publisher: h.pub,
		In:        strings.NewReader(input),
		Out:       h.out,
		Clock:     func() time.Time { return fixed },
	})
	return h
}

func (h *harness) kinds() []model.EntryKind {
	var kinds []model.EntryKind
	for _, e := range h.jnl.Entries() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (h *harness) count(kind model.EntryKind) int {
	n := 0
	for _, e := range h.jnl.Entries() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestRun_CompletesAllLevels(t *testing.T) {
	input := "hint\npwdd\npwd\nls -la\nvi notes.txt\n"
	h := newHarness(threeLevels(), input, false)

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := h.out.String()
	for _, want := range []string{
		"Welcome to LinuxTrainer CLI!",
		"** Level 1: Where am I? **",
		"Print the working directory.",
		"Hint: print working directory",
		"Oops, that's not the right command.",
		"Correct! Well done.",
		"** Level 2: Look around **",
		"** Level 3: Edit a file **",
		"Congratulations! You have completed all the levels!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Correct! Well done."); n != 3 {
		t.Errorf("success messages = %d, want 3", n)
	}

	res := h.runner.Result()
	if !res.Completed || res.Quit || res.Solved != 3 || res.Total != 3 {
		t.Errorf("Result = %+v", res)
	}
	if h.runner.State() != Terminated {
		t.Errorf("State = %v, want terminated", h.runner.State())
	}

	if got := h.count(model.EntryInput); got != 5 {
		t.Errorf("input entries = %d, want 5", got)
	}
	if got := h.count(model.EntrySessionEnd); got != 1 {
		t.Errorf("session_end entries = %d, want 1", got)
	}
	kinds := h.kinds()
	if kinds[0] != model.EntrySessionStart || kinds[len(kinds)-1] != model.EntrySessionEnd {
		t.Errorf("journal should open with session_start and close with session_end: %v", kinds)
	}

	wantTopics := []string{
		events.TopicSessionStarted,
		events.TopicLevelSolved, events.TopicLevelSolved, events.TopicLevelSolved,
		events.TopicSessionEnded,
	}
	if strings.Join(h.pub.topics, ",") != strings.Join(wantTopics, ",") {
		t.Errorf("topics = %v, want %v", h.pub.topics, wantTopics)
	}
	solved := h.pub.events[1].(events.LevelSolved)
	if solved.Level != 1 || solved.Attempts != 2 || solved.Input != "pwd" {
		t.Errorf("first LevelSolved = %+v", solved)
	}
}

func TestRun_Quit(t *testing.T) {
	for _, word := range []string{"exit", "quit", "QUIT", "  Exit  "} {
		t.Run(word, func(t *testing.T) {
			h := newHarness(threeLevels(), "pwd\n"+word+"\nls\n", false)
			if err := h.runner.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			res := h.runner.Result()
			if !res.Quit || res.Completed || res.Solved != 1 {
				t.Errorf("Result = %+v", res)
			}
			if !strings.Contains(h.out.String(), "Goodbye!") {
				t.Errorf("missing goodbye in output")
			}
			// "ls" after quit is never read.
			if got := h.count(model.EntryInput); got != 2 {
				t.Errorf("input entries = %d, want 2", got)
			}
			if h.count(model.EntryQuit) != 1 || h.count(model.EntrySessionEnd) != 1 {
				t.Errorf("journal = %v", h.kinds())
			}
		})
	}
}

func TestRun_EOFActsAsQuit(t *testing.T) {
	h := newHarness(threeLevels(), "pwd\nls", false)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res := h.runner.Result()
	if res.Solved != 2 || !res.Quit {
		t.Errorf("Result = %+v", res)
	}
	var quit model.TranscriptEntry
	for _, e := range h.jnl.Entries() {
		if e.Kind == model.EntryQuit {
			quit = e
		}
	}
	if quit.Detail != "eof" || quit.Level != 3 {
		t.Errorf("quit entry = %+v", quit)
	}
}

func TestRun_NoLevels(t *testing.T) {
	h := newHarness(nil, "pwd\n", false)
	err := h.runner.Run(context.Background())
	if !errors.Is(err, ErrNoLevels) {
		t.Fatalf("Run error = %v, want ErrNoLevels", err)
	}
	if !strings.Contains(h.out.String(), "No levels found.") {
		t.Errorf("output = %q", h.out.String())
	}
	var sawError bool
	for _, e := range h.jnl.Entries() {
		if e.Kind == model.EntryError && e.Detail == "No levels loaded." {
			sawError = true
		}
	}
	if !sawError {
		t.Errorf("missing error entry: %v", h.kinds())
	}
	if h.count(model.EntrySessionEnd) != 1 {
		t.Errorf("session_end not recorded: %v", h.kinds())
	}
}

func TestRun_PanicIsFinalized(t *testing.T) {
	h := newHarness(threeLevels(), "pwd\n", false)
	h.runner.opts.Matcher = panicMatcher{}

	err := h.runner.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Run error = %v, want recovered panic", err)
	}
	if h.count(model.EntrySessionEnd) != 1 {
		t.Errorf("session_end not recorded: %v", h.kinds())
	}
	if last := h.pub.topics[len(h.pub.topics)-1]; last != events.TopicSessionEnded {
		t.Errorf("last topic = %q", last)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	h := newHarness(threeLevels(), "pwd\n", false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if h.count(model.EntrySessionEnd) != 1 {
		t.Errorf("session_end not recorded: %v", h.kinds())
	}
	if last := h.pub.topics[len(h.pub.topics)-1]; last != events.TopicSessionEnded {
		t.Errorf("ended event not published: %v", h.pub.topics)
	}
}

func TestHandle_Hint(t *testing.T) {
	levels := threeLevels()
	levels[1].Hint = ""
	h := newHarness(levels, "", false)
	ctx := context.Background()

	if s := h.runner.Handle(ctx, "HINT"); s != AwaitingInput {
		t.Fatalf("state after hint = %v", s)
	}
	h.runner.Handle(ctx, "pwd")
	h.runner.Handle(ctx, "hint")

	out := h.out.String()
	if !strings.Contains(out, "Hint: print working directory") {
		t.Errorf("missing level 1 hint: %q", out)
	}
	if !strings.Contains(out, "No hint available for this level.") {
		t.Errorf("missing no-hint message: %q", out)
	}
	if h.runner.Current().Number != 2 {
		t.Errorf("hint must not advance: current = %d", h.runner.Current().Number)
	}
}

func TestHandle_UnverifiableLevelNeverAdvances(t *testing.T) {
	levels := []*model.Level{{Number: 1, Title: "Open"}}
	h := newHarness(levels, "", false)
	ctx := context.Background()

	for _, in := range []string{"", "pwd", "anything"} {
		if s := h.runner.Handle(ctx, in); s != AwaitingInput {
			t.Errorf("Handle(%q) = %v, want awaiting_input", in, s)
		}
	}
	if h.runner.Result().Solved != 0 {
		t.Errorf("solved = %d", h.runner.Result().Solved)
	}
}

func TestHandle_Demonstration(t *testing.T) {
	for _, tc := range []struct {
		name     string
		execute  bool
		result   executor.Result
		wantRuns int
		wantOut  string
	}{
		{
			name:     "ran",
			execute:  true,
			result:   executor.Result{Status: executor.StatusRan, Stdout: "/home/learner"},
			wantRuns: 1,
			wantOut:  "/home/learner",
		},
		{
			name:     "nonzero exit still advances",
			execute:  true,
			result:   executor.Result{Status: executor.StatusRan, Stderr: "ls: cannot access", ExitCode: 2},
			wantRuns: 1,
			wantOut:  "ls: cannot access",
		},
		{
			name:     "skipped",
			execute:  true,
			result:   executor.Result{Status: executor.StatusSkipped, Err: executor.ErrNotAllowed},
			wantRuns: 1,
			wantOut:  "(Command execution skipped for safety.)",
		},
		{
			name:     "failed",
			execute:  true,
			result:   executor.Result{Status: executor.StatusFailed, Err: errors.New("executable file not found")},
			wantRuns: 1,
			wantOut:  "Could not run the command: executable file not found",
		},
		{
			name:     "disabled",
			execute:  false,
			wantRuns: 0,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(threeLevels(), "", tc.execute)
			h.exec.result = tc.result

			if s := h.runner.Handle(context.Background(), "pwd"); s != AwaitingInput {
				t.Fatalf("state = %v", s)
			}
			if len(h.exec.calls) != tc.wantRuns {
				t.Errorf("executor calls = %v, want %d", h.exec.calls, tc.wantRuns)
			}
			if tc.wantOut != "" && !strings.Contains(h.out.String(), tc.wantOut) {
				t.Errorf("output missing %q:\n%s", tc.wantOut, h.out.String())
			}
			if h.runner.Current().Number != 2 {
				t.Errorf("current = %d, want 2", h.runner.Current().Number)
			}
		})
	}
}

func TestHandle_MissingCommandIsQuiet(t *testing.T) {
	h := newHarness(threeLevels(), "", true)
	h.exec.result = executor.Result{
		Status: executor.StatusFailed,
		Err:    fmt.Errorf("history: %w", &exec.Error{Name: "history", Err: exec.ErrNotFound}),
	}

	if s := h.runner.Handle(context.Background(), "pwd"); s != AwaitingInput {
		t.Fatalf("state = %v", s)
	}
	out := h.out.String()
	if strings.Contains(out, "Could not run") || strings.Contains(out, "history") {
		t.Errorf("missing command should not be reported:\n%s", out)
	}
	var detail string
	for _, e := range h.jnl.Entries() {
		if e.Kind == model.EntryExec {
			detail = e.Detail
		}
	}
	if detail != "not found" {
		t.Errorf("exec entry detail = %q, want %q", detail, "not found")
	}
	if h.runner.Current().Number != 2 {
		t.Errorf("current = %d, want 2", h.runner.Current().Number)
	}
}

func TestHandle_ExecutesRawInput(t *testing.T) {
	h := newHarness(threeLevels(), "", true)
	ctx := context.Background()
	h.runner.Handle(ctx, "pwd")
	h.runner.Handle(ctx, "  ls   -la ")

	want := []string{"pwd", "ls   -la"}
	if strings.Join(h.exec.calls, "|") != strings.Join(want, "|") {
		t.Errorf("executor calls = %q, want %q", h.exec.calls, want)
	}
}

func TestHandle_AfterTerminated(t *testing.T) {
	h := newHarness(threeLevels(), "", false)
	ctx := context.Background()
	h.runner.Handle(ctx, "quit")
	before := len(h.jnl.Entries())

	if s := h.runner.Handle(ctx, "pwd"); s != Terminated {
		t.Errorf("state = %v", s)
	}
	if len(h.jnl.Entries()) != before {
		t.Errorf("input after termination was journaled")
	}
	if h.runner.Current() != nil {
		t.Errorf("Current() = %+v, want nil", h.runner.Current())
	}
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Action
	}{
		{"exit", ActionQuit},
		{"Quit", ActionQuit},
		{" hint ", ActionHint},
		{"Hint", ActionHint},
		{"hint please", ActionAnswer},
		{"exit now", ActionAnswer},
		{"", ActionAnswer},
		{"ls", ActionAnswer},
	} {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFromLevel(t *testing.T) {
	levels := []*model.Level{{Number: 1}, {Number: 3}, {Number: 5}}
	for _, tc := range []struct {
		start int
		want  []int
	}{
		{0, []int{1, 3, 5}},
		{1, []int{1, 3, 5}},
		{2, []int{3, 5}},
		{5, []int{5}},
		{6, nil},
	} {
		var got []int
		for _, l := range FromLevel(levels, tc.start) {
			got = append(got, l.Number)
		}
		if len(got) != len(tc.want) {
			t.Errorf("FromLevel(%d) = %v, want %v", tc.start, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("FromLevel(%d) = %v, want %v", tc.start, got, tc.want)
				break
			}
		}
	}
}

func TestState_String(t *testing.T) {
	if AwaitingInput.String() != "awaiting_input" || Terminated.String() != "terminated" {
		t.Errorf("unexpected state names")
	}
}
