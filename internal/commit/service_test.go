package commit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonKoogler/zcommit/internal/animation"
	"github.com/jasonKoogler/zcommit/internal/audit"
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/llm"
	"github.com/jasonKoogler/zcommit/internal/security"
)

type fakeSCM struct {
	diff    string
	ok      bool
	err     error
	mu      sync.Mutex
	writes  []string
	reading chan struct{}
	onClear func()
}

func (f *fakeSCM) GetDiff(ctx context.Context) (string, bool, error) {
	if f.reading != nil {
		<-f.reading
	}
	return f.diff, f.ok, f.err
}

func (f *fakeSCM) SetCommitMessage(ctx context.Context, text string) error {
	if text == "" && f.onClear != nil {
		f.onClear()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeSCM) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return "<none>"
	}
	return f.writes[len(f.writes)-1]
}

func (f *fakeSCM) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

type fakeChat struct {
	mu      sync.Mutex
	calls   int
	aborts  int
	gotDiff string
	started chan struct{}
	respond func(ctx context.Context) (string, error)
}

func (f *fakeChat) GenerateCommitMessage(ctx context.Context, apiKey, diff string, opts ...llm.CallOption) (string, error) {
	f.mu.Lock()
	f.calls++
	f.gotDiff = diff
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	return f.respond(ctx)
}

func (f *fakeChat) Abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborts++
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockUntilDone waits for the request context like a real HTTP call
func blockUntilDone(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", apperrors.ErrCanceled
}

func reply(msg string, err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return msg, err }
}

type fakeCreds struct {
	deleted []string
}

func (f *fakeCreds) Delete(account string) error {
	f.deleted = append(f.deleted, account)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errs     []string
}

func (f *fakeNotifier) Info(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, msg)
}

func (f *fakeNotifier) Warning(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, msg)
}

func (f *fakeNotifier) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, msg)
}

func (f *fakeNotifier) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.infos) + len(f.warnings) + len(f.errs)
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeRecorder) LogEvent(e audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

type fakeAnim struct {
	mu      sync.Mutex
	started int
	stopped int
}

func (f *fakeAnim) animator(sink animation.Sink) Stopper {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
	sink("⠇ Reasoning...")
	return f
}

func (f *fakeAnim) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

type setup struct {
	scm      *fakeSCM
	chat     *fakeChat
	creds    *fakeCreds
	notifier *fakeNotifier
	recorder *fakeRecorder
	anim     *fakeAnim
	svc      *Service
}

func newSetup(scm *fakeSCM, chat *fakeChat, opts ...Option) *setup {
	st := &setup{
		scm:      scm,
		chat:     chat,
		creds:    &fakeCreds{},
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
		anim:     &fakeAnim{},
	}
	base := []Option{
		WithCredentials(st.creds, "zai-tools.apiKey"),
		WithNotifier(st.notifier),
		WithRecorder(st.recorder),
		WithAnimator(st.anim.animator),
	}
	st.svc = NewService(scm, chat, append(base, opts...)...)
	return st
}

func TestGenerateWritesMessage(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "diff --git a/x b/x", ok: true},
		&fakeChat{respond: reply("feat: add x", nil)},
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Completed, res.State)
	assert.Equal(t, "feat: add x", res.Message)
	assert.NoError(t, res.Err)
	assert.Equal(t, "feat: add x", st.scm.last())
	assert.Equal(t, "diff --git a/x b/x", st.chat.gotDiff)
	assert.Equal(t, 1, st.anim.started)
	assert.Equal(t, 1, st.anim.stopped)
	assert.Zero(t, st.notifier.total())
	assert.False(t, st.svc.Generating())

	require.Len(t, st.recorder.events, 1)
	assert.Equal(t, "completed", st.recorder.events[0].Status)
	assert.Equal(t, "generate", st.recorder.events[0].Action)
	assert.Equal(t, len("diff --git a/x b/x"), st.recorder.events[0].DiffChars)
}

func TestGenerateWithRealAnimationEndsOnMessage(t *testing.T) {
	scm := &fakeSCM{diff: "d", ok: true}
	chat := &fakeChat{respond: func(ctx context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "fix: race", nil
	}}
	fast := animation.Timings{Spin: time.Millisecond, Type: time.Millisecond, Hold: 5 * time.Millisecond, Erase: time.Millisecond, Pause: time.Millisecond}
	svc := NewService(scm, chat, WithAnimationOptions(animation.WithTimings(fast)))

	res := svc.Generate(context.Background(), "key")
	require.Equal(t, Completed, res.State)

	n := scm.count()
	assert.Greater(t, n, 1, "animation frames were written")
	assert.Equal(t, "fix: race", scm.last())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, scm.count(), "no frames after completion")
}

func TestGenerateNoChanges(t *testing.T) {
	st := newSetup(&fakeSCM{ok: false}, &fakeChat{respond: reply("x", nil)})

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Idle, res.State)
	assert.ErrorIs(t, res.Err, apperrors.ErrGitNoChanges)
	assert.Equal(t, []string{NoChangesMessage}, st.notifier.warnings)
	assert.Zero(t, st.chat.callCount())
	assert.Zero(t, st.anim.started)
	assert.Zero(t, st.scm.count())
}

func TestGenerateHostUnavailable(t *testing.T) {
	hostErr := apperrors.HostError(apperrors.ErrGitNotInitialized)
	st := newSetup(&fakeSCM{err: hostErr}, &fakeChat{respond: reply("x", nil)})

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, apperrors.ErrHostUnavailable)
	assert.Equal(t, []string{"Failed to generate: " + hostErr.Error()}, st.notifier.errs)
	assert.Zero(t, st.chat.callCount())
}

func TestGenerateInvalidKeyClearsCredential(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("", &apperrors.APIError{StatusCode: 401, Body: "unauthorized"})},
	)

	res := st.svc.Generate(context.Background(), "bad")

	assert.Equal(t, Failed, res.State)
	assert.Equal(t, []string{"zai-tools.apiKey"}, st.creds.deleted)
	assert.Equal(t, []string{InvalidKeyMessage}, st.notifier.errs)
	assert.Equal(t, "", st.scm.last())
}

func TestGenerateAPIFailure(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("", &apperrors.APIError{StatusCode: 500, Body: "boom"})},
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Failed, res.State)
	assert.Equal(t, []string{"Failed to generate: Z.AI API 500: boom"}, st.notifier.errs)
	assert.Empty(t, st.creds.deleted)
	assert.Equal(t, "", st.scm.last())
	require.Len(t, st.recorder.events, 1)
	assert.Equal(t, "failed", st.recorder.events[0].Status)
	assert.Equal(t, "Z.AI API 500: boom", st.recorder.events[0].Error)
}

func TestGenerateParseFailure(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("", &apperrors.ParseError{Snapshot: `{"choices":[]}`})},
	)

	st.svc.Generate(context.Background(), "key")

	require.Len(t, st.notifier.errs, 1)
	assert.Equal(t, `Failed to generate: Unexpected Z.AI response: {"choices":[]}`, st.notifier.errs[0])
}

func TestGenerateNetworkFailure(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("", errors.Join(apperrors.ErrNetwork, errors.New("dial tcp: refused")))},
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Failed, res.State)
	require.Len(t, st.notifier.errs, 1)
	assert.True(t, strings.HasPrefix(st.notifier.errs[0], FailedPrefix))
}

func TestGenerateTransportAbortIsSilent(t *testing.T) {
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("", apperrors.ErrCanceled)},
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Cancelled, res.State)
	assert.Zero(t, st.notifier.total())
	assert.Equal(t, "", st.scm.last())
}

func TestCancelDuringGeneration(t *testing.T) {
	chat := &fakeChat{started: make(chan struct{}), respond: blockUntilDone}
	st := newSetup(&fakeSCM{diff: "d", ok: true}, chat)

	done := make(chan Result, 1)
	go func() { done <- st.svc.Generate(context.Background(), "key") }()

	<-chat.started
	assert.True(t, st.svc.Generating())
	st.svc.Cancel()

	select {
	case res := <-done:
		assert.Equal(t, Cancelled, res.State)
		assert.ErrorIs(t, res.Err, apperrors.ErrCanceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Generate did not return after Cancel")
	}

	assert.Equal(t, 1, chat.aborts)
	assert.Equal(t, 1, st.anim.stopped)
	assert.Equal(t, "", st.scm.last())
	assert.Zero(t, st.notifier.total())
	assert.Equal(t, Cancelled, st.svc.State())

	require.Len(t, st.recorder.events, 1)
	assert.Equal(t, "cancelled", st.recorder.events[0].Status)
}

func TestCancelWhileReadingDiff(t *testing.T) {
	scm := &fakeSCM{diff: "d", ok: true, reading: make(chan struct{})}
	st := newSetup(scm, &fakeChat{respond: reply("feat: x", nil)})

	done := make(chan Result, 1)
	go func() { done <- st.svc.Generate(context.Background(), "key") }()

	require.Eventually(t, func() bool { return st.svc.State() == AwaitingDiff }, time.Second, time.Millisecond)
	st.svc.Cancel()
	close(scm.reading)

	res := <-done
	assert.Equal(t, Cancelled, res.State)
	assert.Zero(t, st.chat.callCount())
	assert.Zero(t, st.anim.started)
}

func TestCancelWhenIdleIsNoop(t *testing.T) {
	st := newSetup(&fakeSCM{}, &fakeChat{respond: reply("", nil)})

	st.svc.Cancel()

	assert.Equal(t, Idle, st.svc.State())
	assert.Zero(t, st.chat.aborts)
	assert.Zero(t, st.scm.count())
}

func TestConcurrentGenerateRejected(t *testing.T) {
	chat := &fakeChat{started: make(chan struct{}), respond: blockUntilDone}
	st := newSetup(&fakeSCM{diff: "d", ok: true}, chat)

	done := make(chan Result, 1)
	go func() { done <- st.svc.Generate(context.Background(), "key") }()
	<-chat.started

	res := st.svc.Generate(context.Background(), "key")
	assert.ErrorIs(t, res.Err, apperrors.ErrGenerationActive)
	assert.Equal(t, Generating, res.State)

	st.svc.Cancel()
	<-done
}

func TestGenerateWhileCancelClearsIsRejected(t *testing.T) {
	chat := &fakeChat{started: make(chan struct{}), respond: blockUntilDone}
	clearing := make(chan struct{})
	unblock := make(chan struct{})
	scm := &fakeSCM{diff: "d", ok: true}
	scm.onClear = func() {
		close(clearing)
		<-unblock
	}
	st := newSetup(scm, chat)

	done := make(chan Result, 1)
	go func() { done <- st.svc.Generate(context.Background(), "key") }()
	<-chat.started

	cancelled := make(chan struct{})
	go func() {
		st.svc.Cancel()
		close(cancelled)
	}()
	<-clearing

	res := st.svc.Generate(context.Background(), "key")
	assert.ErrorIs(t, res.Err, apperrors.ErrGenerationActive)
	assert.Equal(t, 1, chat.callCount())

	close(unblock)
	<-cancelled
	assert.Equal(t, Cancelled, (<-done).State)
	assert.Equal(t, Cancelled, st.svc.State())

	scm.onClear = nil
	chat.started = nil
	chat.respond = reply("feat: next", nil)

	res = st.svc.Generate(context.Background(), "key")
	assert.Equal(t, Completed, res.State)
	assert.Equal(t, "feat: next", scm.last())
}

func TestLongDiffWarnsAboutTruncation(t *testing.T) {
	diff := strings.Repeat("é", 1500)
	st := newSetup(
		&fakeSCM{diff: diff, ok: true},
		&fakeChat{respond: reply("docs: accents", nil)},
		WithDiffLimit(1000),
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Completed, res.State)
	require.Len(t, st.notifier.warnings, 1)
	assert.Equal(t, "The diff is 3.0 kB. Only the first 1,000 characters are sent.", st.notifier.warnings[0])
	assert.Equal(t, diff, st.chat.gotDiff)
}

func TestDiffWithinLimitRunesDoesNotWarn(t *testing.T) {
	// 1500 bytes but only 750 runes
	diff := strings.Repeat("é", 750)
	st := newSetup(
		&fakeSCM{diff: diff, ok: true},
		&fakeChat{respond: reply("docs: accents", nil)},
		WithDiffLimit(1000),
	)

	st.svc.Generate(context.Background(), "key")

	assert.Empty(t, st.notifier.warnings)
}

type stubScanner []security.Finding

func (s stubScanner) ScanChanges(string) []security.Finding { return s }

func TestSensitiveDiffWarns(t *testing.T) {
	findings := stubScanner{{Type: "AWS Key"}, {Type: "AWS Key"}, {Type: "Password"}}
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("chore: keys", nil)},
		WithScanner(findings),
	)

	res := st.svc.Generate(context.Background(), "key")

	assert.Equal(t, Completed, res.State)
	require.Len(t, st.notifier.warnings, 1)
	assert.Contains(t, st.notifier.warnings[0], "AWS Key, Password")
}

func TestStateObserverSequence(t *testing.T) {
	var mu sync.Mutex
	var seen []State
	st := newSetup(
		&fakeSCM{diff: "d", ok: true},
		&fakeChat{respond: reply("feat: y", nil)},
		WithStateObserver(func(s State) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		}),
	)

	st.svc.Generate(context.Background(), "key")

	assert.Equal(t, []State{AwaitingDiff, Generating, Completed}, seen)
}

func TestGenerateAfterCompletionStartsFresh(t *testing.T) {
	st := newSetup(&fakeSCM{diff: "d", ok: true}, &fakeChat{respond: reply("feat: z", nil)})

	require.Equal(t, Completed, st.svc.Generate(context.Background(), "key").State)
	require.Equal(t, Completed, st.svc.Generate(context.Background(), "key").State)
	assert.Equal(t, 2, st.chat.callCount())
}
