// Package commit drives one commit message generation: read the diff,
// animate the field, call the model and write the outcome.
package commit

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/jasonKoogler/zcommit/internal/animation"
	"github.com/jasonKoogler/zcommit/internal/audit"
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/llm"
	"github.com/jasonKoogler/zcommit/internal/logging"
	"github.com/jasonKoogler/zcommit/internal/security"
)

// User facing messages
const (
	NoChangesMessage  = "No changes found. Make some changes first."
	InvalidKeyMessage = "Invalid API key. It has been cleared — try again."
	FailedPrefix      = "Failed to generate: "
)

// SourceControl reads the diff and owns the commit message field
type SourceControl interface {
	GetDiff(ctx context.Context) (string, bool, error)
	SetCommitMessage(ctx context.Context, text string) error
}

// ChatClient turns a diff into a commit subject
type ChatClient interface {
	GenerateCommitMessage(ctx context.Context, apiKey, diff string, opts ...llm.CallOption) (string, error)
	Abort()
}

// Credentials removes a rejected API key
type Credentials interface {
	Delete(account string) error
}

// Notifier shows messages to the user
type Notifier interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Recorder stores an audit trail of generations
type Recorder interface {
	LogEvent(event audit.Event) error
}

// Scanner looks for secrets in a diff before it leaves the machine
type Scanner interface {
	ScanChanges(diff string) []security.Finding
}

// Stopper halts a running animation and waits for it
type Stopper interface {
	Stop()
}

// Animator starts an animation writing frames to sink
type Animator func(sink animation.Sink) Stopper

// Result is the outcome of Generate
type Result struct {
	State   State
	Message string
	Err     error
}

// Session is the state of the generation in progress
type Session struct {
	started   time.Time
	diffChars int
	anim      Stopper
	cancel    context.CancelFunc
	cancelled bool
	finished  bool
}

// Service orchestrates generations. At most one session is active.
type Service struct {
	scm      SourceControl
	chat     ChatClient
	creds    Credentials
	account  string
	notifier Notifier
	logger   logging.Logger
	recorder Recorder
	scanner  Scanner
	animate  Animator
	callOpts []llm.CallOption
	maxDiff  int

	mu        sync.Mutex
	state     State
	session   *Session
	observers []func(State)
}

// Option configures a Service
type Option func(*Service)

// WithCredentials sets the store that loses the key on an auth failure
func WithCredentials(creds Credentials, account string) Option {
	return func(s *Service) {
		s.creds = creds
		s.account = account
	}
}

// WithNotifier sets where user messages go
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder enables audit events
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithScanner enables the sensitive data warning
func WithScanner(sc Scanner) Option {
	return func(s *Service) { s.scanner = sc }
}

// WithAnimator replaces the thinking animation
func WithAnimator(a Animator) Option {
	return func(s *Service) { s.animate = a }
}

// WithAnimationOptions configures the default animation
func WithAnimationOptions(opts ...animation.Option) Option {
	return func(s *Service) {
		s.animate = func(sink animation.Sink) Stopper {
			return animation.Start(sink, opts...)
		}
	}
}

// WithCallOptions applies request overrides to every generation
func WithCallOptions(opts ...llm.CallOption) Option {
	return func(s *Service) { s.callOpts = append(s.callOpts, opts...) }
}

// WithDiffLimit sets the diff length above which the user is told the
// diff will be truncated. It should match the chat client's limit.
func WithDiffLimit(chars int) Option {
	return func(s *Service) { s.maxDiff = chars }
}

// WithStateObserver registers fn for every state change
func WithStateObserver(fn func(State)) Option {
	return func(s *Service) { s.observers = append(s.observers, fn) }
}

// NewService creates a new commit service
func NewService(scm SourceControl, chat ChatClient, opts ...Option) *Service {
	s := &Service{
		scm:      scm,
		chat:     chat,
		notifier: nopNotifier{},
		logger:   logging.NewNullLogger(),
		maxDiff:  llm.MaxDiffChars,
		animate: func(sink animation.Sink) Stopper {
			return animation.Start(sink)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generating reports whether a request is in flight
func (s *Service) Generating() bool {
	return s.State() == Generating
}

// Generate runs one generation to completion. Every failure is reported
// through the notifier and the Result; nothing is returned as a Go error.
func (s *Service) Generate(ctx context.Context, apiKey string, opts ...llm.CallOption) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, err := s.begin(cancel)
	if err != nil {
		return Result{State: s.State(), Err: err}
	}
	s.transition(AwaitingDiff)

	diff, ok, err := s.scm.GetDiff(ctx)
	if err != nil {
		if s.release(sess) {
			return s.finish(sess, Result{State: Cancelled, Err: apperrors.ErrCanceled})
		}
		s.logger.Error("failed to read diff: %v", err)
		s.notifier.Error(FailedPrefix + err.Error())
		s.transition(Failed)
		return s.finish(sess, Result{State: Failed, Err: err})
	}
	if !ok {
		if s.release(sess) {
			return s.finish(sess, Result{State: Cancelled, Err: apperrors.ErrCanceled})
		}
		s.notifier.Warning(NoChangesMessage)
		s.transition(Idle)
		return s.finish(sess, Result{State: Idle, Err: apperrors.ErrGitNoChanges})
	}
	sess.diffChars = len(diff)

	s.warnSensitive(diff)
	s.warnTruncated(diff)

	if !s.startGenerating(ctx, sess) {
		return s.finish(sess, Result{State: Cancelled, Err: apperrors.ErrCanceled})
	}

	callOpts := append(append([]llm.CallOption(nil), s.callOpts...), opts...)
	msg, err := s.chat.GenerateCommitMessage(ctx, apiKey, diff, callOpts...)

	if s.release(sess) {
		// Cancel already stopped the animation and cleared the field
		return s.finish(sess, Result{State: Cancelled, Err: apperrors.ErrCanceled})
	}

	writeCtx := context.WithoutCancel(ctx)
	if err == nil {
		s.transition(Completed)
		if werr := s.scm.SetCommitMessage(writeCtx, msg); werr != nil {
			s.notifier.Error(werr.Error())
			return s.finish(sess, Result{State: Failed, Message: msg, Err: werr})
		}
		s.logger.Info("generated commit message: %s", msg)
		return s.finish(sess, Result{State: Completed, Message: msg})
	}

	if werr := s.scm.SetCommitMessage(writeCtx, ""); werr != nil {
		s.logger.Warn("failed to clear commit message field: %v", werr)
	}
	return s.finish(sess, s.fail(err))
}

// Cancel aborts the generation in progress, stops the animation and clears
// the field. It does nothing when no generation is active.
func (s *Service) Cancel() {
	s.mu.Lock()
	sess := s.session
	if sess == nil || sess.finished {
		s.mu.Unlock()
		return
	}
	sess.cancelled = true
	sess.finished = true
	anim := sess.anim
	s.mu.Unlock()

	sess.cancel()
	s.chat.Abort()
	if anim != nil {
		anim.Stop()
	}
	if err := s.scm.SetCommitMessage(context.Background(), ""); err != nil {
		s.logger.Warn("failed to clear commit message field: %v", err)
	}
	s.transition(Cancelled)

	// The slot is freed only after the field is cleared
	s.mu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.mu.Unlock()
	s.logger.Info("generation cancelled")
}

func (s *Service) begin(cancel context.CancelFunc) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil, apperrors.ErrGenerationActive
	}
	s.session = &Session{started: time.Now(), cancel: cancel}
	return s.session, nil
}

// startGenerating raises the flag and starts the animation unless the
// session was cancelled while the diff was read.
func (s *Service) startGenerating(ctx context.Context, sess *Session) bool {
	s.mu.Lock()
	if sess.cancelled {
		s.mu.Unlock()
		return false
	}
	s.state = Generating
	observers := slices.Clone(s.observers)
	sess.anim = s.animate(func(frame string) {
		_ = s.scm.SetCommitMessage(ctx, frame)
	})
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Generating)
	}
	return true
}

// release ends the session and stops its animation. It reports whether
// Cancel got there first.
func (s *Service) release(sess *Session) bool {
	s.mu.Lock()
	if sess.finished {
		cancelled := sess.cancelled
		s.mu.Unlock()
		return cancelled
	}
	sess.finished = true
	if s.session == sess {
		s.session = nil
	}
	anim := sess.anim
	s.mu.Unlock()

	if anim != nil {
		anim.Stop()
	}
	return false
}

func (s *Service) fail(err error) Result {
	switch apperrors.Classify(err) {
	case apperrors.KindTransport:
		s.logger.Info("generation aborted: %v", err)
		s.transition(Cancelled)
		return Result{State: Cancelled, Err: err}

	case apperrors.KindAuth:
		s.logger.Warn("API key rejected, removing stored credential")
		if s.creds != nil {
			if derr := s.creds.Delete(s.account); derr != nil {
				s.logger.Error("failed to delete credential: %v", derr)
			}
		}
		s.notifier.Error(InvalidKeyMessage)

	default:
		s.logger.Error("generation failed: %v", err)
		s.notifier.Error(FailedPrefix + err.Error())
	}

	s.transition(Failed)
	return Result{State: Failed, Err: err}
}

func (s *Service) warnSensitive(diff string) {
	if s.scanner == nil {
		return
	}
	findings := s.scanner.ScanChanges(diff)
	if len(findings) == 0 {
		return
	}

	kinds := map[string]bool{}
	var names []string
	for _, f := range findings {
		if !kinds[f.Type] {
			kinds[f.Type] = true
			names = append(names, f.Type)
		}
	}
	s.logger.Warn("sensitive data in diff: %s", strings.Join(names, ", "))
	s.notifier.Warning(fmt.Sprintf("Possible sensitive data in the diff (%s). It will be sent to Z.AI.", strings.Join(names, ", ")))
}

func (s *Service) warnTruncated(diff string) {
	if s.maxDiff <= 0 || len(diff) <= s.maxDiff {
		return
	}
	if utf8.RuneCountInString(diff) <= s.maxDiff {
		return
	}
	s.notifier.Warning(fmt.Sprintf("The diff is %s. Only the first %s characters are sent.",
		humanize.Bytes(uint64(len(diff))), humanize.Comma(int64(s.maxDiff))))
}

func (s *Service) transition(st State) {
	s.mu.Lock()
	s.state = st
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
}

func (s *Service) finish(sess *Session, r Result) Result {
	if s.recorder == nil {
		return r
	}

	event := audit.Event{
		Action:     "generate",
		Provider:   "zai",
		Status:     r.State.String(),
		DiffChars:  sess.diffChars,
		DurationMS: time.Since(sess.started).Milliseconds(),
	}
	if r.Err != nil {
		event.Error = r.Err.Error()
	}
	if err := s.recorder.LogEvent(event); err != nil {
		s.logger.Warn("failed to write audit event: %v", err)
	}
	return r
}

type nopNotifier struct{}

func (nopNotifier) Info(string)    {}
func (nopNotifier) Warning(string) {}
func (nopNotifier) Error(string)   {}
