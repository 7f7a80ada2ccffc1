package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jasonKoogler/zcommit/internal/commit"
	"github.com/jasonKoogler/zcommit/internal/config"
	"github.com/jasonKoogler/zcommit/internal/git"
	"github.com/jasonKoogler/zcommit/internal/llm"
	"github.com/jasonKoogler/zcommit/internal/scm"
	"github.com/jasonKoogler/zcommit/internal/tui"
	"github.com/jasonKoogler/zcommit/internal/ui"
)

// generation describes one run of the commit service from the command line
type generation struct {
	dir         string
	messageFile string
	tui         bool
	live        bool
	apiKey      string
	callOpts    []llm.CallOption
}

// run builds the service around a git host and drives one generation.
// SIGINT and SIGTERM cancel it the same way the stop command does.
func (g generation) run(ctx context.Context) (commit.Result, *git.Host, error) {
	var hostOpts []git.HostOption
	if g.messageFile != "" {
		hostOpts = append(hostOpts, git.WithMessageFile(g.messageFile))
	}
	host := git.NewHost(g.dir, hostOpts...)
	if err := host.Activate(ctx); err == nil {
		if repo := host.Repository(); repo != nil {
			appContext.AuditLogger.SetRepoName(repo.Name())
		}
	}

	llmCfg := appContext.LLMConfig()
	chat := llm.NewClient(llmCfg, llm.WithLogger(appContext.Logger))

	opts := []commit.Option{
		commit.WithCredentials(appContext.CredentialMgr, config.CredentialAccount),
		commit.WithLogger(appContext.Logger),
		commit.WithRecorder(appContext.AuditLogger),
		commit.WithCallOptions(g.callOpts...),
		commit.WithDiffLimit(llmCfg.MaxDiffChars),
		commit.WithStateObserver(statusObserver(appContext.StatusFile())),
	}
	if appContext.Scanner != nil {
		opts = append(opts, commit.WithScanner(appContext.Scanner))
	}

	if g.tui {
		return g.runTUI(ctx, host, chat, opts)
	}
	res := g.runPlain(ctx, host, chat, opts)
	return res, host, nil
}

func (g generation) runTUI(ctx context.Context, host *git.Host, chat *llm.Client, opts []commit.Option) (commit.Result, *git.Host, error) {
	prog := tui.NewProgram(tea.WithContext(ctx), tea.WithOutput(os.Stderr), tea.WithoutSignalHandler())
	bridge := scm.NewBridge(host, scm.WithFieldDecorator(prog.Field))

	opts = append(opts,
		commit.WithNotifier(prog.Notifier()),
		commit.WithStateObserver(prog.Observe),
	)
	svc := commit.NewService(bridge, chat, opts...)

	stop := cancelOnSignal(svc)
	defer stop()

	res, err := prog.Run(func() commit.Result {
		return svc.Generate(ctx, g.apiKey)
	}, svc.Cancel)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return res, host, fmt.Errorf("interactive view failed: %w", err)
	}
	return res, host, nil
}

func (g generation) runPlain(ctx context.Context, host *git.Host, chat *llm.Client, opts []commit.Option) commit.Result {
	var bridgeOpts []scm.BridgeOption
	var field *ui.LiveField
	if g.live {
		field = ui.NewLiveField(os.Stderr)
		bridgeOpts = append(bridgeOpts, scm.WithFieldDecorator(field.Wrap))
	}
	bridge := scm.NewBridge(host, bridgeOpts...)

	progress := ui.CreateProgress(g.live)
	opts = append(opts,
		commit.WithNotifier(ui.NewProgressNotifier(progress)),
		commit.WithStateObserver(func(st commit.State) {
			switch st {
			case commit.AwaitingDiff:
				progress.Start("Reading changes")
			case commit.Generating:
				progress.Stop()
			}
		}),
	)
	svc := commit.NewService(bridge, chat, opts...)

	stop := cancelOnSignal(svc)
	defer stop()

	res := svc.Generate(ctx, g.apiKey)
	progress.Stop()
	if field != nil {
		field.Clear()
	}
	return res
}

// cancelOnSignal cancels the service on SIGINT or SIGTERM until the
// returned func is called.
func cancelOnSignal(svc *commit.Service) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigs:
			svc.Cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
