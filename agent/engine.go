package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AMCarbonaro/snapbot/config"
	"github.com/AMCarbonaro/snapbot/log"
	"github.com/AMCarbonaro/snapbot/pagescript"
	"github.com/AMCarbonaro/snapbot/persona"
	"github.com/AMCarbonaro/snapbot/reply"
	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/types"
	"github.com/AMCarbonaro/snapbot/utils"
)

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Engine runs the reply cycle: on every tick it walks the selected
// slice of the roster, opens each conversation, reads its last message,
// decides whether and how to reply, sends, and returns to the list
// view. Nothing inside a conversation's handling may escape and stop
// the timer; the only fatal condition is an explicit stop.
type Engine struct {
	driver     PageDriver
	state      *State
	scanner    *Scanner
	gen        *reply.Generator
	classifier MessageClassifier
	timing     config.TimingConfig

	running atomic.Bool
	sleep   sleepFunc
}

func NewEngine(driver PageDriver, state *State, scanner *Scanner, gen *reply.Generator, classifier MessageClassifier, timing config.TimingConfig) *Engine {
	if classifier == nil {
		classifier = NewHeuristicClassifier()
	}
	return &Engine{
		driver:     driver,
		state:      state,
		scanner:    scanner,
		gen:        gen,
		classifier: classifier,
		timing:     timing,
		sleep:      sleepCtx,
	}
}

// Run blocks until ctx is done, firing one cycle per tick. The initial
// delay leaves room for a manual login after the page comes up. Errors
// inside cycles never stop the timer.
func (e *Engine) Run(ctx context.Context) {
	logger := log.LoggerFromContext(ctx).With(slog.String("component", "engine"))
	logger.Info("engine ready",
		slog.Duration("initial-delay", e.timing.InitialDelay),
		slog.Duration("tick", e.timing.TickInterval))
	if err := e.sleep(ctx, e.timing.InitialDelay); err != nil {
		return
	}
	e.RunCycle(ctx)
	ticker := time.NewTicker(e.timing.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// RunCycle executes one cycle. No-ops when the agent is disabled or a
// cycle is already in flight; ticks are not queued.
func (e *Engine) RunCycle(ctx context.Context) {
	if !e.state.Enabled() {
		return
	}
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	defer e.running.Store(false)

	logger := log.LoggerFromContext(ctx).With(slog.String("component", "engine"))
	sels := e.state.Selectors()
	defer func() {
		// leave no residual row highlight behind, whatever happened
		var res pagescript.Result
		_ = e.driver.Eval(ctx, pagescript.ClearHighlight(), &res)
	}()

	e.state.SetConnected(true)
	e.state.SetError("")
	e.state.PruneCooldowns(e.timing.CooldownWindow)

	if !e.state.RosterValid() {
		if err := e.scanner.ScanRoster(ctx); err != nil {
			e.state.SetError(err.Error())
			e.state.SetCycleText("no chat list")
			logger.Warn("roster scan failed", slog.String("err", err.Error()))
			return
		}
		e.state.MarkRosterValid()
	} else if added, err := e.scanner.MergeVisible(ctx); err != nil {
		e.state.SetError(err.Error())
	} else if added > 0 {
		logger.Debug(fmt.Sprintf("discovered %d new conversations", added))
	}

	queue := e.state.SelectedChats().Slice(e.state.Roster())
	if len(queue) == 0 {
		e.state.SetCycleText("no chats selected")
		return
	}

	for _, name := range queue {
		if !e.state.Enabled() {
			break
		}
		if e.state.Ignored(name) {
			continue
		}
		if e.state.OnCooldown(name, e.timing.CooldownWindow) {
			e.state.RecordSkip(name)
			continue
		}
		e.handleConversation(ctx, logger, sels, name)
		if !e.state.Enabled() {
			break
		}
		if err := e.pause(ctx); err != nil {
			break
		}
	}
}

// handleConversation processes a single conversation. Every failure is
// recorded and swallowed so the cycle moves on to the next entry.
func (e *Engine) handleConversation(ctx context.Context, logger *slog.Logger, sels *selectors.Set, name string) {
	clogger := logger.With(slog.String("chat", utils.ShortenString(name, 20)))

	found, err := e.scanner.ScrollToChatByName(ctx, name)
	if err != nil {
		e.recordErr(name, err)
		return
	}
	if !found {
		clogger.Debug("not found in list, skipping")
		e.state.RecordSkip(name)
		return
	}

	var click pagescript.FoundResult
	if err := e.driver.Eval(ctx, pagescript.ClickChatByName(sels, name), &click); err != nil {
		e.recordErr(name, err)
		return
	}
	if !click.OK || !click.Found {
		if click.Error != "" {
			e.state.SetError(click.Error)
		}
		e.state.RecordSkip(name)
		return
	}
	defer func() {
		// best effort, itself fault-tolerant
		var back pagescript.Result
		_ = e.driver.Eval(ctx, pagescript.BackToList(sels), &back)
	}()
	if err := e.pause(ctx); err != nil {
		return
	}
	if !e.state.Enabled() {
		return
	}

	var msg pagescript.MessageResult
	if err := e.driver.Eval(ctx, pagescript.LastMessage(sels, "me"), &msg); err != nil {
		e.recordErr(name, err)
		return
	}
	if !msg.OK {
		if msg.Error != "" {
			e.state.SetError(msg.Error)
		}
		e.state.RecordError(name)
		return
	}

	snap := msg.MessageSnapshot
	empty := e.classifier.EmptyChat(snap)
	if e.classifier.FromSelf(snap) && !empty {
		// already answered, nothing to do until they write again
		clogger.Debug("last message is ours, skipping")
		e.state.RecordSkip(name)
		return
	}
	snapOnly := e.classifier.SnapOnly(snap)
	if snapOnly && e.state.NewSnapAction() == "ignore" {
		clogger.Debug("snap-only conversation ignored")
		e.state.RecordSkip(name)
		return
	}

	response := e.composeReply(ctx, snap, empty, snapOnly)
	if err := e.pause(ctx); err != nil {
		return
	}
	if !e.state.Enabled() {
		return
	}

	var typed pagescript.Result
	if err := e.driver.Eval(ctx, pagescript.TypeInput(sels, response), &typed); err != nil {
		e.recordErr(name, err)
		return
	}
	if !typed.OK {
		if typed.Error == "no input" {
			e.state.SetCycleText("input box not found")
		} else {
			e.state.SetCycleText("type failed")
		}
		if typed.Error != "" {
			e.state.SetError(typed.Error)
		}
		e.state.RecordError(name)
		return
	}

	e.attemptSend(ctx, clogger, sels, name)
}

// composeReply picks the canned greeting for empty or snap-only
// conversations and the generated reply otherwise. Generation failure
// degrades to the filler, never aborts.
func (e *Engine) composeReply(ctx context.Context, snap types.MessageSnapshot, empty, snapOnly bool) string {
	if empty || snapOnly {
		return e.state.NewChatReply()
	}
	personaPrompt := ""
	if enabled, cfg := e.state.Persona(); enabled {
		personaPrompt = persona.BuildPrompt(cfg)
	}
	genCtx := ctx
	if e.timing.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.timing.GenerateTimeout)
		defer cancel()
	}
	response, err := e.gen.Reply(genCtx, snap.LastText, snap.Recent, personaPrompt, e.state.NewChatReply())
	if err != nil {
		e.state.SetError(err.Error())
		return reply.FillerReply
	}
	return response
}

// attemptSend clicks the send control with a bounded retry loop: the
// first attempt waits for the input to settle, later ones retry faster.
func (e *Engine) attemptSend(ctx context.Context, logger *slog.Logger, sels *selectors.Set, name string) {
	retries := e.timing.SendRetries
	if retries < 1 {
		retries = 1
	}
	for attempt := 0; attempt < retries; attempt++ {
		delay := e.timing.SendRetryDelay
		if attempt == 0 {
			delay = e.timing.SendFirstDelay
		}
		if err := e.sleep(ctx, delay); err != nil {
			return
		}
		var sent pagescript.Result
		if err := e.driver.Eval(ctx, pagescript.ClickSend(sels), &sent); err != nil {
			e.recordErr(name, err)
			return
		}
		if sent.OK {
			e.state.StampCooldown(name)
			e.state.SetCycleText(fmt.Sprintf("replied to %s", name))
			e.state.RecordReply(name)
			logger.Info("reply sent")
			return
		}
		if attempt == retries-1 {
			if sent.Error == "no send" {
				e.state.SetCycleText("typed but send button not found")
			} else {
				e.state.SetCycleText("send click failed")
			}
			if sent.Error != "" {
				e.state.SetError(sent.Error)
			}
			e.state.RecordError(name)
		}
	}
}

func (e *Engine) recordErr(name string, err error) {
	e.state.SetError(err.Error())
	e.state.RecordError(name)
}

func (e *Engine) pause(ctx context.Context) error {
	return e.sleep(ctx, utils.RandomDuration(e.timing.PauseMin, e.timing.PauseMax))
}
