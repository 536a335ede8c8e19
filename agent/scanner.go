package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AMCarbonaro/snapbot/config"
	"github.com/AMCarbonaro/snapbot/log"
	"github.com/AMCarbonaro/snapbot/pagescript"
	"github.com/AMCarbonaro/snapbot/utils"
)

// Scanner walks the virtualized conversation list end to end and folds
// the visible rows into the roster. The list only renders a window of
// rows, so discovery means scrolling in fixed steps and re-reading
// until nothing new shows up.
type Scanner struct {
	driver PageDriver
	state  *State
	cfg    config.ScanConfig
	sleep  sleepFunc
}

func NewScanner(driver PageDriver, state *State, cfg config.ScanConfig) *Scanner {
	return &Scanner{
		driver: driver,
		state:  state,
		cfg:    cfg,
		sleep:  sleepCtx,
	}
}

// ScanRoster (re)builds the roster up to the configured target count.
// Existing names keep their position; newly discovered names are
// appended. Cooldowns are untouched. The scroll position is reset to
// the top before returning, found or not.
func (sc *Scanner) ScanRoster(ctx context.Context) error {
	logger := log.LoggerFromContext(ctx).With(slog.String("component", "scanner"))
	sels := sc.state.Selectors()

	var metrics pagescript.MetricsResult
	if err := sc.driver.Eval(ctx, pagescript.Metrics(sels), &metrics); err != nil {
		return err
	}
	if !metrics.OK {
		return fmt.Errorf("conversation list not found: %s", metrics.Error)
	}
	if metrics.ScrollTop != 0 {
		var reset pagescript.MetricsResult
		if err := sc.driver.Eval(ctx, pagescript.ScrollTo(sels, 0), &reset); err != nil {
			return err
		}
	}
	defer func() {
		var reset pagescript.MetricsResult
		_ = sc.driver.Eval(ctx, pagescript.ScrollTo(sels, 0), &reset)
	}()

	offset := 0.0
	stale := 0
	maxScroll := metrics.ScrollHeight
	for sc.state.RosterLen() < sc.cfg.TargetCount && stale < sc.cfg.StaleThreshold {
		if !sc.state.Enabled() {
			break
		}
		var rows pagescript.RowsResult
		if err := sc.driver.Eval(ctx, pagescript.VisibleRows(sels), &rows); err != nil {
			return err
		}
		if !rows.OK {
			stale++
		} else {
			names := make([]string, 0, len(rows.Rows))
			for _, r := range rows.Rows {
				names = append(names, r.Name)
			}
			if added := sc.state.MergeRoster(names); added == 0 {
				stale++
			} else {
				stale = 0
				sc.state.SetCycleText(fmt.Sprintf("scanning chats %d/%d", sc.state.RosterLen(), sc.cfg.TargetCount))
			}
		}

		offset += sc.cfg.ScrollStep
		if offset > maxScroll {
			break
		}
		var step pagescript.MetricsResult
		if err := sc.driver.Eval(ctx, pagescript.ScrollTo(sels, offset), &step); err != nil {
			return err
		}
		if step.OK && step.ScrollHeight > maxScroll {
			// the virtualized list grows as it renders
			maxScroll = step.ScrollHeight
		}
		if err := sc.sleep(ctx, utils.RandomDuration(sc.cfg.StepPauseMin, sc.cfg.StepPauseMax)); err != nil {
			return err
		}
	}
	logger.Debug(fmt.Sprintf("scan finished with %d conversations", sc.state.RosterLen()))
	return nil
}

// MergeVisible folds the currently rendered rows into the roster
// without scrolling. Run every cycle so conversations that appear after
// the full scan still get discovered.
func (sc *Scanner) MergeVisible(ctx context.Context) (int, error) {
	var rows pagescript.RowsResult
	if err := sc.driver.Eval(ctx, pagescript.VisibleRows(sc.state.Selectors()), &rows); err != nil {
		return 0, err
	}
	if !rows.OK {
		return 0, nil
	}
	names := make([]string, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		names = append(names, r.Name)
	}
	return sc.state.MergeRoster(names), nil
}

// ScrollToChatByName brings the named conversation's row into the
// rendered window. Returns false when the name cannot be found within
// the scroll range; callers treat that as "skip this conversation this
// cycle", never as fatal.
func (sc *Scanner) ScrollToChatByName(ctx context.Context, name string) (bool, error) {
	sels := sc.state.Selectors()

	visible, err := sc.nameVisible(ctx, name)
	if err != nil {
		return false, err
	}
	if visible {
		return true, nil
	}

	var metrics pagescript.MetricsResult
	if err := sc.driver.Eval(ctx, pagescript.Metrics(sels), &metrics); err != nil {
		return false, err
	}
	if !metrics.OK {
		return false, nil
	}
	maxScroll := metrics.ScrollHeight
	for offset := 0.0; offset <= maxScroll; offset += sc.cfg.ScrollStep {
		var step pagescript.MetricsResult
		if err := sc.driver.Eval(ctx, pagescript.ScrollTo(sels, offset), &step); err != nil {
			return false, err
		}
		if step.OK && step.ScrollHeight > maxScroll {
			maxScroll = step.ScrollHeight
		}
		if err := sc.sleep(ctx, utils.RandomDuration(sc.cfg.StepPauseMin, sc.cfg.StepPauseMax)); err != nil {
			return false, err
		}
		visible, err := sc.nameVisible(ctx, name)
		if err != nil {
			return false, err
		}
		if visible {
			return true, nil
		}
	}
	return false, nil
}

func (sc *Scanner) nameVisible(ctx context.Context, name string) (bool, error) {
	var rows pagescript.RowsResult
	if err := sc.driver.Eval(ctx, pagescript.VisibleRows(sc.state.Selectors()), &rows); err != nil {
		return false, err
	}
	if !rows.OK {
		return false, nil
	}
	want := key(name)
	for _, r := range rows.Rows {
		if key(r.Name) == want || strings.HasPrefix(key(r.Name), want) {
			return true, nil
		}
	}
	return false, nil
}
