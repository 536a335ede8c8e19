package inspect

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/utils"
)

// maxShown caps the candidate columns of the picker table.
const maxShown = 4

// PickSelectors shows an interactive table of the report: one row per
// role, one column per candidate. Enter on a cell accepts that
// candidate for the row's role, Escape finishes. Returns the accepted
// selectors keyed by role, ready for selectors.Set.Merge.
func PickSelectors(report Report) (map[string]string, error) {
	roles := []selectors.Role{}
	for _, r := range selectors.Roles {
		if len(report[r]) > 0 {
			roles = append(roles, r)
		}
	}
	picked := map[string]string{}

	app := tview.NewApplication()
	table := tview.NewTable().SetBorders(true)
	table.SetCell(0, 0, tview.NewTableCell("role").
		SetTextColor(tcell.ColorBlue).
		SetAlign(tview.AlignCenter))
	for c := 0; c < maxShown; c++ {
		table.SetCell(0, c+1, tview.NewTableCell(fmt.Sprintf("candidate [%d]", c)).
			SetTextColor(tcell.ColorBlue).
			SetAlign(tview.AlignCenter))
	}
	for r, role := range roles {
		table.SetCell(r+1, 0, tview.NewTableCell(string(role)).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignLeft))
		for c, cand := range report[role] {
			if c == maxShown {
				break
			}
			cell := fmt.Sprintf("%s (%d)", utils.ShortenString(cand.Selector, 40), cand.Count)
			table.SetCell(r+1, c+1, tview.NewTableCell(cell).
				SetTextColor(tcell.ColorWhite).
				SetAlign(tview.AlignLeft))
		}
	}

	table.Select(1, 1).SetFixed(1, 1).SetSelectable(true, true)
	table.SetSelectedFunc(func(row, column int) {
		if row == 0 || column == 0 {
			return
		}
		role := roles[row-1]
		cands := report[role]
		if column-1 >= len(cands) {
			return
		}
		// un-mark the whole row, then mark the accepted candidate
		for c := 1; c <= maxShown; c++ {
			if cell := table.GetCell(row, c); cell != nil {
				cell.SetTextColor(tcell.ColorWhite)
			}
		}
		table.GetCell(row, column).SetTextColor(tcell.ColorRed)
		picked[string(role)] = cands[column-1].Selector
	})
	table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			app.Stop()
		}
	})

	button := tview.NewButton("Hit Enter to apply the marked selectors").SetSelectedFunc(func() {
		app.Stop()
	})
	grid := tview.NewGrid().SetRows(-11, -1).SetColumns(-1, -1, -1).SetBorders(false).
		AddItem(table, 0, 0, 1, 3, 0, 0, true).
		AddItem(button, 1, 1, 1, 1, 0, 0, false)
	grid.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab {
			if table.HasFocus() {
				app.SetFocus(button)
			} else {
				app.SetFocus(table)
			}
			return nil
		}
		return event
	})

	if err := app.SetRoot(grid, true).SetFocus(table).Run(); err != nil {
		return nil, err
	}
	return picked, nil
}
