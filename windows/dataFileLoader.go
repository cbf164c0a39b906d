// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"simviz/chartspec"
	"simviz/table"
)

// loadedFile ties a doc tab to its table and chart panel.
type loadedFile struct {
	path      string
	table     *table.Table
	chartView *ChartView
	tab       *container.TabItem
}

// LoadDataFile loads a delimited file through the session cache and
// displays it in a new doc tab with a Data view and a Chart view.
// Re-selecting an already-open file refreshes its tab in place.
func (t *MainWindow) LoadDataFile(path string) error {
	t.SetStatus("Loading file: " + filepath.Base(path))

	tbl, err := t.cache.Get(path)
	if err != nil {
		return err
	}

	cv := NewChartView(t.w, tbl, t.mark)

	dataTab := container.NewTabItem("Data", newDataTable(tbl))
	chartTab := container.NewTabItem("Chart", cv.Container())
	inner := container.NewAppTabs(chartTab, dataTab)

	tabName := filepath.Base(path)
	card := widget.NewCard("", tabName, inner)

	if existing, ok := t.openFiles[path]; ok {
		existing.table = tbl
		existing.chartView = cv
		existing.tab.Content = card
		t.docTabs.Refresh()
		t.docTabs.Select(existing.tab)
	} else {
		tabItem := container.NewTabItem(tabName, card)
		lf := &loadedFile{
			path:      path,
			table:     tbl,
			chartView: cv,
			tab:       tabItem,
		}
		t.openFiles[path] = lf
		t.tabFiles[tabItem] = lf
		t.docTabs.Append(tabItem)
		t.docTabs.Select(tabItem)
	}

	t.SetStatus(fmt.Sprintf("Loaded %s (%d rows, %d columns)", tabName, tbl.NumRows(), tbl.NumCols()))
	return nil
}

// newDataTable renders the raw table cells with a bold header row.
func newDataTable(tbl *table.Table) fyne.CanvasObject {
	cols := tbl.Columns()

	dt := widget.NewTable(
		func() (int, int) {
			return tbl.NumRows() + 1, tbl.NumCols()
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				col, err := tbl.ColumnIndex(id.Col)
				if err != nil {
					lbl.SetText("")
					return
				}
				lbl.SetText(fmt.Sprintf("%s (%s)", col.Name(), col.Kind()))
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			cell, err := tbl.Cell(id.Row-1, id.Col)
			if err != nil {
				lbl.SetText("")
				return
			}
			lbl.SetText(cell)
		},
	)

	for i := range cols {
		dt.SetColumnWidth(i, 140)
	}

	return dt
}

// handleDataFileLoad loads a file and reports failures without killing
// the window.
func (t *MainWindow) handleDataFileLoad(path string) {
	if err := t.LoadDataFile(path); err != nil {
		errMsg := err.Error()
		t.a.SendNotification(&fyne.Notification{
			Title:   "Error Loading File",
			Content: errMsg,
		})
		t.SetStatus("Error loading file: " + errMsg)
	}
}

// setMark propagates a chart-type change to every open file.
func (t *MainWindow) setMark(mark chartspec.Mark) {
	t.mark = mark
	for _, lf := range t.openFiles {
		lf.chartView.SetMark(mark)
	}
}
