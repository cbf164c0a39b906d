package windows

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simviz/chartspec"
	"simviz/export"
	"simviz/table"
)

// MainWindow is the application shell: toolbar, doc tabs for loaded
// files, and a status bar. Each window owns its own table cache, so
// sessions never share loaded data.
type MainWindow struct {
	a           fyne.App
	w           fyne.Window
	top, bottom fyne.CanvasObject
	statusBar   *widget.Label
	docTabs     *container.DocTabs

	cache     *table.Cache
	mark      chartspec.Mark
	openFiles map[string]*loadedFile
	tabFiles  map[*container.TabItem]*loadedFile
}

func CreateMainWindow() *MainWindow {
	var v MainWindow
	v.NewMainWindow()
	return &v
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// OpenDataFile shows the file picker and loads the chosen file.
func (t *MainWindow) OpenDataFile() {
	startDir := t.a.Preferences().String("lastDir")
	fd := NewDataFileDialog(t.w, startDir, func(path string, err error) {
		if err != nil {
			t.SetStatus("Error opening file")
			dialog.ShowError(err, t.w)
			return
		}
		if path == "" {
			return
		}
		t.a.Preferences().SetString("lastDir", filepath.Dir(path))
		t.handleDataFileLoad(path)
	})
	fd.Show()
}

// currentFile returns the loaded file behind the selected doc tab.
func (t *MainWindow) currentFile() *loadedFile {
	if t.docTabs == nil {
		return nil
	}
	return t.tabFiles[t.docTabs.Selected()]
}

// ExportCurrent saves the selected tab's table in the chosen format,
// derived from the target file's extension.
func (t *MainWindow) ExportCurrent() {
	lf := t.currentFile()
	if lf == nil {
		dialog.ShowInformation("Nothing to Export", "Load a file first", t.w)
		return
	}

	fs := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		switch strings.ToLower(filepath.Ext(path)) {
		case ".parquet":
			err = export.ToParquet(lf.table, path)
		case ".json":
			err = export.ToJSON(lf.table, path)
		default:
			err = export.ToCSV(lf.table, path)
		}
		if err != nil {
			t.SetStatus("Export failed: " + err.Error())
			dialog.ShowError(err, t.w)
			return
		}
		t.SetStatus("Exported to " + path)
	}, t.w)
	fs.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".json", ".parquet"}))
	fs.SetFileName(strings.TrimSuffix(lf.table.Name(), filepath.Ext(lf.table.Name())) + ".parquet")
	fs.Show()
}

func (t *MainWindow) NewMainWindow() {
	t.a = app.NewWithID("simviz")
	t.a.Settings().SetTheme(&CustomTheme{})
	t.cache = table.NewCache()
	t.openFiles = make(map[string]*loadedFile)
	t.tabFiles = make(map[*container.TabItem]*loadedFile)

	if t.a.Preferences().StringWithFallback("chartType", "line") == "scatter" {
		t.mark = chartspec.MarkScatter
	}

	// Create status bar
	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.bottom = container.NewHBox(t.statusBar)

	t.w = t.a.NewWindow("Simulation Output Viewer")
	t.w.Resize(fyne.NewSize(1100, 700))

	welcome := widget.NewRichTextFromMarkdown("## Simulation Output Viewer\n\nOpen a simulation output file to chart its columns and inspect summary statistics.")
	tabs := container.NewDocTabs(container.NewTabItem("Welcome", widget.NewCard("", "", welcome)))
	tabs.CloseIntercept = func(ti *container.TabItem) {
		if lf, ok := t.tabFiles[ti]; ok {
			delete(t.tabFiles, ti)
			delete(t.openFiles, lf.path)
			t.cache.Invalidate(lf.path)
		}
		tabs.Remove(ti)
	}
	t.docTabs = tabs

	chartTypeSelect := widget.NewSelect([]string{"Line", "Scatter"}, func(v string) {
		mark := chartspec.MarkLine
		pref := "line"
		if v == "Scatter" {
			mark = chartspec.MarkScatter
			pref = "scatter"
		}
		t.a.Preferences().SetString("chartType", pref)
		t.setMark(mark)
	})
	if t.mark == chartspec.MarkScatter {
		chartTypeSelect.Selected = "Scatter"
	} else {
		chartTypeSelect.Selected = "Line"
	}

	toolbar := widget.NewToolbar()
	toolbar.Append(widget.NewToolbarAction(theme.FolderOpenIcon(), func() {
		t.OpenDataFile()
	}))
	toolbar.Append(widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
		t.ExportCurrent()
	}))
	toolbar.Append(widget.NewToolbarSeparator())
	toolbar.Append(widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
		t.ReloadCurrent()
	}))
	toolbar.Append(widget.NewToolbarSpacer())

	chartTypeLabel := widget.NewLabel("Chart type:")
	t.top = container.NewBorder(nil, nil, toolbar, container.NewHBox(chartTypeLabel, chartTypeSelect))

	c := container.NewBorder(t.top, t.bottom, nil, nil, widget.NewCard("", "", tabs))
	t.w.SetContent(c)
	t.w.ShowAndRun()
}

// ReloadCurrent re-reads the selected tab's file from disk. The cache
// notices modification-time changes by itself; the explicit reload also
// covers editors that rewrite files with an unchanged mtime.
func (t *MainWindow) ReloadCurrent() {
	lf := t.currentFile()
	if lf == nil {
		return
	}
	t.cache.Invalidate(lf.path)
	if err := t.LoadDataFile(lf.path); err != nil {
		t.SetStatus(fmt.Sprintf("Reload failed: %v", err))
		dialog.ShowError(err, t.w)
	}
}
