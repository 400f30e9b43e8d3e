package app

import (
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"hedgerisk/internal/report"
)

// exporter writes tables and charts below the configured export directory.
type exporter struct {
	dir    string
	csv    bool
	png    bool
	logger zerolog.Logger
}

func (a *App) exporter() exporter {
	return exporter{
		dir:    a.Config.Export.Dir,
		csv:    a.Config.Export.CSV,
		png:    a.Config.Export.PNG,
		logger: a.Logger,
	}
}

func (e exporter) table(name string, t report.Table) error {
	if !e.csv {
		return nil
	}
	path := filepath.Join(e.dir, name+".csv")
	if err := report.WriteCSV(path, t); err != nil {
		return err
	}
	e.logger.Info().Str("path", path).Int("rows", len(t.Records())).Msg("csv exported")
	return nil
}

func (e exporter) chart(name string, render func(io.Writer) error) error {
	if !e.png {
		return nil
	}
	path := filepath.Join(e.dir, name+".png")
	if err := report.RenderFile(path, render); err != nil {
		return err
	}
	e.logger.Info().Str("path", path).Msg("chart exported")
	return nil
}

func (a *App) printTable(title string, t report.Table) error {
	if title != "" {
		if _, err := io.WriteString(a.Out, "\n"+title+"\n"); err != nil {
			return err
		}
	}
	return report.Print(a.Out, t)
}
