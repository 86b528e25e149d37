package view

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"equipviz/internal/chart"
	"equipviz/internal/controller"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	chartWidth = 40
	timeLayout = "2006-01-02 15:04:05"
)

// document то, что отдаётся в json и yaml: снимок состояния плюс диаграмма.
type document struct {
	controller.State `yaml:",inline"`
	Chart            *chart.Bars `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// Renderer выводит снимок состояния в выбранном формате.
type Renderer struct {
	format string
	loc    *time.Location
}

func New(format string) (*Renderer, error) {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Renderer{format: format, loc: time.Local}, nil
}

func (r *Renderer) Render(w io.Writer, s controller.State) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(newDocument(s))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(s)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return r.renderText(w, s)
	}
}

func newDocument(s controller.State) document {
	doc := document{State: s}
	if bars, ok := s.Chart(); ok {
		doc.Chart = &bars
	}
	return doc
}

func (r *Renderer) renderText(w io.Writer, s controller.State) error {
	ew := &errWriter{w: w}

	ew.printf("Chemical Equipment Parameter Visualizer\n")

	if s.ErrorMessage != "" {
		ew.printf("\nError: %s\n", s.ErrorMessage)
	}

	if s.Summary != nil {
		ew.printf("\nSummary\n")
		ew.printf("  Total Equipment: %d\n", s.Summary.TotalEquipment)
		ew.printf("  Avg Flowrate: %v\n", s.Summary.AvgFlowrate)
		ew.printf("  Avg Pressure: %v\n", s.Summary.AvgPressure)
		ew.printf("  Avg Temperature: %v\n", s.Summary.AvgTemperature)

		if bars, ok := s.Chart(); ok {
			ew.printf("\nEquipment Type Distribution\n")
			if ew.err == nil {
				ew.err = bars.Render(w, chartWidth)
			}
		}
	}

	ew.printf("\nUpload History (Last 5)\n")
	if ew.err != nil {
		return ew.err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Uploaded At\tTotal Equipment\tAvg Flowrate\tAvg Pressure\tAvg Temperature")
	for _, h := range s.History {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\n",
			h.UploadedAt.In(r.loc).Format(timeLayout),
			h.TotalEquipment, h.AvgFlowrate, h.AvgPressure, h.AvgTemperature)
	}
	return tw.Flush()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
