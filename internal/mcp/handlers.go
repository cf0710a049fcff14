package mcp

import (
	"context"
	"math"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kaleidemoskop/demodash/internal/ratelimit"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/kaleidemoskop/demodash/internal/slider"
	"github.com/kaleidemoskop/demodash/internal/statstable"
	"github.com/kaleidemoskop/demodash/internal/view"
)

// registerTools registers all demodash MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "dashboard_view",
		Description: "Derive the full dashboard view for a scenario (" + scenarioAxes + "), year and overlay flags: slider, pyramid series summary and statistics table",
	}, s.handleDashboardView)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "slider_range",
		Description: "Resolve the year slider domain, decade marks and clamped or auto-advanced year",
	}, s.handleSliderRange)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "pyramid_series",
		Description: "Return the population pyramid bar series and axis layout for a selection",
	}, s.handlePyramidSeries)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "stats_table",
		Description: "Return the aggregated age-group statistics table for a selection, simulation and DESTATIS columns",
	}, s.handleStatsTable)
}

// resolve turns tool input into a state and its derived snapshot.
func (s *Server) resolve(in SelectionInput) (view.Snapshot, error) {
	st := selection.Default(s.tables.SimulationStartYear())
	if in.Scenario != "" {
		sc, err := selection.ParseScenario(in.Scenario)
		if err != nil {
			return view.Snapshot{}, err
		}
		st.Scenario = sc
	}
	if in.Year != 0 {
		st.Year = in.Year
	}
	st.BenchmarkOn = in.Benchmark
	st.HistoryOn = in.History
	return view.Derive(s.tables, st), nil
}

func summarize(snap view.Snapshot) SelectionSummary {
	return SelectionSummary{
		Scenario:  snap.State.Scenario.Code(),
		Year:      snap.State.Year,
		Benchmark: snap.State.BenchmarkOn,
		History:   snap.State.HistoryOn,
		Caption:   snap.Caption,
	}
}

func (s *Server) handleDashboardView(ctx context.Context, req *sdk.CallToolRequest, args SelectionInput) (_ *sdk.CallToolResult, _ DashboardViewOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("dashboard_view", start, retErr, selectionEntry(args)) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "dashboard_view"); err != nil {
		return nil, DashboardViewOutput{}, err
	}

	snap, err := s.resolve(args)
	if err != nil {
		return nil, DashboardViewOutput{}, err
	}

	out := DashboardViewOutput{
		Selection: summarize(snap),
		Slider:    snap.Slider,
		Table:     snap.Table,
		TableText: statstable.RenderTerminal(snap.Table),
	}
	for _, series := range snap.Pyramid.Series {
		total := 0.0
		for _, v := range series.Values {
			total += math.Abs(v)
		}
		out.Series = append(out.Series, SeriesSummary{
			Layer:   string(series.Layer),
			Gender:  string(series.Gender),
			Label:   series.LegendLabel,
			Color:   series.Color,
			Opacity: series.Opacity,
			Bars:    len(series.Ages),
			Total:   total,
			Legend:  series.ShowInLegend,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSliderRange(ctx context.Context, req *sdk.CallToolRequest, args SliderRangeInput) (_ *sdk.CallToolResult, _ SliderRangeOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("slider_range", start, retErr, AuditEntry{
			Year:    args.Year,
			History: args.History,
			Tick:    args.Tick,
		})
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "slider_range"); err != nil {
		return nil, SliderRangeOutput{}, err
	}

	startYear := s.tables.SimulationStartYear()
	r := slider.Resolve(slider.Input{
		HistoryOn: args.History,
		Year:      args.Year,
		HasYear:   args.Year != 0,
		Tick:      args.Tick,
		StartYear: startYear,
	})
	return nil, SliderRangeOutput{Range: r, Caption: view.Caption(r.Year, true, startYear)}, nil
}

func (s *Server) handlePyramidSeries(ctx context.Context, req *sdk.CallToolRequest, args SelectionInput) (_ *sdk.CallToolResult, _ PyramidSeriesOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("pyramid_series", start, retErr, selectionEntry(args)) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "pyramid_series"); err != nil {
		return nil, PyramidSeriesOutput{}, err
	}

	snap, err := s.resolve(args)
	if err != nil {
		return nil, PyramidSeriesOutput{}, err
	}
	return nil, PyramidSeriesOutput{Selection: summarize(snap), Chart: snap.Pyramid}, nil
}

func (s *Server) handleStatsTable(ctx context.Context, req *sdk.CallToolRequest, args SelectionInput) (_ *sdk.CallToolResult, _ StatsTableOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("stats_table", start, retErr, selectionEntry(args)) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "stats_table"); err != nil {
		return nil, StatsTableOutput{}, err
	}

	snap, err := s.resolve(args)
	if err != nil {
		return nil, StatsTableOutput{}, err
	}
	return nil, StatsTableOutput{
		Selection: summarize(snap),
		Table:     snap.Table,
		Text:      statstable.RenderTerminal(snap.Table),
	}, nil
}
