// Package tui is gofetchctl's interactive Bubble Tea mode: confirm a
// loaded scenario, watch each request run against the live client, then
// show the aggregated summary — the same Init/Update/View phase machine
// the teacher's load-test TUI used, scoped from "rate/duration/stage
// wizard + RPS dashboard" down to "confirm + per-request progress" since
// a scenario run has a fixed, small request list instead of an open-ended
// attack duration.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amr9/gofetch/internal/telemetry"
	"github.com/amr9/gofetch/pkg/config"
	"github.com/amr9/gofetch/pkg/gofetch"
	"github.com/amr9/gofetch/pkg/retry"
)

type State int

const (
	StateConfirm State = iota
	StateRunning
	StateSummary
)

// RequestResult is one row of the running/summary views.
type RequestResult struct {
	Name    string
	Method  string
	Target  string
	Status  int
	Latency time.Duration
	Err     error
	Passed  bool
}

type MainModel struct {
	state    State
	cfg      *config.ScenarioConfig
	client   *gofetch.Client
	quitting bool

	results   chan RequestResult
	drainDone chan struct{}
	done      []RequestResult
	tick      int

	confirmModel *ConfirmModel
	sumModel     *SummaryModel

	summary telemetry.Summary
}

// NewModel builds the TUI's top-level model for a parsed scenario.
func NewModel(cfg *config.ScenarioConfig) MainModel {
	return MainModel{
		state:        StateConfirm,
		cfg:          cfg,
		confirmModel: NewConfirmModel(cfg),
	}
}

func (m MainModel) Init() tea.Cmd {
	return m.confirmModel.Init()
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateConfirm:
		updated, ccmd := m.confirmModel.Update(msg)
		m.confirmModel = updated.(*ConfirmModel)
		if m.confirmModel.Done() {
			if !m.confirmModel.Confirmed() {
				m.quitting = true
				return m, tea.Quit
			}

			client, err := config.BuildClient(m.cfg)
			if err != nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.client = client

			m.state = StateRunning
			m.results = make(chan RequestResult, len(m.cfg.Requests))
			m.drainDone = make(chan struct{})

			return m, tea.Batch(m.runScenario(), m.processResults(), m.tickCmd())
		}
		return m, ccmd

	case StateRunning:
		switch msg := msg.(type) {
		case tickMsg:
			return m, m.tickCmd()
		case resultMsg:
			m.done = append(m.done, RequestResult(msg))
			m.tick++
			return m, m.processResults()
		case finishedMsg:
			m.client.Close()
			m.summary = m.client.Telemetry.Snapshot()
			m.sumModel = NewSummaryModel(m.summary, m.done)
			m.state = StateSummary
			return m, nil
		}
		return m, cmd
	}

	return m, cmd
}

type tickMsg time.Time
type resultMsg RequestResult
type finishedMsg struct{}

func (m MainModel) tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// runScenario executes every configured request in order against m.client,
// pushing one RequestResult per completed request, then closes m.results
// and waits on drainDone, which processResults closes once it has
// consumed them all.
func (m MainModel) runScenario() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		for _, reqCfg := range m.cfg.Requests {
			req, av, err := config.BuildRequest(reqCfg)
			name := reqCfg.Name
			if name == "" && req != nil {
				name = req.Method + " " + reqCfg.Path
			}
			if err != nil {
				m.results <- RequestResult{Name: name, Err: err}
				continue
			}

			start := time.Now()
			resp := req.Fetch(ctx, m.client)
			latency := time.Since(start)

			r := RequestResult{
				Name:    name,
				Method:  req.Method,
				Target:  target(req),
				Status:  resp.StatusCode(),
				Latency: latency,
				Err:     resp.Err,
			}
			if resp.Err == nil {
				r.Passed = resp.StatusCode() < 400 && assertionsPassed(resp, av)
			}
			m.results <- r
		}
		close(m.results)
		<-m.drainDone
		return nil
	}
}

// processResults waits for exactly one queued result (or channel close) and
// returns a tea.Msg for it; Update re-invokes this after each resultMsg so
// the UI only ever has one outstanding read at a time.
func (m MainModel) processResults() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.results
		if !ok {
			close(m.drainDone)
			return finishedMsg{}
		}
		return resultMsg(r)
	}
}

func assertionsPassed(resp *gofetch.Response, av *retry.AssertionValidator) bool {
	if av == nil {
		return true
	}
	return av.Validate(resp, nil).Passed()
}

func target(req *gofetch.Request) string {
	if req.RawURL != "" {
		return req.RawURL
	}
	return req.Path
}

func (m MainModel) View() string {
	if m.quitting {
		return "Exiting...\n"
	}

	switch m.state {
	case StateConfirm:
		return m.confirmModel.View()
	case StateRunning:
		return renderRunning(m.cfg, m.done, m.tick)
	case StateSummary:
		return m.sumModel.View()
	default:
		return "unknown state"
	}
}

// Summary exposes the final telemetry snapshot once the run completes,
// for cmd/gofetchctl to write alongside the interactive view.
func (m MainModel) Summary() telemetry.Summary {
	return m.summary
}
