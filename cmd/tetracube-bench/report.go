package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/tetracube/game"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Sessions   int
	Field      string
	ActionRate float64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GamesOver      int
	RowsCleared    int
	TotalScore     int
	BestScore      int
	Systems        []SystemRow
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// SystemRow is one system's timing summed over every session.
type SystemRow struct {
	Name       string
	Executions int64
	Avg        time.Duration
	Max        time.Duration
	Total      time.Duration
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// mergeSystemStats sums scheduler stats by system name, keeping the
// registration order of the first session.
func mergeSystemStats(sessions []*game.Session) []SystemRow {
	var rows []SystemRow
	index := make(map[string]int)

	for _, session := range sessions {
		for _, sys := range session.Scheduler().GetStats().Systems {
			i, ok := index[sys.Name]
			if !ok {
				i = len(rows)
				index[sys.Name] = i
				rows = append(rows, SystemRow{Name: sys.Name})
			}
			row := &rows[i]
			row.Executions += sys.ExecutionCount
			row.Total += sys.TotalDuration
			row.Max = max(row.Max, sys.MaxDuration)
		}
	}

	for i := range rows {
		if rows[i].Executions > 0 {
			rows[i].Avg = rows[i].Total / time.Duration(rows[i].Executions)
		}
	}
	return rows
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Tetracube Bench Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Sessions:** {{.Sessions}}
- **Field:** {{.Field}}
- **Action Rate:** {{printf "%.2f" .ActionRate}}

## Games
- **Games Over:** {{.GamesOver}}
- **Rows Cleared:** {{.RowsCleared}}
- **Total Score:** {{.TotalScore}}
- **Best Score:** {{.BestScore}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (all sessions):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
| System | Executions | Avg | Max | Total |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.Executions}} | {{.Avg}} | {{.Max}} | {{.Total}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Heap In Use:** {{.MemStatsEnd.HeapInuse | mb}} MiB
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
