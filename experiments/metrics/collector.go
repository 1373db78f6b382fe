package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Agent        string
	Goroutines   int
	Duration     time.Duration
	Depth        int // Deepest completed search depth, 0 for non-tree agents
	Nodes        int
	Rollouts     int
	FullPlayouts int // Rollouts that reached a terminal board before the horizon
}

type MoveMetric struct {
	Step       int
	Move       string
	ScoreDelta int
	Score      float64 // Branch score of the chosen move
	SearchMetric
}

type GameMetric struct {
	Seed      uint64
	Score     int
	Moves     int
	MaxTile   int
	Won       bool
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(agent string, goroutines int)
	SetDepth(depth int)
	AddNodes(n int)
	AddRollout()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	agent        string
	goroutines   int
	startTime    time.Time
	depth        atomic.Int32
	nodes        atomic.Int64
	rollouts     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(agent string, goroutines int) {
	m.startTime = time.Now()
	m.agent = agent
	m.goroutines = goroutines
	m.depth.Store(0)
	m.nodes.Store(0)
	m.rollouts.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Agent:        m.agent,
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Depth:        int(m.depth.Load()),
		Nodes:        int(m.nodes.Load()),
		Rollouts:     int(m.rollouts.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(agent string, goroutines int) {}
func (m *dummyCollector) SetDepth(depth int)                 {}
func (m *dummyCollector) AddNodes(n int)                     {}
func (m *dummyCollector) AddRollout()                        {}
func (m *dummyCollector) AddFullPlayout()                    {}
func (m *dummyCollector) Complete() SearchMetric             { return SearchMetric{} }
