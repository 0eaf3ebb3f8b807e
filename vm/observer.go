package vm

import (
	"github.com/deepnoodle-ai/xsltc/op"
)

// StepMode selects which instructions are reported to OnStep.
type StepMode uint8

const (
	StepAll StepMode = iota
	StepNone
	// StepSampled reports one instruction in every SampleInterval.
	StepSampled
)

// ObserverConfig is read once at the start of each Call.
type ObserverConfig struct {
	StepMode       StepMode
	SampleInterval int
	ObserveCalls   bool
}

// NewObserverConfig returns a config that observes calls and samples every
// 1000 instructions when mode is StepSampled.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{StepMode: mode, SampleInterval: 1000, ObserveCalls: true}
}

// NormalizeConfig clamps a non-positive sample interval to 1.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer traces execution of generated code. Callbacks run synchronously
// and halt the machine with ErrHalted by returning false.
type Observer interface {
	Config() ObserverConfig
	OnStep(event StepEvent) bool
	OnCall(event CallEvent) bool
}

// StepEvent describes the instruction about to execute. StackDepth is in
// stack units.
type StepEvent struct {
	Method     string
	IP         int
	Opcode     op.Code
	StackDepth int
	FrameDepth int
}

// CallEvent describes an invocation. ArgCount includes the receiver.
type CallEvent struct {
	Member     string
	Native     bool
	ArgCount   int
	FrameDepth int
}

// NoOpObserver accepts every event. Embed it to implement only some of the
// callbacks.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig { return NewObserverConfig(StepAll) }
func (NoOpObserver) OnStep(StepEvent) bool  { return true }
func (NoOpObserver) OnCall(CallEvent) bool  { return true }

var _ Observer = NoOpObserver{}
