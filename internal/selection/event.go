package selection

import (
	"encoding/json"
	"fmt"

	"github.com/kaleidemoskop/demodash/internal/constants"
)

// Event is a control change or timer tick. The concrete types below are the
// only implementations.
type Event interface {
	Name() string
}

// SelectAxis picks an option on one scenario axis.
type SelectAxis struct {
	Axis constants.Axis
	Code string
}

// SetYear moves the slider. A nil Year is a no-op.
type SetYear struct {
	Year *int
}

// SetBenchmark toggles the benchmark overlay.
type SetBenchmark struct {
	On bool
}

// SetHistory toggles the historical overlay and widens or narrows the slider.
type SetHistory struct {
	On bool
}

// Play starts auto-advance.
type Play struct{}

// Pause stops auto-advance.
type Pause struct{}

// TimerTick is emitted by the player every interval while playing.
type TimerTick struct{}

func (SelectAxis) Name() string   { return "select_axis" }
func (SetYear) Name() string      { return "set_year" }
func (SetBenchmark) Name() string { return "set_benchmark" }
func (SetHistory) Name() string   { return "set_history" }
func (Play) Name() string         { return "play" }
func (Pause) Name() string        { return "pause" }
func (TimerTick) Name() string    { return "tick" }

// wireEvent is the JSON form of an event.
type wireEvent struct {
	Type string `json:"type"`
	Axis string `json:"axis,omitempty"`
	Code string `json:"code,omitempty"`
	Year *int   `json:"year,omitempty"`
	On   *bool  `json:"on,omitempty"`
}

// DecodeEvent parses the JSON form {"type": ..., "axis", "code", "year", "on"}.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return w.event()
}

func (w wireEvent) event() (Event, error) {
	switch w.Type {
	case "select_axis":
		return SelectAxis{Axis: constants.Axis(w.Axis), Code: w.Code}, nil
	case "set_year":
		return SetYear{Year: w.Year}, nil
	case "set_benchmark":
		if w.On == nil {
			return nil, fmt.Errorf("set_benchmark requires \"on\"")
		}
		return SetBenchmark{On: *w.On}, nil
	case "set_history":
		if w.On == nil {
			return nil, fmt.Errorf("set_history requires \"on\"")
		}
		return SetHistory{On: *w.On}, nil
	case "play":
		return Play{}, nil
	case "pause":
		return Pause{}, nil
	case "tick":
		return TimerTick{}, nil
	case "":
		return nil, fmt.Errorf("event type is required")
	}
	return nil, fmt.Errorf("unknown event type %q", w.Type)
}

// EncodeEvent is the inverse of DecodeEvent.
func EncodeEvent(ev Event) ([]byte, error) {
	w := wireEvent{Type: ev.Name()}
	switch e := ev.(type) {
	case SelectAxis:
		w.Axis, w.Code = string(e.Axis), e.Code
	case SetYear:
		w.Year = e.Year
	case SetBenchmark:
		w.On = &e.On
	case SetHistory:
		w.On = &e.On
	}
	return json.Marshal(w)
}
