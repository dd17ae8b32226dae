package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeFrame is a dashboard preset for "the last N days"
type TimeFrame struct {
	Key   string
	Label string
	Days  int
}

// TimeFrames are the presets offered by the dashboard, shortest first
var TimeFrames = []TimeFrame{
	{Key: "3d", Label: "Last 3 Days", Days: 3},
	{Key: "7d", Label: "Last 7 Days", Days: 7},
	{Key: "30d", Label: "Last 30 Days", Days: 30},
}

// DefaultTimeFrame is used when the caller does not pick one
var DefaultTimeFrame = TimeFrames[0]

// DefaultTimeFrames is the set built from TimeFrames
var DefaultTimeFrames = &TimeFrameSet{frames: TimeFrames}

// ParseTimeFrame resolves a preset by key ("7d") or by day count ("7").
// An empty string selects DefaultTimeFrame.
func ParseTimeFrame(s string) (TimeFrame, error) {
	return DefaultTimeFrames.Parse(s)
}

// Window returns the time window this frame covers, ending at now
func (tf TimeFrame) Window(now time.Time) TimeWindow {
	return WindowFromDays(now, tf.Days)
}

// TimeFrameSet is an ordered list of presets. The first one is the default.
type TimeFrameSet struct {
	frames []TimeFrame
}

// NewTimeFrameSet validates frames and builds a set from them. Keys are
// lowercased; an empty label becomes "Last N Days".
func NewTimeFrameSet(frames []TimeFrame) (*TimeFrameSet, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: at least one time frame is required", ErrInvalidTimeFrame)
	}

	keys := make(map[string]bool, len(frames))
	days := make(map[int]bool, len(frames))
	out := make([]TimeFrame, len(frames))

	for i, tf := range frames {
		tf.Key = strings.ToLower(strings.TrimSpace(tf.Key))
		if tf.Key == "" {
			return nil, fmt.Errorf("%w: time frame %d has no key", ErrInvalidTimeFrame, i)
		}
		if tf.Days <= 0 {
			return nil, fmt.Errorf("%w: %q must span at least one day", ErrInvalidTimeFrame, tf.Key)
		}
		if keys[tf.Key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidTimeFrame, tf.Key)
		}
		if days[tf.Days] {
			return nil, fmt.Errorf("%w: duplicate span of %d days", ErrInvalidTimeFrame, tf.Days)
		}
		if tf.Label == "" {
			tf.Label = fmt.Sprintf("Last %d Days", tf.Days)
		}
		keys[tf.Key] = true
		days[tf.Days] = true
		out[i] = tf
	}

	return &TimeFrameSet{frames: out}, nil
}

// Frames returns the presets in their configured order
func (s *TimeFrameSet) Frames() []TimeFrame {
	out := make([]TimeFrame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Default returns the preset used when none is requested
func (s *TimeFrameSet) Default() TimeFrame {
	return s.frames[0]
}

// Parse resolves a preset by key or by day count. An empty string selects
// the default.
func (s *TimeFrameSet) Parse(str string) (TimeFrame, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	if str == "" {
		return s.Default(), nil
	}

	days, convErr := strconv.Atoi(str)
	for _, tf := range s.frames {
		if tf.Key == str || (convErr == nil && tf.Days == days) {
			return tf, nil
		}
	}

	return TimeFrame{}, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, str)
}
