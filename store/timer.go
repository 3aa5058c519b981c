package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/preset"
)

// timerRecord is the stored form of the timer state. The remaining time is
// only written while no anchor is set because it is derived otherwise.
type timerRecord struct {
	RemainingSeconds          *int          `json:"remainingSeconds,omitempty"`
	AnchorTimestamp           *int64        `json:"anchorTimestamp"`
	Preset                    preset.Preset `json:"preset"`
	Mode                      engine.Mode   `json:"mode"`
	TotalSeconds              int           `json:"totalSeconds"`
	AccumulatedElapsedSeconds float64       `json:"accumulatedElapsedSeconds"`
	CurrentCycle              int           `json:"currentCycle"`
	MaxCycles                 int           `json:"maxCycles"`
	TransitionSeq             uint64        `json:"transitionSeq"`
	IsRunning                 bool          `json:"isRunning"`
}

func newTimerRecord(s *engine.State) timerRecord {
	rec := timerRecord{
		Preset:                    s.Preset,
		Mode:                      s.Mode,
		TotalSeconds:              s.TotalSeconds,
		AccumulatedElapsedSeconds: s.AccumulatedElapsedSeconds,
		CurrentCycle:              s.CurrentCycle,
		MaxCycles:                 s.MaxCycles,
		TransitionSeq:             s.TransitionSeq,
		IsRunning:                 s.IsRunning,
	}

	if s.Anchor != nil {
		ms := s.Anchor.UnixMilli()
		rec.AnchorTimestamp = &ms
	} else {
		remaining := s.RemainingSeconds
		rec.RemainingSeconds = &remaining
	}

	return rec
}

func (r *timerRecord) state() *engine.State {
	s := &engine.State{
		Preset:                    r.Preset,
		Mode:                      r.Mode,
		TotalSeconds:              r.TotalSeconds,
		AccumulatedElapsedSeconds: r.AccumulatedElapsedSeconds,
		CurrentCycle:              r.CurrentCycle,
		MaxCycles:                 r.MaxCycles,
		TransitionSeq:             r.TransitionSeq,
		IsRunning:                 r.IsRunning,
	}

	if r.AnchorTimestamp != nil {
		anchor := time.UnixMilli(*r.AnchorTimestamp)
		s.Anchor = &anchor
	}

	if r.RemainingSeconds != nil {
		s.RemainingSeconds = *r.RemainingSeconds
	} else {
		s.RemainingSeconds = s.TotalSeconds
	}

	return s
}

// LoadTimer retrieves the stored timer state. It returns nil without an
// error if no state has been saved yet.
func (c *Client) LoadTimer() (*engine.State, error) {
	var data []byte

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(timerBucket)).Get([]byte(timerKey))
		if v != nil {
			data = append([]byte(nil), v...)
		}

		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}

	var rec timerRecord

	err = json.Unmarshal(data, &rec)
	if err != nil {
		return nil, ErrCorruptState.Wrap(err)
	}

	if rec.Mode != engine.Focus && rec.Mode != engine.Break {
		return nil, ErrCorruptState.Wrap(
			fmt.Errorf("unknown mode %q", rec.Mode),
		)
	}

	return rec.state(), nil
}

// SaveTimer overwrites the stored timer state.
func (c *Client) SaveTimer(s *engine.State) error {
	value, err := json.Marshal(newTimerRecord(s))
	if err != nil {
		return errEncodeRecord.Fmt("timer").Wrap(err)
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(timerBucket)).Put([]byte(timerKey), value)
	})
}
