package config

import "time"

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// PushTimeout bounds a single enqueue attempt.
func (t Timing) PushTimeout() time.Duration { return millis(t.PushTimeoutMS) }

// PopTimeout bounds a single dequeue attempt.
func (t Timing) PopTimeout() time.Duration { return millis(t.PopTimeoutMS) }

// BackpressurePause is the first pause after a full queue.
func (t Timing) BackpressurePause() time.Duration { return millis(t.BackpressurePauseMS) }

// BackpressureMaxPause caps the doubling pause.
func (t Timing) BackpressureMaxPause() time.Duration { return millis(t.BackpressureMaxPauseMS) }

// ArrivalMin and ArrivalMax bound the gap between a customer's orders.
func (t Timing) ArrivalMin() time.Duration { return millis(t.ArrivalMinMS) }

func (t Timing) ArrivalMax() time.Duration { return millis(t.ArrivalMaxMS) }
