// pkg/core/frame.go
package core

import "time"

// Pointable is a finger or tool tip reported inside a hand record.
type Pointable struct {
	ID    int    `json:"id"`
	Tip   Vector `json:"tip"`
	Valid bool   `json:"valid"`
}

// Hand is one tracked hand in a sensor frame.
type Hand struct {
	ID              int         `json:"id"`
	Confidence      float64     `json:"confidence"`
	ExtendedFingers int         `json:"extendedFingers"`
	Palm            Vector      `json:"palm"`
	Pointables      []Pointable `json:"pointables"`
}

// Frame is the per-frame snapshot delivered by the sensor.
type Frame struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Hands     []Hand    `json:"hands"`
}
