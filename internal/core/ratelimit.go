package core

import "time"

// LimiterClass configures one quota pool: at most Capacity admissions within
// any trailing Window.
type LimiterClass struct {
	Capacity int           `json:"capacity"`
	Window   time.Duration `json:"window"`
}

// ClassUsage is a point-in-time snapshot of one quota pool.
type ClassUsage struct {
	Class    string        `json:"class"`
	Capacity int           `json:"capacity"`
	Window   time.Duration `json:"window"`
	InFlight int           `json:"in_window"`
}
