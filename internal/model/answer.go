package model

import "time"

// Answer is the composed response to one question plus the context it was given.
type Answer struct {
	Question string           `json:"question"`
	Text     string           `json:"answer"`
	Context  []RetrievedChunk `json:"context"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
}

// ElapsedSeconds is the compose duration in seconds, as displayed on the page.
func (a *Answer) ElapsedSeconds() float64 {
	return a.Elapsed.Seconds()
}
