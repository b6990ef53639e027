package models

import (
	"context"
	"time"
)

type Querier interface {
	Query(ctx context.Context) error
}

// AnswerService is the contract towards the external answer-generation service.
// Ask receives a trimmed, non-empty query and blocks until the service has
// either answered or failed.
type AnswerService interface {
	Ask(ctx context.Context, query string) (string, error)
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// QueryRecord is one completed submission. It is passed by value and never
// modified after creation.
type QueryRecord struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

func (r QueryRecord) IsError() bool {
	return r.Status == StatusError
}
