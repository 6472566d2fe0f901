package domain

import "time"

// RunKind names a pipeline operation.
type RunKind string

const (
	RunKindBuild    RunKind = "build"
	RunKindDump     RunKind = "dump"
	RunKindGenerate RunKind = "generate"
)

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// PipelineRun is one recorded build, dump or generate execution.
type PipelineRun struct {
	ID              string     `json:"id"`
	Kind            RunKind    `json:"kind"`
	Trigger         string     `json:"trigger"` // cli, schedule, file_watch, mcp
	Status          RunStatus  `json:"status"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	RecordsRead     int        `json:"recordsRead"`
	RecordsWritten  int        `json:"recordsWritten"`
	RecordsRejected int        `json:"recordsRejected"`
	FilesWritten    int        `json:"filesWritten"`
	Error           string     `json:"error,omitempty"`
}
