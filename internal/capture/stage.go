// Package capture defines the data model shared by the capture pipeline:
// extraction stages, progress events, extracted documents and the persisted
// page metadata.
package capture

// LoadStage is a named point in the extraction pipeline. Stages are ordered;
// a single capture session reports them in non-decreasing order and ends on
// a terminal stage.
type LoadStage string

const (
	StageInitializing     LoadStage = "initializing"
	StageLoadingResources LoadStage = "loading-resources"
	StageWaitingForLoad   LoadStage = "waiting-for-load"
	StageFinalizing       LoadStage = "finalizing"
	StageDone             LoadStage = "done"
)

var stageOrder = map[LoadStage]int{
	StageInitializing:     0,
	StageLoadingResources: 1,
	StageWaitingForLoad:   2,
	StageFinalizing:       3,
	StageDone:             4,
}

// Order returns the position of the stage in the pipeline, or -1 for an
// unknown stage.
func (s LoadStage) Order() int {
	if n, ok := stageOrder[s]; ok {
		return n
	}
	return -1
}

// Terminal reports whether the stage ends the extraction pipeline.
func (s LoadStage) Terminal() bool {
	return s == StageDone
}

// ProgressEvent reports a capture session reaching a stage.
type ProgressEvent struct {
	Stage LoadStage `json:"stage"`
}
