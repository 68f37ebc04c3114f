package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageOrder(t *testing.T) {
	stages := []LoadStage{
		StageInitializing,
		StageLoadingResources,
		StageWaitingForLoad,
		StageFinalizing,
		StageDone,
	}
	for i, stage := range stages {
		assert.Equal(t, i, stage.Order())
	}
}

func TestStageOrderUnknown(t *testing.T) {
	assert.Equal(t, -1, LoadStage("warming-up").Order())
}

func TestStageTerminal(t *testing.T) {
	assert.True(t, StageDone.Terminal())
	assert.False(t, StageInitializing.Terminal())
	assert.False(t, StageFinalizing.Terminal())
}
