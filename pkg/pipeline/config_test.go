package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, ValidateConfig())
}

func TestModelDataArtefactName(t *testing.T) {
	// downstream commands and external consumers key on this filename
	assert.Equal(t, "model_data.csv", ModelDataFile)
	assert.Equal(t,
		filepath.Join(Config.DataProcessedPath, "model_data.csv"),
		ProcessedFile(ModelDataFile))
}
