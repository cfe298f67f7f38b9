package engine_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/reposcan/reposcan/engine"
)

func TestReportStringIncludesRunIDAndCounts(t *testing.T) {
	report := engine.Report{RunID: uuid.New()}
	report.RepositorySize.Commits.Count = 3
	report.RepositorySize.Trees.Count = 2
	report.RepositorySize.Blobs.Count = 1
	report.HistoryStructure.MaxDepth = 4

	out := report.String()

	assert.True(t, strings.Contains(out, report.RunID.String()))
	assert.True(t, strings.Contains(out, "commits: 3"))
	assert.True(t, strings.Contains(out, "max history depth: 4"))
}
