// filepath: internal/repository/query_repo_test.go
package repository

import (
	"context"
	"testing"
	"trialdb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOf(id, subject string, tfs int64) models.Sample {
	return models.Sample{ID: id, SubjectID: subject, SampleType: "PBMC", TimeFromTreatmentStart: tfs}
}

var cohort = models.CohortFilter{Condition: "melanoma", Treatment: "miraclib", SampleType: "PBMC"}

func TestGetCellCounts(t *testing.T) {
	repo := setupTestDB(t)
	insertFixtures(t, repo, []fixture{
		{subject: melanomaSubject("S2", "no", "M", "prj1"), sample: sampleOf("SMP2", "S2", 0), counts: [5]int64{10, 10, 10, 10, 60}},
		{subject: melanomaSubject("S1", "yes", "F", "prj1"), sample: sampleOf("SMP1", "S1", 0), counts: [5]int64{50, 20, 20, 5, 5}},
	})

	rows, err := repo.GetCellCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 10)

	// Ordered by sample then population name
	expectedOrder := []models.Population{models.BCell, models.CD4TCell, models.CD8TCell, models.Monocyte, models.NKCell}
	for i, r := range rows[:5] {
		assert.Equal(t, "SMP1", r.Sample)
		assert.Equal(t, int64(100), r.TotalCount)
		assert.Equal(t, expectedOrder[i], r.Population)
	}
	assert.Equal(t, int64(50), rows[0].Count)
	assert.Equal(t, "SMP2", rows[5].Sample)
}

func TestGetCohortCellCounts(t *testing.T) {
	repo := setupTestDB(t)

	other := melanomaSubject("S3", "yes", "F", "prj2")
	other.Treatment = "phauximab"
	insertFixtures(t, repo, []fixture{
		{subject: melanomaSubject("S1", "yes", "F", "prj1"), sample: sampleOf("SMP1", "S1", 7), counts: [5]int64{1, 1, 1, 1, 1}},
		{subject: melanomaSubject("S2", "", "M", "prj1"), sample: sampleOf("SMP2", "S2", 0), counts: [5]int64{1, 1, 1, 1, 1}},
		{subject: other, sample: sampleOf("SMP3", "S3", 0), counts: [5]int64{1, 1, 1, 1, 1}},
	})

	rows, err := repo.GetCohortCellCounts(context.Background(), cohort)
	require.NoError(t, err)
	require.Len(t, rows, 10, "the phauximab sample must be filtered out")

	assert.Equal(t, "SMP1", rows[0].Sample)
	assert.Equal(t, "S1", rows[0].Subject)
	require.NotNil(t, rows[0].Response)
	assert.Equal(t, "yes", *rows[0].Response)
	assert.Equal(t, int64(7), rows[0].TimeFromTreatmentStart)
	assert.Equal(t, int64(5), rows[0].TotalCount)

	assert.Equal(t, "SMP2", rows[5].Sample)
	assert.Nil(t, rows[5].Response, "missing response must stay NULL")
}

func TestCountBaselineBy(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	insertFixtures(t, repo, []fixture{
		// S1 contributes two baseline samples
		{subject: melanomaSubject("S1", "yes", "F", "prj2"), sample: sampleOf("SMP1", "S1", 0), counts: [5]int64{1, 1, 1, 1, 1}},
		{subject: melanomaSubject("S1", "yes", "F", "prj2"), sample: sampleOf("SMP1b", "S1", 0), counts: [5]int64{1, 1, 1, 1, 1}},
		{subject: melanomaSubject("S2", "no", "M", "prj1"), sample: sampleOf("SMP2", "S2", 0), counts: [5]int64{1, 1, 1, 1, 1}},
		{subject: melanomaSubject("S3", "", "M", "prj1"), sample: sampleOf("SMP3", "S3", 0), counts: [5]int64{1, 1, 1, 1, 1}},
		// Not baseline
		{subject: melanomaSubject("S4", "no", "F", "prj3"), sample: sampleOf("SMP4", "S4", 7), counts: [5]int64{1, 1, 1, 1, 1}},
	})

	projects, err := repo.CountBaselineBy(ctx, cohort, GroupProject, false)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "prj1", Count: 2}, {Key: "prj2", Count: 2}}, projects)

	responses, err := repo.CountBaselineBy(ctx, cohort, GroupResponse, true)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "", Count: 1}, {Key: "no", Count: 1}, {Key: "yes", Count: 1}}, responses)

	sexes, err := repo.CountBaselineBy(ctx, cohort, GroupSex, true)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "F", Count: 1}, {Key: "M", Count: 2}}, sexes)

	_, err = repo.CountBaselineBy(ctx, cohort, "sub.age; DROP TABLE subjects", true)
	assert.Error(t, err)
}

func TestCountBaselineBy_EmptySet(t *testing.T) {
	repo := setupTestDB(t)

	counts, err := repo.CountBaselineBy(context.Background(), cohort, GroupProject, false)
	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}
