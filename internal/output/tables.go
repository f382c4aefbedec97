package output

import (
	"strconv"
	"trialdb/internal/models"
)

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// OverviewTable lists the relative frequency of every population per sample.
func OverviewTable(rows []models.OverviewRow) Table {
	t := Table{
		Title:  "Population frequencies",
		Header: []string{"sample", "total_count", "population", "count", "percentage"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Sample, itoa(r.TotalCount), r.Population.String(), itoa(r.Count), pct(r.Percentage)})
	}
	return t
}

// ComparisonTables renders the cohort rows followed by the per-population tests.
func ComparisonTables(res *models.ComparisonResult) []Table {
	rows := Table{
		Title:  "Responder comparison: " + res.Filter.Condition + " / " + res.Filter.Treatment + " / " + res.Filter.SampleType,
		Header: []string{"sample", "subject", "response", "time_from_treatment_start", "population", "count", "percentage"},
		Rows:   make([][]string, 0, len(res.Rows)),
	}
	for _, r := range res.Rows {
		response := ""
		if r.Response != nil {
			response = *r.Response
		}
		rows.Rows = append(rows.Rows, []string{
			r.Sample, r.Subject, response, itoa(r.TimeFromTreatmentStart),
			r.Population.String(), itoa(r.Count), pct(r.Percentage),
		})
	}

	tests := Table{
		Title:  "Mann-Whitney U (alpha " + strconv.FormatFloat(res.Alpha, 'g', -1, 64) + ")",
		Header: []string{"population", "statistic", "p_value", "significant", "responders", "non_responders", "error"},
		Rows:   make([][]string, 0, len(res.Stats)),
	}
	for _, s := range res.Stats {
		statistic, pValue := "", ""
		if s.Statistic != nil {
			statistic = strconv.FormatFloat(*s.Statistic, 'f', -1, 64)
		}
		if s.PValue != nil {
			pValue = strconv.FormatFloat(*s.PValue, 'f', 6, 64)
		}
		tests.Rows = append(tests.Rows, []string{
			s.Population.String(), statistic, pValue, strconv.FormatBool(s.Significant),
			strconv.Itoa(s.Responders), strconv.Itoa(s.NonResponders), s.Error,
		})
	}
	return []Table{rows, tests}
}

func groupTable(title, key, count string, groups []models.GroupCount) Table {
	t := Table{Title: title, Header: []string{key, count}, Rows: make([][]string, 0, len(groups))}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, itoa(g.Count)})
	}
	return t
}

// SubsetTables renders the three baseline tabulations.
func SubsetTables(b *models.SubsetBreakdown) []Table {
	return []Table{
		groupTable("Baseline samples per project", "project", "samples", b.ProjectCounts),
		groupTable("Baseline subjects per response", "response", "subjects", b.ResponseCounts),
		groupTable("Baseline subjects per sex", "sex", "subjects", b.SexCounts),
	}
}

// LoadRunTable renders a load run as key/value pairs.
func LoadRunTable(title string, run *models.LoadRun) Table {
	t := Table{Title: title, Header: []string{"field", "value"}}
	if run == nil {
		return t
	}
	t.Rows = [][]string{
		{"run_id", run.RunID},
		{"source", run.Source},
		{"started_at", run.StartedAt.Format("2006-01-02T15:04:05.000Z07:00")},
		{"finished_at", run.FinishedAt.Format("2006-01-02T15:04:05.000Z07:00")},
		{"subjects", itoa(run.Subjects)},
		{"samples", itoa(run.Samples)},
		{"cell_counts", itoa(run.CellCounts)},
	}
	return t
}

// IntegrityTable lists the problems found by a store verification.
func IntegrityTable(issues []models.IntegrityIssue) Table {
	t := Table{Title: "Integrity issues", Header: []string{"table", "key", "reason"}, Rows: make([][]string, 0, len(issues))}
	for _, i := range issues {
		t.Rows = append(t.Rows, []string{i.Table, i.Key, i.Reason})
	}
	return t
}

// HousekeepingTable summarizes a staging file sweep.
func HousekeepingTable(r *models.HousekeepingReport) Table {
	t := Table{Title: "Housekeeping", Header: []string{"field", "value"}}
	if r == nil {
		return t
	}
	t.Rows = [][]string{
		{"database", r.Database},
		{"files_removed", strconv.Itoa(r.FilesRemoved)},
		{"space_freed_bytes", itoa(r.SpaceFreedBytes)},
		{"skipped", strconv.Itoa(len(r.Skipped))},
	}
	return t
}
