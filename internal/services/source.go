// filepath: internal/services/source.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"trialdb/internal/models"
)

// Source columns other than the population counts.
const (
	ColSubject                = "subject"
	ColProject                = "project"
	ColCondition              = "condition"
	ColAge                    = "age"
	ColSex                    = "sex"
	ColTreatment              = "treatment"
	ColResponse               = "response"
	ColSample                 = "sample"
	ColSampleType             = "sample_type"
	ColTimeFromTreatmentStart = "time_from_treatment_start"
)

var requiredColumns = []string{
	ColSubject, ColProject, ColCondition, ColAge, ColSex, ColTreatment,
	ColResponse, ColSample, ColSampleType, ColTimeFromTreatmentStart,
}

// sourceHeader maps every known column to its position in a record.
type sourceHeader map[string]int

// parseHeader validates the header row. Columns may appear in any order,
// but each must appear exactly once and nothing else is accepted.
func parseHeader(fields []string) (sourceHeader, error) {
	known := make(map[string]bool, len(requiredColumns)+len(models.AllPopulations))
	for _, c := range requiredColumns {
		known[c] = true
	}
	for _, p := range models.AllPopulations {
		known[p.String()] = true
	}

	h := make(sourceHeader, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if !known[name] {
			return nil, fmt.Errorf("%w: unexpected column %q", ErrSchemaDrift, name)
		}
		if _, dup := h[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaDrift, name)
		}
		h[name] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	for _, p := range models.AllPopulations {
		if _, ok := h[p.String()]; !ok {
			missing = append(missing, p.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

func (h sourceHeader) value(rec []string, col string) string {
	return strings.TrimSpace(rec[h[col]])
}

// nonNegative parses a non-negative integer field.
func (h sourceHeader) nonNegative(rec []string, line int, col string) (int64, error) {
	raw := h.value(rec, col)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d, column %s: %q is not an integer", ErrMalformedField, line, col, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: line %d, column %s: negative value %d", ErrMalformedField, line, col, v)
	}
	return v, nil
}

func (h sourceHeader) record(rec []string, line int) (models.SourceRecord, error) {
	out := models.SourceRecord{Line: line, Counts: make(map[models.Population]int64, len(models.AllPopulations))}

	subjectID := h.value(rec, ColSubject)
	if subjectID == "" {
		return out, fmt.Errorf("%w: line %d, column %s", ErrEmptyIdentifier, line, ColSubject)
	}
	sampleID := h.value(rec, ColSample)
	if sampleID == "" {
		return out, fmt.Errorf("%w: line %d, column %s", ErrEmptyIdentifier, line, ColSample)
	}

	age, err := h.nonNegative(rec, line, ColAge)
	if err != nil {
		return out, err
	}
	// Time offsets may be negative for pre-treatment draws.
	rawTime := h.value(rec, ColTimeFromTreatmentStart)
	tfs, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		return out, fmt.Errorf("%w: line %d, column %s: %q is not an integer", ErrMalformedField, line, ColTimeFromTreatmentStart, rawTime)
	}

	var response *string
	if r := h.value(rec, ColResponse); r != "" {
		response = &r
	}

	out.Subject = models.Subject{
		ID:        subjectID,
		Project:   h.value(rec, ColProject),
		Condition: h.value(rec, ColCondition),
		Age:       age,
		Sex:       h.value(rec, ColSex),
		Treatment: h.value(rec, ColTreatment),
		Response:  response,
	}
	out.Sample = models.Sample{
		ID:                     sampleID,
		SubjectID:              subjectID,
		SampleType:             h.value(rec, ColSampleType),
		TimeFromTreatmentStart: tfs,
	}

	for _, p := range models.AllPopulations {
		n, err := h.nonNegative(rec, line, p.String())
		if err != nil {
			return out, err
		}
		out.Counts[p] = n
	}
	return out, nil
}

// ParseSource reads a complete source export. Nothing is returned unless
// every record is valid, so a load never starts from a partial file.
func ParseSource(r io.Reader) ([]models.SourceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	fields, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: source has no header", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedRecord, err)
	}
	header, err := parseHeader(fields)
	if err != nil {
		return nil, err
	}

	var records []models.SourceRecord
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		line, _ := reader.FieldPos(0)
		sr, err := header.record(rec, line)
		if err != nil {
			return nil, err
		}
		records = append(records, sr)
	}
	return records, nil
}
