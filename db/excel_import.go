package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staffquiz-server-go/models"
)

// ReadQuestionsWorkbook parses quiz questions from an Excel workbook. The
// first sheet is expected to have a header row followed by one row per
// question: question text, the four options, and the 1-based correct option
// index. Rows with missing cells or an answer outside 1-4 are skipped with a
// log line rather than aborting the whole import.
func ReadQuestionsWorkbook(r io.Reader, logger *zap.Logger) ([]models.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("error closing excel file", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	var questions []models.Question
	for i, row := range rows {
		if i == 0 {
			continue // Skip header row
		}

		// Columns: A question, B-E options, F answer
		if len(row) < 6 {
			logger.Warn("skipping workbook row with missing cells", zap.Int("row", i+1))
			continue
		}

		q := models.Question{
			Question: row[0],
			Options:  [4]string{row[1], row[2], row[3], row[4]},
		}
		if q.Question == "" || q.Options[0] == "" || q.Options[1] == "" ||
			q.Options[2] == "" || q.Options[3] == "" {
			logger.Warn("skipping workbook row with empty cells", zap.Int("row", i+1))
			continue
		}

		answer, err := strconv.Atoi(row[5])
		if err != nil || answer < 1 || answer > 4 {
			logger.Warn("skipping workbook row with invalid answer",
				zap.Int("row", i+1), zap.String("answer", row[5]))
			continue
		}
		q.Answer = answer

		questions = append(questions, q)
	}

	return questions, nil
}
