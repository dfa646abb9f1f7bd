package service

import (
	"context"
	"errors"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

// ImportRowError describes a spreadsheet row that was not imported. Row is
// 1-based and counts data rows only.
type ImportRowError struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped"`
}

// ImportCustomers adds each row as a manual customer. Rows that fail
// validation or collide with an existing customer are reported and skipped;
// any other error stops the import and is returned with the partial report.
// Each imported row is persisted on its own.
func (s *customerServiceImpl) ImportCustomers(ctx context.Context, rows []entity.CustomerFields) (*ImportReport, error) {
	report := &ImportReport{Skipped: []ImportRowError{}}

	for i, row := range rows {
		_, err := s.AddCustomer(ctx, row)
		if err == nil {
			report.Imported++
			continue
		}

		var vErr *entity.ValidationError
		var dupErr *DuplicateNameError
		if errors.As(err, &vErr) || errors.As(err, &dupErr) {
			report.Skipped = append(report.Skipped, ImportRowError{
				Row:    i + 1,
				Name:   row.FullName,
				Reason: err.Error(),
			})
			continue
		}

		s.logger.Error("Customer import aborted",
			zap.Int("row", i+1),
			zap.Int("imported", report.Imported),
			zap.Error(err))
		return report, err
	}

	s.logger.Info("Customer import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}
