package types

import (
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/samber/lo"
)

// ReportStatus is the lifecycle status of a generated report artifact.
type ReportStatus string

const (
	ReportStatusPending            ReportStatus = "pending"
	ReportStatusProcessing         ReportStatus = "processing"
	ReportStatusCompleted          ReportStatus = "completed"
	ReportStatusCompletedEmptyData ReportStatus = "completed_with_empty_data"
	ReportStatusError              ReportStatus = "error"
)

func (s ReportStatus) String() string {
	return string(s)
}

func (s ReportStatus) Validate() error {
	allowed := []ReportStatus{
		ReportStatusPending,
		ReportStatusProcessing,
		ReportStatusCompleted,
		ReportStatusCompletedEmptyData,
		ReportStatusError,
	}
	if !lo.Contains(allowed, s) {
		return errors.New(errors.ErrCodeValidation, "invalid report status")
	}
	return nil
}

// IsTerminal reports whether no further automatic transition occurs from s.
// Terminal reports are never mutated again except by explicit re-delivery.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusCompleted || s == ReportStatusCompletedEmptyData || s == ReportStatusError
}

// IsCompleted reports whether the artifact was generated, with or without data.
func (s ReportStatus) IsCompleted() bool {
	return s == ReportStatusCompleted || s == ReportStatusCompletedEmptyData
}

// DeliveryMethod says how a report artifact leaves the system.
type DeliveryMethod string

const (
	DeliveryMethodNone DeliveryMethod = "none"
	DeliveryMethodFTP  DeliveryMethod = "ftp"
)

func (m DeliveryMethod) String() string {
	return string(m)
}

// DeliveryStatus tracks the outcome of shipping an artifact to the
// configured remote destination. Only meaningful when DeliveryMethod is ftp.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

// ReportFilter defines the filter parameters for listing reports
type ReportFilter struct {
	ShopID   string
	Statuses []ReportStatus
	Format   ExportFormat
	Limit    int
	Offset   int
}
