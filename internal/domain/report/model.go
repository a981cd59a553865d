package report

import (
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Report is the record of one generated artifact. Rows are retained
// indefinitely for audit and never mutated after reaching a terminal status,
// except by an explicit re-delivery.
type Report struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`

	Type     string             `json:"type"`
	DataType string             `json:"data_type"`
	Status   types.ReportStatus `json:"status"`
	Format   types.ExportFormat `json:"format"`

	// StartDate/EndDate delimit the reporting window. Both are nil for
	// ad-hoc exports.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	FileSize     int64  `json:"file_size"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
	ErrorMessage string `json:"error_message,omitempty"`

	DeliveryMethod types.DeliveryMethod `json:"delivery_method"`
	// FtpDeliveryStatus is nil when no delivery is configured.
	FtpDeliveryStatus *types.DeliveryStatus `json:"ftp_delivery_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the cross-field invariants of a report row.
func (r *Report) Validate() error {
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if err := r.Format.Validate(); err != nil {
		return err
	}
	if r.Status.IsCompleted() && r.FilePath == "" {
		return ierr.NewError("completed report has no file path").
			WithHint("A completed report must reference its artifact").
			Mark(ierr.ErrInvalidOperation)
	}
	if r.Status == types.ReportStatusError && r.ErrorMessage == "" {
		return ierr.NewError("errored report has no error message").
			WithHint("A failed report must carry its error").
			Mark(ierr.ErrInvalidOperation)
	}
	if r.DeliveryMethod != types.DeliveryMethodFTP && r.FtpDeliveryStatus != nil {
		return ierr.NewError("delivery status set without ftp delivery").
			WithHint("Delivery status is only meaningful for FTP delivery").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
