package request

// UploadReportRequest holds the non-file fields of a report upload form.
type UploadReportRequest struct {
	Broker string
	Label  string
}
