package core

import "fmt"

// Reports registers the lab reports of one Event. The zero value is ready
// to use. Not safe for concurrent use; each Event owns its own.
type Reports struct {
	reports []Report
}

// Ensure returns the ReportID for labReportID, appending a new report when
// none matches. An empty labReportID always creates a new synthetic report
// named "Report {n}".
func (r *Reports) Ensure(labReportID, fileDescription string) int {
	if labReportID != "" {
		for _, rep := range r.reports {
			if rep.LabReportID == labReportID {
				return rep.ReportID
			}
		}
	}

	id := len(r.reports) + 1
	if labReportID == "" {
		labReportID = fmt.Sprintf("Report %d", id)
	}
	r.reports = append(r.reports, Report{
		ReportID:        id,
		LabReportID:     labReportID,
		FileDescription: fileDescription,
	})
	return id
}

// List returns the registered reports in id order.
func (r *Reports) List() []Report {
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Len returns the number of reports.
func (r *Reports) Len() int { return len(r.reports) }
