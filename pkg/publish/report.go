package publish

// Report describes a successful upload. Its shape is the same for every
// platform.
type Report struct {
	Platform   Platform
	ProjectID  string
	VersionID  string
	URL        string
	Files      []ReportFile
	Unfeatured []UnfeatureResult
}

// ReportFile is one uploaded file.
type ReportFile struct {
	ID   string
	Name string
	URL  string
}

// UnfeatureResult is the outcome of unfeaturing one previous version.
// Failures are reported here and never fail the upload.
type UnfeatureResult struct {
	VersionID string
	Err       error
}

// UnfeatureFailures returns the results that failed.
func (r *Report) UnfeatureFailures() []UnfeatureResult {
	var out []UnfeatureResult
	for _, u := range r.Unfeatured {
		if u.Err != nil {
			out = append(out, u)
		}
	}
	return out
}
