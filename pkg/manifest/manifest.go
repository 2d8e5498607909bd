package manifest

const (
	// FileName is the builder's output file inside the data directory.
	// It is always excluded from the manifest's own file list.
	FileName = "manifest.json"

	// Note is the fixed descriptive string embedded in every manifest.
	Note = "Auto-generated file list for Clinical Trials Dashboard"
)

// Manifest is the generated JSON index consumed by the dashboard front-end.
// It provides a lightweight listing of the data files so the front-end can
// load them without directory-listing support from the server.
type Manifest struct {
	Files       []string `json:"files"`
	TotalFiles  int      `json:"total_files"`
	GeneratedAt string   `json:"generated_at"`
	Note        string   `json:"note"`
}

// InvalidFile records a data file that failed validation, with the reason.
type InvalidFile struct {
	Name   string
	Reason string
}
