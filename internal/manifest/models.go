package manifest

import "time"

// Outcome classifies what happened to one subject during a run.
type Outcome string

const (
	// OutcomeCopied means both segmentations landed in the output layout.
	OutcomeCopied Outcome = "copied"
	// OutcomeMissingFiles means the subject resolved but its mri directory
	// or segmentation files were absent at copy time.
	OutcomeMissingFiles Outcome = "missing_files"
	// OutcomeLabelOnly means a label record had no directory on disk.
	OutcomeLabelOnly Outcome = "label_only"
	// OutcomeDiskOnly means a directory had no label record.
	OutcomeDiskOnly Outcome = "disk_only"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Finished    bool
	DataRoot    string
	Release     string
	Resolved    int
	LabelOnly   int
	DiskOnly    int
	SkippedRows int
	CopyErrors  int
}

// SubjectOutcome is one subject's fate in one run.
type SubjectOutcome struct {
	RunID   string
	Subject string
	Group   string
	Outcome Outcome
	Detail  string
}

// Counts summarizes a finished run.
type Counts struct {
	Resolved    int
	LabelOnly   int
	DiskOnly    int
	SkippedRows int
	CopyErrors  int
}
