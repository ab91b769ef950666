package upgrade

// Stage is a state of the upgrade state machine.
type Stage string

// Upgrade stages in the order they are entered. StageError is reachable from any stage.
const (
	StageDetecting    Stage = "detecting"
	StagePreparing    Stage = "preparing"
	StageTransforming Stage = "transforming"
	StageCommitting   Stage = "committing"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Progress is one progress event. FilesProcessed and TotalFiles are only set
// for file-level progress while transforming.
type Progress struct {
	Stage          Stage  `json:"stage"`
	CurrentStep    int    `json:"current_step"`
	TotalSteps     int    `json:"total_steps"`
	Message        string `json:"message"`
	FilesProcessed int    `json:"files_processed,omitempty"`
	TotalFiles     int    `json:"total_files,omitempty"`
}

// ProgressFunc receives progress events.
type ProgressFunc func(Progress)
