package response

type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// StageError is the failure body of a pipeline run that got past input validation.
type StageError struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	Stage           string `json:"stage"`
	ErrorKind       string `json:"errorKind"`
	Retryable       bool   `json:"retryable"`
	TransactionHash string `json:"transactionHash,omitempty"`
}
