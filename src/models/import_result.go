package models

// ImportRowError points back at the original position of an invalid row
// in the submitted batch.
type ImportRowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult is the terminal artifact of a bulk import call. The batch
// is all-or-nothing: Imported is either 0 or the full row count.
type ImportResult struct {
	Success  bool             `json:"success"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
	Message  string           `json:"message,omitempty"`
}
