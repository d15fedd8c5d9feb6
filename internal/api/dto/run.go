package dto

type RunResponse struct {
	Pipeline string         `json:"pipeline"`
	RunID    string         `json:"run_id"`
	OK       bool           `json:"ok"`
	Msg      string         `json:"msg"`
	Meta     map[string]any `json:"meta"`
	Error    string         `json:"error,omitempty"`
}
