package dto

type UpdateSettingRequest struct {
	Value       string `json:"value"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	KV        string `json:"kv"`
}
