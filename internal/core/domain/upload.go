package domain

// UploadedImage is the transient payload of one upload request. It is never
// persisted; the bytes are discarded once the pipeline finishes regardless of
// outcome.
type UploadedImage struct {
	Filename string
	MimeType string
	Content  []byte
}

func (u UploadedImage) Size() int64 {
	return int64(len(u.Content))
}

// ReadinessStatus is the health-check payload. It is a pure read of component
// readiness flags plus static provider configuration.
type ReadinessStatus struct {
	Status           string `json:"status"`
	VisionAgentReady bool   `json:"vision_agent_ready"`
	FieldAgentReady  bool   `json:"field_agent_ready"`
	ProviderConfig   struct {
		BaseURL         string `json:"base_url"`
		VisionModel     string `json:"vision_model"`
		TextModel       string `json:"text_model"`
		TraceConfigured bool   `json:"trace_configured"`
	} `json:"provider_config"`
}
