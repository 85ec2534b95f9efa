package renderfeasibilitypdf

type Input struct {
	ReportID   string `json:"reportId" validate:"required"`
	Regenerate bool   `json:"regenerate,omitempty"`
}

type Output struct {
	ReportID  string `json:"reportId"`
	SizeBytes int    `json:"sizeBytes"`
	Cached    bool   `json:"cached"`
}
