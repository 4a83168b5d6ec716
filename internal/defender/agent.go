package defender

// Agent is a Defender record as returned by the console's defenders
// endpoint. Fields the check does not use are ignored on decode.
type Agent struct {
	Type      string  `json:"type"`
	Connected bool    `json:"connected"`
	Hostname  string  `json:"hostname" validate:"required"`
	Version   string  `json:"version" validate:"required"`
	Status    *Status `json:"status" validate:"required"`
}

type Status struct {
	Image     *ScanStatus `json:"image" validate:"required"`
	Container *ScanStatus `json:"container" validate:"required"`
}

type ScanStatus struct {
	ScanTime string `json:"scanTime"`
}

// Evaluated is the per-Defender line of the report. The JSON keys are
// consumed by downstream tooling and must not change.
type Evaluated struct {
	Hostname       string `json:"hostname"`
	Version        string `json:"version"`
	Image          string `json:"image"`
	ImageFresh     bool   `json:"ImageScanWithin24hr"`
	Container      string `json:"container"`
	ContainerFresh bool   `json:"ContainerScanWithin24hr"`
}

func (e Evaluated) Stale() bool {
	return !e.ImageFresh || !e.ContainerFresh
}

type Report struct {
	Details        []Evaluated `json:"details"`
	StaleHostnames []string    `json:"Stale_Defender_Hostnames"`
	Skipped        []string    `json:"skipped,omitempty"`
}
