// Package models holds the request and response shapes of the metric API.
package models

// ExecuteRequest asks the service to run one or more metrics against a
// GUI screenshot. The screenshot arrives either inline as Base64 PNG or
// as a URL to fetch.
type ExecuteRequest struct {
	// Metrics lists the metric IDs to run. Empty means every registered
	// metric.
	Metrics []string `json:"metrics"`

	// ImageB64 is the Base64-encoded PNG screenshot.
	ImageB64 string `json:"image_b64,omitempty"`

	// URL points at a screenshot to fetch when ImageB64 is absent.
	URL string `json:"url,omitempty"`

	// GUIType selects parameterization: 0 desktop, 1 mobile.
	GUIType int `json:"gui_type"`

	// Segments carries precomputed segmentation output, when available.
	Segments *SegmentsPayload `json:"segments,omitempty"`

	// Segment requests server-side segmentation before metrics run.
	Segment bool `json:"segment,omitempty"`
}

// SegmentsPayload mirrors the segmentation output consumed by
// segmentation-dependent metrics.
type SegmentsPayload struct {
	ImgB64   string           `json:"img_b64"`
	Elements []ElementPayload `json:"elements,omitempty"`
}

// ElementPayload is one detected GUI element.
type ElementPayload struct {
	Class string `json:"class"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
}

// MeasurePayload is one result value from a metric. Exactly one of
// Number and ImageB64 is populated, per Kind.
type MeasurePayload struct {
	Kind     string  `json:"kind"`
	Number   float64 `json:"number,omitempty"`
	ImageB64 string  `json:"image_b64,omitempty"`
}

// MetricResult carries one metric's outcome.
type MetricResult struct {
	MetricID string           `json:"metric_id"`
	Measures []MeasurePayload `json:"measures,omitempty"`

	// Inapplicable is true when the metric does not apply to this GUI
	// type. Measures is absent in that case.
	Inapplicable bool `json:"inapplicable,omitempty"`

	Error string `json:"error,omitempty"`
}

// ExecuteResponse is the full response for an execute call.
type ExecuteResponse struct {
	Timestamp         string           `json:"timestamp"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
	Results           []MetricResult   `json:"results"`
	Segments          *SegmentsPayload `json:"segments,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string   `json:"status"`
	Metrics []string `json:"metrics"`
}
