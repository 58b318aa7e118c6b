package amqp

import (
	"encoding/json"
	"time"

	"spesechart/internal/chart"
)

// Snapshot kinds.
const (
	KindRender  = "render"
	KindDestroy = "destroy"
)

// ChartSnapshotMessage announces that a chart instance was drawn or destroyed.
// Render messages carry the full replacement dataset; destroy messages only
// the chart id.
type ChartSnapshotMessage struct {
	Kind      string      `json:"kind"`
	ChartID   string      `json:"chart_id"`
	Chart     *chart.Data `json:"chart,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewRenderMessage creates a render message for a freshly drawn chart
func NewRenderMessage(chartID string, data chart.Data) *ChartSnapshotMessage {
	return &ChartSnapshotMessage{
		Kind:      KindRender,
		ChartID:   chartID,
		Chart:     &data,
		Timestamp: time.Now(),
	}
}

// NewDestroyMessage creates a destroy message for a released chart
func NewDestroyMessage(chartID string) *ChartSnapshotMessage {
	return &ChartSnapshotMessage{
		Kind:      KindDestroy,
		ChartID:   chartID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChartSnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChartSnapshotMessageFromJSON creates a message from JSON bytes
func ChartSnapshotMessageFromJSON(data []byte) (*ChartSnapshotMessage, error) {
	var msg ChartSnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
