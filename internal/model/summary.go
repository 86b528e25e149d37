package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Summary агрегированная статистика по одному загруженному CSV.
// Считается на бэкенде, клиент её только передаёт дальше.
type Summary struct {
	TotalEquipment   int          `json:"total_equipment" yaml:"total_equipment"`
	AvgFlowrate      float64      `json:"avg_flowrate" yaml:"avg_flowrate"`
	AvgPressure      float64      `json:"avg_pressure" yaml:"avg_pressure"`
	AvgTemperature   float64      `json:"avg_temperature" yaml:"avg_temperature"`
	TypeDistribution Distribution `json:"type_distribution" yaml:"type_distribution"`
}

func (s Summary) Clone() Summary {
	s.TypeDistribution = s.TypeDistribution.Clone()
	return s
}

// HistoryEntry одна из последних загрузок. Бэкенд отдаёт не более пяти,
// самые свежие первыми.
type HistoryEntry struct {
	UploadedAt     time.Time `json:"uploaded_at" yaml:"uploaded_at"`
	TotalEquipment int       `json:"total_equipment" yaml:"total_equipment"`
	AvgFlowrate    float64   `json:"avg_flowrate" yaml:"avg_flowrate"`
	AvgPressure    float64   `json:"avg_pressure" yaml:"avg_pressure"`
	AvgTemperature float64   `json:"avg_temperature" yaml:"avg_temperature"`
}

// Форматы, в которых бэкенд может прислать uploaded_at. Наивное время без зоны
// считается UTC.
var uploadedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	var raw struct {
		plain
		UploadedAt string `json:"uploaded_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*h = HistoryEntry(raw.plain)
	if raw.UploadedAt == "" {
		return nil
	}

	for _, layout := range uploadedAtLayouts {
		t, err := time.Parse(layout, raw.UploadedAt)
		if err == nil {
			h.UploadedAt = t
			return nil
		}
	}
	return fmt.Errorf("invalid uploaded_at %q", raw.UploadedAt)
}
