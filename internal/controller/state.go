package controller

import (
	"slices"

	"equipviz/internal/chart"
	"equipviz/internal/model"
)

// State снимок состояния экрана. Значение неизменяемо: каждый переход
// возвращает новый State, старый остаётся валидным.
type State struct {
	SelectedFile string              `json:"selected_file,omitempty" yaml:"selected_file,omitempty"`
	Summary      *model.Summary      `json:"summary" yaml:"summary"`
	History      []model.HistoryEntry `json:"history" yaml:"history"`
	ErrorMessage string              `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// Chart проекция распределения типов текущей сводки. Считается при каждом
// вызове, поэтому всегда соответствует Summary.
func (s State) Chart() (chart.Bars, bool) {
	if s.Summary == nil {
		return chart.Bars{}, false
	}
	return chart.Project(s.Summary.TypeDistribution), true
}

func (s State) Clone() State {
	if s.Summary != nil {
		summary := s.Summary.Clone()
		s.Summary = &summary
	}
	s.History = slices.Clone(s.History)
	return s
}

// WithSelectedFile запоминает выбранный файл. Содержимое не проверяется.
func (s State) WithSelectedFile(path string) State {
	s.SelectedFile = path
	return s
}

// WithHistory заменяет историю целиком, порядок сохраняется.
func (s State) WithHistory(history []model.HistoryEntry) State {
	s.History = slices.Clone(history)
	if s.History == nil {
		s.History = []model.HistoryEntry{}
	}
	return s
}

// WithUploadSuccess заменяет сводку (без слияния с предыдущей) и очищает ошибку.
// Выбранный файл остаётся.
func (s State) WithUploadSuccess(summary model.Summary) State {
	summary = summary.Clone()
	s.Summary = &summary
	s.ErrorMessage = ""
	return s
}

// WithUploadFailure выставляет общее сообщение об ошибке. Сводка и история
// остаются прежними.
func (s State) WithUploadFailure() State {
	s.ErrorMessage = model.UploadFailedMessage
	return s
}
