// Package chart строит столбчатую диаграмму распределения оборудования по типам.
package chart

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"equipviz/internal/model"
)

const (
	Title        = "Equipment Count"
	barRune      = '█'
	defaultWidth = 40
)

// Bars данные диаграммы: подписи и значения в порядке распределения.
type Bars struct {
	Labels []string `json:"labels" yaml:"labels"`
	Values []int    `json:"values" yaml:"values"`
}

// Project строит диаграмму из распределения. Порядок сохраняется, сортировки нет.
func Project(d model.Distribution) Bars {
	return Bars{
		Labels: d.Types(),
		Values: d.Counts(),
	}
}

// Render рисует горизонтальные столбцы шириной не больше width символов,
// масштабируя их по максимальному значению. Нулевое значение даёт пустой
// столбец, ненулевое хотя бы один символ.
func (b Bars) Render(w io.Writer, width int) error {
	if width <= 0 {
		width = defaultWidth
	}

	labelWidth := 0
	maxValue := 0
	for i, label := range b.Labels {
		labelWidth = max(labelWidth, utf8.RuneCountInString(label))
		maxValue = max(maxValue, b.Values[i])
	}

	for i, label := range b.Labels {
		value := b.Values[i]

		n := 0
		if maxValue > 0 && value > 0 {
			n = max(1, value*width/maxValue)
		}

		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(label))
		bar := strings.Repeat(string(barRune), n)
		if _, err := fmt.Fprintf(w, "%s%s | %s %d\n", label, pad, bar, value); err != nil {
			return err
		}
	}
	return nil
}
