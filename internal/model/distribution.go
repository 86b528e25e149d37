package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TypeCount количество единиц оборудования одного типа.
type TypeCount struct {
	Type  string
	Count int
}

// Distribution распределение оборудования по типам.
//
// На проводе это JSON-объект. Порядок ключей сохраняется таким, каким его прислал
// бэкенд: по нему строится график, сортировать нельзя.
type Distribution []TypeCount

func (d Distribution) Clone() Distribution {
	return slices.Clone(d)
}

// Types возвращает имена типов в исходном порядке.
func (d Distribution) Types() []string {
	types := make([]string, len(d))
	for i, tc := range d {
		types[i] = tc.Type
	}
	return types
}

// Counts возвращает количества в исходном порядке.
func (d Distribution) Counts() []int {
	counts := make([]int, len(d))
	for i, tc := range d {
		counts[i] = tc.Count
	}
	return counts
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("type_distribution: expected object, got %v", tok)
	}

	dist := make(Distribution, 0)
	seen := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("type_distribution: expected key, got %v", tok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("type_distribution[%q]: %w", key, err)
		}

		// повторный ключ перезаписывает значение, как в JSON.parse
		if i, ok := seen[key]; ok {
			dist[i].Count = count
			continue
		}
		seen[key] = len(dist)
		dist = append(dist, TypeCount{Type: key, Count: count})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = dist
	return nil
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tc.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(tc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d Distribution) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, tc := range d {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tc.Type},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(tc.Count)},
		)
	}
	return node, nil
}
