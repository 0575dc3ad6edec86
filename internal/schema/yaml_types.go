package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"typewriter/internal/common"
)

// UnmarshalYAML accepts either a single string or an array of strings.
// A multi-line string is split into lines.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		str = strings.TrimRight(str, "\n")
		if str == "" {
			*s = StringOrArray{}
			return nil
		}

		*s = strings.Split(str, "\n")

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// Text joins the lines.
func (s StringOrArray) Text() string {
	if common.IsEmpty(s) {
		return ""
	}

	return strings.Join(s, "\n")
}
