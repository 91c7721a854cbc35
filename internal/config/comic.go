package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Comic is a configured [name, site] pair. The mapping form
// {name: x, site: y} is accepted too.
type Comic struct {
	Name string
	Site string
}

func (c *Comic) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("comic entry must be [name, site]: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("comic entry must be [name, site], got %q", pair)
		}
		c.Name, c.Site = pair[0], pair[1]
		return nil

	case yaml.MappingNode:
		var m struct {
			Name string `yaml:"name"`
			Site string `yaml:"site"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		c.Name, c.Site = m.Name, m.Site
		return nil

	default:
		return fmt.Errorf("comic entry must be [name, site], got %q", node.Value)
	}
}

func (c Comic) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: c.Name},
			{Kind: yaml.ScalarNode, Value: c.Site},
		},
	}, nil
}
