package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const usersHeader = `# Name: [Craftsmanship, control, cp]
# You are encouraged to use this either for multiple characters if you have them, or different jobs having
# different gear or melds.
# The top line will always be selected by default
`

const recipesHeader = `# Name: [Progress, quality, durability, progress difficulty, quality difficulty, extra progress difficulty, extra quality difficulty]
# as can be found on other solver websites, such as https://yyyy.games/crafter/index.html#/simulator and checking custom recipe.
# Unfortunately that is how the craft system works in FFXIV.
`

// SaveUsers rewrites users.yaml in configDir.
func (p *Presets) SaveUsers(configDir string) error {
	m := mappingNode()
	for _, name := range p.UserNames {
		s := p.Users[name]
		addFlowEntry(m, name, s.Craftsmanship, s.Control, s.CP)
	}
	return writePresetFile(filepath.Join(configDir, UsersFile), usersHeader, m)
}

// SaveRecipes rewrites recipes.yaml in configDir.
func (p *Presets) SaveRecipes(configDir string) error {
	m := mappingNode()
	for _, name := range p.RecipeNames {
		v := p.Recipes[name].Values()
		addFlowEntry(m, name, v[:]...)
	}
	return writePresetFile(filepath.Join(configDir, RecipesFile), recipesHeader, m)
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func addFlowEntry(m *yaml.Node, name string, values ...int) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)})
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, seq)
}

func writePresetFile(path, header string, m *yaml.Node) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("\n")
	if len(m.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
