package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envFiles are tried in order; the first one present wins.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads KEY=VALUE pairs from the first .env file found in the
// working directory. Variables already set in the process environment win.
func loadEnvFile() (string, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return path, godotenv.Load(path)
	}
	return "", nil
}

// expandEnvNode replaces ${VAR} references in every scalar below n. Values are
// substituted after parsing, so multi-line variables need no YAML quoting.
func expandEnvNode(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode {
		expanded := os.ExpandEnv(n.Value)
		if expanded != n.Value {
			n.Value = expanded
			if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
				// Re-resolve plain scalars such as ${PRETTY_URLS} -> true.
				n.Tag = ""
			}
		}
		return
	}
	for _, child := range n.Content {
		expandEnvNode(child)
	}
}
