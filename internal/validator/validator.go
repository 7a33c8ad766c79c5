package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flowforge/pkg/domain"
)

// ValidateGraph checks a definition before assembly and reports every problem at once:
// blank or duplicate ids, unsupported block types, dangling line endpoints and parameters
// addressing unknown blocks. A nil supported list skips the type check.
func ValidateGraph(def *domain.GraphDefinition, supported []string) error {
	if def == nil {
		return fmt.Errorf("%w: graph definition must not be nil", domain.ErrInvalidArgument)
	}

	types := make(map[string]bool, len(supported))
	for _, t := range supported {
		types[t] = true
	}

	var problems []string
	blocks := make(map[string]bool, len(def.Blocks))
	for i, b := range def.Blocks {
		switch {
		case strings.TrimSpace(b.ID) == "":
			problems = append(problems, fmt.Sprintf("block #%d has no id", i))
			continue
		case blocks[b.ID]:
			problems = append(problems, fmt.Sprintf("duplicate block '%s'", b.ID))
		}
		blocks[b.ID] = true

		if supported != nil && !types[b.Type] {
			problems = append(problems, fmt.Sprintf("block '%s' has unsupported type '%s'", b.ID, b.Type))
		}
		if strings.TrimSpace(b.DefaultInput) == "" {
			problems = append(problems, fmt.Sprintf("block '%s' has no default input", b.ID))
		}
	}

	lines := make(map[string]bool, len(def.Lines))
	for i, l := range def.Lines {
		if strings.TrimSpace(l.ID) == "" {
			problems = append(problems, fmt.Sprintf("line #%d has no id", i))
			continue
		}
		if lines[l.ID] {
			problems = append(problems, fmt.Sprintf("duplicate line '%s'", l.ID))
		}
		lines[l.ID] = true

		for _, end := range []string{l.From, l.To} {
			if !blocks[end] {
				problems = append(problems, fmt.Sprintf("line '%s' references missing block '%s'", l.ID, end))
			}
		}
	}

	params := make(map[string]bool, len(def.Parameters))
	for _, p := range def.Parameters {
		if !blocks[p.BlockID] {
			problems = append(problems, fmt.Sprintf("parameter for missing block '%s'", p.BlockID))
		}
		if params[p.BlockID] {
			problems = append(problems, fmt.Sprintf("duplicate parameter for block '%s'", p.BlockID))
		}
		params[p.BlockID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidArgument, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// Unreachable crawls the lines from every entry block (one without incoming lines) and returns
// the blocks never visited, sorted. Those only sit on cycles no entry leads to.
func Unreachable(def *domain.GraphDefinition) []string {
	if def == nil {
		return nil
	}

	incoming := make(map[string]bool)
	next := make(map[string][]string)
	for _, l := range def.Lines {
		incoming[l.To] = true
		next[l.From] = append(next[l.From], l.To)
	}

	var queue []string
	for _, b := range def.Blocks {
		if !incoming[b.ID] {
			queue = append(queue, b.ID)
		}
	}

	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, target := range next[current] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	var out []string
	for _, b := range def.Blocks {
		if !visited[b.ID] {
			out = append(out, b.ID)
		}
	}
	sort.Strings(out)
	return out
}
