package docs_test

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/docs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}
	for _, topic := range docs.Topics() {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := docs.GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Ledger", "# Prices", "# Sampling"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) is missing %q", title)
		}
	}
	if strings.Contains(all, "Topics, display them") {
		t.Error("GetTopics(*) should not include the readme")
	}
	if _, err := docs.GetTopics("ledger", "nope"); err == nil || !strings.Contains(err.Error(), `topic "nope" not found`) {
		t.Errorf("GetTopics(nope) = %v, want not found", err)
	}
}

// TestCodeBlocks checks that console examples only use existing commands.
func TestCodeBlocks(t *testing.T) {
	var commands []string
	for _, c := range cmd.Commands(nil) {
		commands = append(commands, c.Name())
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		doc := goldmark.New().Parser().Parse(text.NewReader(source))
		ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			block, ok := n.(*ast.FencedCodeBlock)
			if !entering || !ok || string(block.Language(source)) != "console" {
				return ast.WalkContinue, nil
			}
			lines := block.Lines()
			for i := range lines.Len() {
				line := lines.At(i)
				fields := strings.Fields(string(line.Value(source)))
				if len(fields) < 3 || fields[0] != "$" || fields[1] != "stk" {
					continue
				}
				if !slices.Contains(commands, fields[2]) {
					t.Errorf("%s: unknown command %q", file, fields[2])
				}
			}
			return ast.WalkContinue, nil
		})
	}
}
