package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-motemplate/pkg/motemplate"
)

type renderOptions struct {
	name     string
	partials []string
	watch    bool
	strict   bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <template> <data.(json|yaml)>",
		Short: "Render a template against a data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "display name for the template (default: file base name)")
	cmd.Flags().StringArrayVar(&opts.partials, "partial", nil, "register a sub-template as name=file (repeatable; name may be dotted)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render whenever the template file changes")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero if the render reports any errors")

	return cmd
}

func runRender(templatePath, dataPath string, opts *renderOptions) error {
	data, err := loadData(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load data file: %w", err)
	}

	for _, spec := range opts.partials {
		name, file, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --partial %q, expected name=file", spec)
		}
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read partial %q: %w", name, err)
		}
		partial, err := motemplate.NewNamed(string(source), name)
		if err != nil {
			return fmt.Errorf("failed to compile partial %q: %w", name, err)
		}
		if err := setPath(data, name, partial); err != nil {
			return err
		}
	}

	name := opts.name
	if name == "" {
		name = filepath.Base(templatePath)
	}

	if opts.watch {
		return renderWatch(templatePath, data, opts)
	}

	source, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := motemplate.NewNamed(string(source), name)
	if err != nil {
		return err
	}

	result := tmpl.Render(data)
	fmt.Print(result.Text)
	reportErrors(result.Errors, data)
	if opts.strict && len(result.Errors) > 0 {
		return fmt.Errorf("render reported %d error(s)", len(result.Errors))
	}
	return nil
}

func renderWatch(templatePath string, data map[string]interface{}, opts *renderOptions) error {
	live, err := motemplate.WatchFile(templatePath)
	if err != nil {
		return err
	}
	defer live.Close()

	for {
		result := live.Render(data)
		fmt.Print(result.Text)
		reportErrors(result.Errors, data)
		<-live.Reloads()
	}
}

// loadData reads a JSON or YAML mapping, selected by file extension.
func loadData(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// setPath inserts a value at a dotted path, creating intermediate maps.
func setPath(data map[string]interface{}, path string, value interface{}) error {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := data[part]
		if !ok {
			next := make(map[string]interface{})
			data[part] = next
			data = next
			continue
		}
		childMap, ok := child.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot register partial at %q: %q is not a mapping", path, part)
		}
		data = childMap
	}
	data[parts[len(parts)-1]] = value
	return nil
}

var resolveErrPattern = regexp.MustCompile(`^Failed to resolve '([^']+)'`)

// reportErrors prints render errors to stderr, with a fuzzy "did you mean"
// hint against the data's key paths for unresolved names.
func reportErrors(errs []string, data map[string]interface{}) {
	if len(errs) == 0 {
		return
	}
	keys := collectKeyPaths(data, "", 0)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
		if m := resolveErrPattern.FindStringSubmatch(e); m != nil {
			if hint := closestKey(m[1], keys); hint != "" {
				fmt.Fprintf(os.Stderr, "  (did you mean '%s'?)\n", hint)
			}
		}
	}
}

// collectKeyPaths gathers the dotted key paths reachable in the data, a few
// levels deep, as suggestion candidates.
func collectKeyPaths(data map[string]interface{}, prefix string, depth int) []string {
	if depth > 3 {
		return nil
	}
	var keys []string
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		keys = append(keys, path)
		if child, ok := value.(map[string]interface{}); ok {
			keys = append(keys, collectKeyPaths(child, path, depth+1)...)
		}
	}
	sort.Strings(keys)
	return keys
}

func closestKey(name string, keys []string) string {
	ranks := fuzzy.RankFindNormalizedFold(name, keys)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Target == name {
		return ""
	}
	return best.Target
}
