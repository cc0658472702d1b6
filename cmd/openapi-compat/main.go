// Package main checks that a revised swagger document stays backward
// compatible with a base one: no removed paths, operations or response codes,
// and no newly required parameters.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

type parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operationDoc struct {
	Parameters []parameter          `yaml:"parameters"`
	Responses  map[string]yaml.Node `yaml:"responses"`
}

type operation struct {
	Responses map[string]struct{}
	// Required holds "in:name" for every required parameter.
	Required map[string]struct{}
}

type parsedSpec struct {
	Paths map[string]map[string]operation
}

func main() {
	basePath := flag.String("base", "", "base swagger.yaml or swagger.json path")
	revisionPath := flag.String("revision", "docs/swagger.yaml", "revision swagger path")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	baseSpec, err := loadSpec(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}
	revisionSpec, err := loadSpec(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	issues := compare(baseSpec, revisionSpec)
	if len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func loadSpec(path string) (parsedSpec, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return parsedSpec{}, err
	}
	return parseSpec(raw)
}

// parseSpec accepts YAML or JSON; JSON is valid YAML.
func parseSpec(raw []byte) (parsedSpec, error) {
	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return parsedSpec{}, err
	}
	if doc.Paths == nil {
		return parsedSpec{}, errors.New("missing top-level paths field")
	}

	spec := parsedSpec{Paths: make(map[string]map[string]operation)}
	for path, item := range doc.Paths {
		ops := make(map[string]operation)
		for method, node := range item {
			method = strings.ToLower(strings.TrimSpace(method))
			if _, ok := supportedMethods[method]; !ok {
				continue
			}

			var od operationDoc
			if err := node.Decode(&od); err != nil {
				return parsedSpec{}, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}

			op := operation{Responses: make(map[string]struct{}), Required: make(map[string]struct{})}
			for code := range od.Responses {
				if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
					op.Responses[code] = struct{}{}
				}
			}
			for _, p := range od.Parameters {
				if p.Required {
					op.Required[p.In+":"+p.Name] = struct{}{}
				}
			}
			ops[method] = op
		}
		if len(ops) > 0 {
			spec.Paths[path] = ops
		}
	}
	return spec, nil
}

func compare(base, revision parsedSpec) []string {
	var issues []string

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf(
						"removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code),
					))
				}
			}
			for param := range revOp.Required {
				if _, ok := baseOp.Required[param]; !ok {
					issues = append(issues, fmt.Sprintf(
						"new required parameter: %s %s -> %s",
						strings.ToUpper(method), path, param,
					))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
