package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "spotlight"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists the import prefixes a layer may use besides the standard
// library and third-party modules. Prefixes are relative to the service root
// unless they start with the module path.
type layerRule struct {
	allowedLocal   []string
	allowedShared  []string
	denyThirdParty bool
}

var layerRules = map[string]layerRule{
	"domain": {
		allowedLocal:   []string{"domain"},
		denyThirdParty: true,
	},
	"ports": {
		allowedLocal:  []string{"domain", "ports"},
		allowedShared: []string{modulePath + "/internal/shared"},
	},
	"application": {
		allowedLocal:  []string{"application", "domain", "ports"},
		allowedShared: []string{modulePath + "/internal/shared"},
	},
}

func main() {
	root := flag.String("root", "contexts", "directory holding the bounded contexts")
	flag.Parse()

	violations := collectViolations(*root)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root/<context>/<service>/<layer>/... and returns the
// violations sorted by file, line and import.
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}
		layer := ""
		if len(parts) > 3 {
			layer = parts[2]
		}
		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		violations = append(violations, validateFile(path, filepath.ToSlash(path), layer, servicePrefix)...)
		return nil
	})

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})
	return violations
}

func validateFile(path string, normalizedPath string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		report := func(rule string) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   rule,
			})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			report("cross-service imports are forbidden")
			continue
		}

		rule, ok := layerRules[layer]
		if !ok {
			continue
		}
		switch {
		case strings.Contains(importPath, "/adapters/") || strings.HasSuffix(importPath, "/adapters"):
			report(layer + " must not import adapters")
		case hasPrefix(importPath, modulePath+"/internal/platform") || hasPrefix(importPath, modulePath+"/internal/app"):
			report(layer + " must not import runtime infrastructure")
		case isStdlib(importPath):
		case !hasPrefix(importPath, modulePath):
			if rule.denyThirdParty {
				report(layer + " must only use the standard library")
			}
		case !isAllowed(importPath, rule, servicePrefix):
			report(layer + " import is outside explicit allowlist")
		}
	}
	return violations
}

func isAllowed(importPath string, rule layerRule, servicePrefix string) bool {
	for _, local := range rule.allowedLocal {
		if hasPrefix(importPath, servicePrefix+"/"+local) {
			return true
		}
	}
	for _, shared := range rule.allowedShared {
		if hasPrefix(importPath, shared) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
