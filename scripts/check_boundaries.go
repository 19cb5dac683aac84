package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "github.com/Na-Varte-5/house-management-sub001"

// Third-party packages the inner layers may use. Anything else must come in
// through a port.
var domainLibraries = []string{
	"github.com/shopspring/decimal",
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

type layerRule struct {
	name    string
	allowed func(modulePrefix string) []string
}

var layerRules = map[string]layerRule{
	"domain": {
		name: "domain",
		allowed: func(modulePrefix string) []string {
			return append([]string{modulePrefix + "/domain"}, domainLibraries...)
		},
	},
	"application": {
		name: "application",
		allowed: func(modulePrefix string) []string {
			return append([]string{
				modulePrefix + "/application",
				modulePrefix + "/domain",
				modulePrefix + "/ports",
				modulePath + "/contracts",
			}, domainLibraries...)
		},
	},
	"ports": {
		name: "ports",
		allowed: func(modulePrefix string) []string {
			return []string{
				modulePrefix + "/domain",
				modulePath + "/contracts",
			}
		},
	},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		modulePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		violations = append(violations, validateFile(path, normalized, parts[3], modulePrefix)...)
		return nil
	})

	return violations
}

func validateFile(path string, normalizedPath string, layer string, modulePrefix string) []violation {
	var violations []violation

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return append(violations, violation{
			File: normalizedPath,
			Line: 1,
			Rule: "file must parse",
		})
	}

	rule, layered := layerRules[layer]
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, modulePrefix) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   "cross-module imports are forbidden",
			})
		}
		if layered {
			violations = append(violations, validateLayerImport(rule, modulePrefix, normalizedPath, line, importPath)...)
		}
	}

	return violations
}

func validateLayerImport(rule layerRule, modulePrefix string, file string, line int, importPath string) []violation {
	var violations []violation

	if strings.Contains(importPath, "/adapters/") || strings.Contains(importPath, "/transport/") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   rule.name + " must not import adapters",
		})
	}
	if hasPrefix(importPath, modulePath+"/internal") || hasPrefix(importPath, modulePath+"/cmd") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   rule.name + " must not import runtime infrastructure",
		})
	}
	if !isStdlib(importPath) && !isAllowed(importPath, rule.allowed(modulePrefix)) {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   rule.name + " import is outside explicit allowlist",
		})
	}

	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
