package php

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/pipeline"
)

var phpFiles = []string{".php"}

var (
	strposAtStart       = regexp.MustCompile(`\bstrpos\s*\(([^()]*)\)\s*===\s*0\b`)
	striposAtStart      = regexp.MustCompile(`\bstripos\s*\([^()]*\)\s*===\s*0\b`)
	strposAtEnd         = regexp.MustCompile(`\bstri?pos\s*\([^)]+\)\s*===\s*\(?\s*strlen\s*\(`)
	arrayKeyExistsThis  = regexp.MustCompile(`\barray_key_exists\s*\(\s*(['"][^'"]+['"])\s*,\s*\$this\s*\)`)
	eachCall            = regexp.MustCompile(`\beach\s*\(\s*\$`)
	functionDeclaration = regexp.MustCompile(`\bfunction\s+\w+\s*\([^)]*\$`)

	constantOnlyClass = regexp.MustCompile(`^\s*(?:final\s+|abstract\s+)*class\s+\w+`)
	untypedConst      = regexp.MustCompile(`^\s*(?:(?:public|protected|private|final)\s+)*const\s+[A-Za-z_]\w*\s*=`)
	plainProperty     = regexp.MustCompile(`^\s*(?:public|protected|private)\s+(?:\??[\w\\]+\s+)?\$\w+\s*;`)
	forkCall          = regexp.MustCompile(`\bpcntl_fork\s*\(`)

	classDeclaration  = regexp.MustCompile(`\bclass\s+(\w+)`)
	propertyDeclared  = regexp.MustCompile(`^\s*(?:public|protected|private|var)\s+(?:readonly\s+)?(?:\??[\w\\]+\s+)?\$(\w+)`)
	promotedParameter = regexp.MustCompile(`(?:public|protected|private)\s+(?:readonly\s+)?(?:\??[\w\\]+\s+)?\$(\w+)`)
	thisAssignment    = regexp.MustCompile(`\$this->(\w+)\s*=[^=>]`)
	utf8Codec         = regexp.MustCompile(`\butf8_(?:en|de)code\s*\(`)
	dollarBrace       = regexp.MustCompile(`\$\{([A-Za-z_]\w*)\}`)

	jsonDecodeCheck = regexp.MustCompile(`json_last_error\s*\(`)
	extendsClass    = regexp.MustCompile(`\bclass\s+\w+\s+extends\s+`)
	overridable     = regexp.MustCompile(`^\s*(?:public|protected)\s+(?:static\s+)?function\s+(\w+)`)

	implicitNullable = regexp.MustCompile(`([(,]\s*)([A-Za-z_\\][\w\\]*)\s+(&?\.{0,3}\$\w+)\s*=\s*null\b`)
	countFilter      = regexp.MustCompile(`count\s*\(\s*array_filter\s*\(.*\)\s*>\s*0`)
	eStrict          = regexp.MustCompile(`\bE_STRICT\b`)
	getterOrSetter   = regexp.MustCompile(`function\s+(?:get|set)(\w+)\s*\(`)
)

// Catalog returns the PHP rule tables keyed by step.
func Catalog() pipeline.Catalog {
	c := pipeline.Catalog{}
	c.Add("7.4", "8.0",
		pipeline.RewriteRule("php80-str-starts-with", phpFiles, strposAtStart, "str_starts_with(${1})",
			"Replace strpos() === 0 with str_starts_with() (PHP 8.0)"),
		pipeline.AdviseRule("php80-stripos-starts-with", phpFiles, striposAtStart, change.KindModify,
			"Case-insensitive prefix check: consider str_starts_with() on normalized strings (PHP 8.0)"),
		pipeline.AdviseRule("php80-str-ends-with", phpFiles, strposAtEnd, change.KindModify,
			"Consider str_ends_with() for end-of-string checks (PHP 8.0)"),
		pipeline.RewriteRule("php80-array-key-exists-object", phpFiles, arrayKeyExistsThis, "property_exists($$this, ${1})",
			"array_key_exists() on objects was removed in PHP 8.0; use property_exists()"),
		pipeline.AdviseRule("php80-each-removed", phpFiles, eachCall, change.KindModify,
			"each() was removed in PHP 8.0; iterate with foreach"),
		pipeline.AdviseOnceRule("php80-named-arguments", phpFiles, functionDeclaration, change.KindModify,
			"PHP 8.0 supports named arguments; parameter names are now part of the public API"),
	)
	c.Add("8.0", "8.1",
		pipeline.Rule{ID: "php81-enums", Extensions: phpFiles, Apply: suggestEnums},
		pipeline.Rule{ID: "php81-readonly", Extensions: phpFiles, Apply: suggestReadonly},
		pipeline.AdviseRule("php81-fibers", phpFiles, forkCall, change.KindModify,
			"PHP 8.1 introduces Fibers for cooperative multitasking; consider them instead of forking"),
	)
	c.Add("8.1", "8.2",
		pipeline.Rule{ID: "php82-dynamic-properties", Extensions: phpFiles, Apply: flagDynamicProperties},
		pipeline.AdviseRule("php82-utf8-codec", phpFiles, utf8Codec, change.KindModify,
			"utf8_encode() and utf8_decode() are deprecated in PHP 8.2; use mb_convert_encoding()"),
		pipeline.RewriteRule("php82-dollar-brace-interpolation", phpFiles, dollarBrace, "{$$${1}}",
			"\"${var}\" string interpolation is deprecated in PHP 8.2; use \"{$var}\""),
	)
	c.Add("8.2", "8.3",
		pipeline.AdviseOnceRule("php83-typed-constants", phpFiles, untypedConst, change.KindModify,
			"PHP 8.3 supports typed class constants; consider adding types"),
		pipeline.AdviseRule("php83-json-validate", phpFiles, jsonDecodeCheck, change.KindModify,
			"Consider json_validate() (PHP 8.3) instead of decoding to check json_last_error()"),
		pipeline.Rule{ID: "php83-override", Extensions: phpFiles, Apply: suggestOverride},
	)
	c.Add("8.3", "8.4",
		pipeline.Rule{ID: "php84-implicit-nullable", Extensions: phpFiles, Apply: explicitNullable},
		pipeline.Rule{ID: "php84-property-hooks", Extensions: phpFiles, Apply: suggestPropertyHooks},
		pipeline.AdviseRule("php84-array-any", phpFiles, countFilter, change.KindModify,
			"PHP 8.4: use array_any() to check whether any element matches"),
		pipeline.AdviseRule("php84-e-strict", phpFiles, eStrict, change.KindModify,
			"E_STRICT is deprecated in PHP 8.4; remove it from error_reporting masks"),
	)
	return c
}

// suggestEnums flags classes that only hold constants.
func suggestEnums(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !constantOnlyClass.MatchString(line) {
			continue
		}
		if hasConstants(lines[i+1:]) && !strings.Contains(content, "function ") {
			return content, []change.Change{change.Advisory(change.KindModify, i+1,
				"PHP 8.1 introduces enums; consider one instead of a constants-only class")}
		}
	}
	return content, nil
}

func hasConstants(lines []string) bool {
	for _, line := range lines {
		if untypedConst.MatchString(line) {
			return true
		}
	}
	return false
}

// suggestReadonly flags untyped-default properties in classes with a constructor.
func suggestReadonly(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	if !strings.Contains(content, "__construct") {
		return content, nil
	}
	var changes []change.Change
	for i, line := range strings.Split(content, "\n") {
		if plainProperty.MatchString(line) && !strings.Contains(line, "readonly") && !strings.Contains(line, "static") {
			changes = append(changes, change.Advisory(change.KindModify, i+1,
				"Consider the readonly modifier for properties set once in the constructor (PHP 8.1)"))
		}
	}
	return content, changes
}

// flagDynamicProperties reports $this->name assignments for properties the
// class never declares. Subclasses, classes using #[AllowDynamicProperties],
// and classes with magic accessors are skipped.
func flagDynamicProperties(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	if strings.Contains(content, "AllowDynamicProperties") || strings.Contains(content, "__set(") || strings.Contains(content, "__get(") {
		return content, nil
	}
	lines := strings.Split(content, "\n")
	declared := make(map[string]bool)
	for _, line := range lines {
		if m := propertyDeclared.FindStringSubmatch(line); m != nil {
			declared[m[1]] = true
		}
		if strings.Contains(line, "__construct") {
			for _, m := range promotedParameter.FindAllStringSubmatch(line, -1) {
				declared[m[1]] = true
			}
		}
	}
	if !classDeclaration.MatchString(content) || extendsClass.MatchString(content) {
		return content, nil
	}
	var changes []change.Change
	reported := make(map[string]bool)
	for i, line := range lines {
		for _, m := range thisAssignment.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if declared[name] || reported[name] {
				continue
			}
			reported[name] = true
			changes = append(changes, change.Advisory(change.KindModify, i+1, fmt.Sprintf(
				"Dynamic property $%s is deprecated in PHP 8.2; declare it or add #[\\AllowDynamicProperties]", name)))
		}
	}
	return content, changes
}

// suggestOverride flags public or protected methods of subclasses without #[\Override].
func suggestOverride(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	if !extendsClass.MatchString(content) {
		return content, nil
	}
	lines := strings.Split(content, "\n")
	var changes []change.Change
	for i, line := range lines {
		m := overridable.FindStringSubmatch(line)
		if m == nil || strings.HasPrefix(m[1], "__") {
			continue
		}
		if i > 0 && strings.Contains(lines[i-1], "Override") {
			continue
		}
		changes = append(changes, change.Advisory(change.KindModify, i+1, fmt.Sprintf(
			"PHP 8.3: add #[\\Override] to %s() if it overrides a parent method", m[1])))
	}
	return content, changes
}

// explicitNullable rewrites "Type $x = null" parameters to "?Type $x = null".
func explicitNullable(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	lines := strings.Split(content, "\n")
	var changes []change.Change
	for i, line := range lines {
		if !strings.Contains(line, "function") {
			continue
		}
		updated := implicitNullable.ReplaceAllStringFunc(line, func(match string) string {
			m := implicitNullable.FindStringSubmatch(match)
			switch strings.ToLower(m[2]) {
			case "mixed", "null":
				return match
			}
			return m[1] + "?" + m[2] + " " + m[3] + " = null"
		})
		if updated == line {
			continue
		}
		changes = append(changes, change.Edit(change.KindModify, i+1,
			"Implicitly nullable parameters are deprecated in PHP 8.4; add an explicit ?",
			strings.TrimSpace(line), strings.TrimSpace(updated)))
		lines[i] = updated
	}
	if len(changes) == 0 {
		return content, nil
	}
	return strings.Join(lines, "\n"), changes
}

// suggestPropertyHooks flags properties that have a matching getter or setter.
func suggestPropertyHooks(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	accessors := make(map[string]bool)
	for _, m := range getterOrSetter.FindAllStringSubmatch(content, -1) {
		accessors[strings.ToLower(m[1])] = true
	}
	if len(accessors) == 0 {
		return content, nil
	}
	var changes []change.Change
	for i, line := range strings.Split(content, "\n") {
		m := propertyDeclared.FindStringSubmatch(line)
		if m == nil || !accessors[strings.ToLower(m[1])] {
			continue
		}
		changes = append(changes, change.Advisory(change.KindModify, i+1, fmt.Sprintf(
			"PHP 8.4 property hooks can replace the accessor methods for $%s", m[1])))
	}
	return content, changes
}
