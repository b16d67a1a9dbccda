package conceptcard

import (
	"encoding/json"
	"sort"
	"strings"
)

// Key aliases in precedence order. Lookups try the exact key first, then a
// case-insensitive match.
var (
	wrapperKeys    = []string{"analysis", "result", "data", "output"}
	whyKeys        = []string{"why", "purpose", "theWhy", "the_why", "raison"}
	howKeys        = []string{"how", "method", "approach", "mechanism"}
	whatKeys       = []string{"what", "definition", "structure"}
	titleKeys      = []string{"title", "heading", "name", "label"}
	contentKeys    = []string{"content", "text", "body", "details"}
	coreKeys       = []string{"coreComponents", "core_components", "components", "core", "parts"}
	mechanismKeys  = []string{"operatingMechanism", "operating_mechanism", "mechanism", "how_it_works", "operation"}
	boundariesKeys = []string{"applicationBoundaries", "application_boundaries", "boundaries", "limitations", "scope"}
	englishKeys    = []string{"en", "english", "en-us", "en_us", "eng"}
	chineseKeys    = []string{"zh", "chinese", "zh-cn", "zh_cn", "cn", "zh-hans"}
)

// Default section titles used when the model omits one.
var (
	defaultWhyTitle        = BilingualText{EN: "Why", ZH: "为什么"}
	defaultHowTitle        = BilingualText{EN: "How", ZH: "如何"}
	defaultWhatTitle       = BilingualText{EN: "What", ZH: "是什么"}
	defaultCoreTitle       = BilingualText{EN: "Core Components", ZH: "核心要素"}
	defaultMechanismTitle  = BilingualText{EN: "Operating Mechanism", ZH: "运作机制"}
	defaultBoundariesTitle = BilingualText{EN: "Application Boundaries", ZH: "适用边界"}
)

// paragraphSep joins string arrays into one block.
const paragraphSep = "\n\n"

// NormalizeJSON parses raw model output and normalizes it. Only a JSON syntax
// error is reported; any well-formed value yields an Analysis.
func NormalizeJSON(data []byte) (Analysis, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Analysis{}, err
	}
	return Normalize(v), nil
}

// Normalize converts an arbitrary decoded JSON value into the strict Analysis
// shape. It never fails: missing sections get default titles and empty
// content. Analysis values are accepted too, which makes the operation
// idempotent.
func Normalize(v any) Analysis {
	switch a := v.(type) {
	case Analysis:
		v = toGeneric(a)
	case *Analysis:
		if a != nil {
			v = toGeneric(*a)
		}
	}

	root := v
	if s, ok := root.(string); ok {
		var inner any
		if json.Unmarshal([]byte(strings.TrimSpace(s)), &inner) == nil {
			if _, isObj := inner.(map[string]any); isObj {
				root = inner
			}
		}
	}
	if !hasAnySection(root) {
		if wrapped, ok := lookup(root, wrapperKeys); ok {
			if _, isObj := wrapped.(map[string]any); isObj {
				root = wrapped
			}
		}
	}

	whatRaw, _ := lookup(root, whatKeys)
	return Analysis{
		Why: normalizeSection(lookupOrNil(root, whyKeys), defaultWhyTitle),
		How: normalizeSection(lookupOrNil(root, howKeys), defaultHowTitle),
		What: WhatSection{
			Title:                 withDefault(normalizeBilingual(lookupOrNil(whatRaw, titleKeys)), defaultWhatTitle),
			CoreComponents:        normalizeSection(lookupOrNil(whatRaw, coreKeys), defaultCoreTitle),
			OperatingMechanism:    normalizeSection(lookupOrNil(whatRaw, mechanismKeys), defaultMechanismTitle),
			ApplicationBoundaries: normalizeSection(lookupOrNil(whatRaw, boundariesKeys), defaultBoundariesTitle),
		},
	}
}

func hasAnySection(v any) bool {
	return hasAny(v, whyKeys, howKeys, whatKeys)
}

func hasAny(v any, aliases ...[]string) bool {
	for _, keys := range aliases {
		if _, ok := lookup(v, keys); ok {
			return true
		}
	}
	return false
}

func normalizeSection(raw any, defaultTitle BilingualText) Section {
	switch raw.(type) {
	case string, []any:
		// A bare value is the section body.
		return Section{Title: defaultTitle, Content: normalizeBilingual(raw)}
	}
	if !hasAny(raw, titleKeys, contentKeys) {
		// A bare {en, zh} object is the section body too.
		if body := normalizeBilingual(raw); body.EN != "" {
			return Section{Title: defaultTitle, Content: body}
		}
	}
	return Section{
		Title:   withDefault(normalizeBilingual(lookupOrNil(raw, titleKeys)), defaultTitle),
		Content: normalizeBilingual(lookupOrNil(raw, contentKeys)),
	}
}

func withDefault(b, def BilingualText) BilingualText {
	if b.EN == "" {
		b.EN = def.EN
	}
	if b.ZH == "" {
		b.ZH = def.ZH
	}
	return b
}

// normalizeBilingual accepts {en, zh}-style objects, plain strings and arrays
// of strings. A single language is mirrored into the other.
func normalizeBilingual(v any) BilingualText {
	switch val := v.(type) {
	case string:
		return BilingualText{EN: val, ZH: val}
	case []any:
		s := joinStrings(val)
		return BilingualText{EN: s, ZH: s}
	case map[string]any:
		en := textValue(lookupOrNil(val, englishKeys))
		zh := textValue(lookupOrNil(val, chineseKeys))
		if en == "" {
			en = zh
		}
		if zh == "" {
			zh = en
		}
		return BilingualText{EN: en, ZH: zh}
	}
	return BilingualText{}
}

func textValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		return joinStrings(val)
	}
	return ""
}

func joinStrings(items []any) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, paragraphSep)
}

func lookupOrNil(v any, keys []string) any {
	found, _ := lookup(v, keys)
	return found
}

// lookup returns the value of the first alias present in an object. Nulls
// count as absent.
func lookup(v any, keys []string) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, false
	}

	var sorted []string
	for _, key := range keys {
		if val, ok := obj[key]; ok && val != nil {
			return val, true
		}
		if sorted == nil {
			sorted = sortedKeys(obj)
		}
		for _, k := range sorted {
			if strings.EqualFold(k, key) && obj[k] != nil {
				return obj[k], true
			}
		}
	}
	return nil, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toGeneric(a Analysis) any {
	data, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}
