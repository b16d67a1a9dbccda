package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/conceptcard"
)

type analysisOutput struct {
	Concept  string               `json:"concept"`
	Provider string               `json:"provider,omitempty"`
	Analysis conceptcard.Analysis `json:"analysis"`
	ShareURL string               `json:"shareUrl,omitempty"`
	Elapsed  int64                `json:"elapsedMs,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnalysis(w io.Writer, state conceptcard.ShareableState, providerName string, loc conceptcard.Locale) {
	a := state.Analysis
	fmt.Fprintln(w, state.Concept)
	fmt.Fprintln(w, strings.Repeat("=", max(utf8.RuneCountInString(state.Concept), 3)))

	printSection(w, a.Why, loc, "")
	printSection(w, a.How, loc, "")

	fmt.Fprintf(w, "\n%s\n", a.What.Title.In(loc))
	for _, s := range []conceptcard.Section{a.What.CoreComponents, a.What.OperatingMechanism, a.What.ApplicationBoundaries} {
		printSection(w, s, loc, "  ")
	}

	if providerName != "" {
		fmt.Fprintf(w, "\n-- %s\n", providerName)
	}
}

func printSection(w io.Writer, s conceptcard.Section, loc conceptcard.Locale, indent string) {
	fmt.Fprintf(w, "\n%s%s\n", indent, s.Title.In(loc))
	for _, line := range strings.Split(s.Content.In(loc), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
}
