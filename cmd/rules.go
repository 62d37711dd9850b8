package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Investorold/arcshield-sub000/internal/rules"
)

var (
	rulesDirs      []string
	rulesNoBuiltin bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the loaded rule population",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every loaded rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildRuleStore()
		if err != nil {
			return err
		}

		all := store.All()
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSEVERITY\tCATEGORY\tLANGUAGES\tENABLED")
		for _, r := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
				r.ID, r.Severity, r.Category, strings.Join(r.Languages, ","), r.Enabled)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		for _, set := range store.Sets() {
			fmt.Printf("\nset %s@%s: %d rule(s) from %s\n", set.Name, set.Version, set.RuleCount, set.Path)
		}
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <rule-id>",
	Short: "Show one rule in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildRuleStore()
		if err != nil {
			return err
		}

		rule, ok := store.ByID(args[0])
		if !ok {
			return fmt.Errorf("rule %q is not loaded", args[0])
		}

		fmt.Printf("id:          %s\n", rule.ID)
		fmt.Printf("name:        %s\n", rule.Name)
		fmt.Printf("severity:    %s\n", rule.Severity)
		fmt.Printf("category:    %s\n", rule.Category)
		fmt.Printf("confidence:  %s\n", rule.Confidence)
		fmt.Printf("languages:   %s\n", strings.Join(rule.Languages, ", "))
		if len(rule.Frameworks) > 0 {
			fmt.Printf("frameworks:  %s\n", strings.Join(rule.Frameworks, ", "))
		}
		if rule.CWE != "" {
			fmt.Printf("cwe:         %s\n", rule.CWE)
		}
		if rule.OWASP != "" {
			fmt.Printf("owasp:       %s\n", rule.OWASP)
		}
		if rule.Description != "" {
			fmt.Printf("description: %s\n", rule.Description)
		}
		fmt.Println("patterns:")
		for _, p := range rule.Patterns {
			line := "  - " + p.Pattern
			if p.Multiline {
				line += "  (multiline)"
			}
			fmt.Println(line)
		}
		if len(rule.ExcludePatterns) > 0 {
			fmt.Println("exclude patterns:")
			for _, p := range rule.ExcludePatterns {
				fmt.Println("  - " + p.Pattern)
			}
		}
		fmt.Printf("remediation: %s\n", rule.Remediation)
		return nil
	},
}

func init() {
	rulesCmd.PersistentFlags().StringSliceVar(&rulesDirs, "rules-dir", nil, "Rule-set directory (repeatable)")
	rulesCmd.PersistentFlags().BoolVar(&rulesNoBuiltin, "no-builtin", false, "Skip the built-in rule set")
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}

func buildRuleStore() (*rules.Store, error) {
	store := rules.NewStore(rules.Filter{})
	if !rulesNoBuiltin {
		for _, w := range store.AddSet(rules.Builtin(), "builtin") {
			logger.Warn(w)
		}
	}
	if len(rulesDirs) > 0 {
		docs, warnings, err := rules.LoadDirs(rulesDirs)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			logger.Warn(w)
		}
		for _, doc := range docs {
			for _, w := range store.AddSet(doc.Set, doc.Path) {
				logger.Warn(w)
			}
		}
	}
	return store, nil
}
