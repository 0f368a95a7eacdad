package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ListResult is the payload of the list command.
type ListResult struct {
	Entity string   `json:"entity,omitempty"`
	Names  []string `json:"names"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [entity]",
		Short: "List database entities, or the variants of one entity",
		Long: `List the entities of the force-field database in document order.

With an entity argument, list that entity's variants instead. Framework
force fields are the variants of the "framework" entity.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := ""
			if len(args) == 1 {
				entity = args[0]
			}
			return runList(rootOpts, entity, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, entity string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	db, _, err := loadDatabase(opts)
	if err != nil {
		return fail(formatter, err)
	}

	result := ListResult{Entity: entity}
	if entity == "" {
		result.Names = db.Entities()
	} else if result.Names, err = db.Variants(entity); err != nil {
		return fail(formatter, err)
	}

	descriptions := make(map[string]string, len(result.Names))
	if entity != "" {
		for _, name := range result.Names {
			v, err := db.Lookup(entity, name)
			if err != nil {
				return fail(formatter, err)
			}
			descriptions[name] = v.Description
		}
	}

	return formatter.Success(result, func(w io.Writer) {
		for _, name := range result.Names {
			if entity == "" {
				fmt.Fprintln(w, name)
				continue
			}
			fmt.Fprintf(w, "%-20s %s\n", name, descriptions[name])
		}
	})
}
