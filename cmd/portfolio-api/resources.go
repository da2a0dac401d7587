package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tanzim/portfolio-api/domain/resource"
	"gopkg.in/yaml.v3"
)

var resourcesOutput string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resources served by the API",
	Long: `Print the resource registry: the URL path, backing collection and
capabilities of every resource, plus the legacy endpoint names.

Examples:
  portfolio-api resources
  portfolio-api resources --output yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResources(cmd.OutOrStdout(), resource.DefaultRegistry(), resourcesOutput)
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)

	resourcesCmd.Flags().StringVarP(&resourcesOutput, "output", "o", "table", "output format: table or yaml")
}

type resourceView struct {
	Name          string   `yaml:"name"`
	Path          string   `yaml:"path"`
	Collection    string   `yaml:"collection"`
	Label         string   `yaml:"label"`
	Operations    []string `yaml:"operations"`
	StampCreated  bool     `yaml:"stamp_created_at"`
	SoftDelete    bool     `yaml:"soft_delete"`
	ReportMissing bool     `yaml:"report_missing"`
	Legacy        []string `yaml:"legacy_routes"`
}

func viewOf(def resource.Definition) resourceView {
	v := resourceView{
		Name:          def.Name,
		Path:          "/" + def.Path,
		Collection:    def.Collection,
		Label:         def.Label,
		StampCreated:  def.StampCreatedAt,
		SoftDelete:    def.SoftDelete,
		ReportMissing: def.ReportMissing,
	}
	for _, op := range []resource.Operation{resource.OpCreate, resource.OpList, resource.OpUpdate, resource.OpDelete} {
		if !def.Allows(op) {
			continue
		}
		v.Operations = append(v.Operations, op.String())
		switch op {
		case resource.OpCreate:
			v.Legacy = append(v.Legacy, "POST /add_"+def.SingularName())
		case resource.OpList:
			v.Legacy = append(v.Legacy, "GET /all_"+def.PluralName())
		case resource.OpUpdate:
			v.Legacy = append(v.Legacy, "PATCH /update_"+def.SingularName()+"/{id}")
		case resource.OpDelete:
			v.Legacy = append(v.Legacy, "DELETE /delete_"+def.SingularName()+"/{id}")
		}
	}
	return v
}

func printResources(w io.Writer, reg *resource.Registry, format string) error {
	views := make([]resourceView, 0, reg.Len())
	for _, def := range reg.All() {
		views = append(views, viewOf(def))
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPATH\tCOLLECTION\tOPERATIONS\tFLAGS")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				v.Name, v.Path, v.Collection, strings.Join(v.Operations, ","), flags(v))
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown output format %q (want table or yaml)", format)
	}
}

func flags(v resourceView) string {
	var f []string
	if v.StampCreated {
		f = append(f, "stamp")
	}
	if v.SoftDelete {
		f = append(f, "soft-delete")
	}
	if v.ReportMissing {
		f = append(f, "report-missing")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}
