package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"printshop/internal/catalog"
	"printshop/internal/importer"
)

func main() {
	app := &cli.App{
		Name:  "printshop-catalog",
		Usage: "inspect and produce service price lists",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "validate a catalog CSV and print the parsed services",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "path to the catalog CSV", Required: true, EnvVars: []string{"CATALOG_CSV"}},
				},
				Action: check,
			},
			{
				Name:   "export",
				Usage:  "write the built-in catalog as CSV to stdout",
				Action: export,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func check(c *cli.Context) error {
	cat, err := importer.LoadCatalog(c.String("file"))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tPRICE")
	for _, svc := range cat.Services() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", svc.Key, svc.Label, svc.UnitPrice.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d services OK\n", cat.Len())
	return nil
}

func export(c *cli.Context) error {
	return importer.WriteCSV(c.App.Writer, catalog.Default().Services())
}
