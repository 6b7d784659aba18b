package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// ToolsCmd groups tool inspection commands.
type ToolsCmd struct {
	List ToolsListCmd `cmd:"" default:"1" help:"List available tools"`
	Show ToolsShowCmd `cmd:"" help:"Show a tool's input schema"`
}

// ToolsListCmd lists the tools registered in the toolbox.
type ToolsListCmd struct {
	Format string `short:"f" enum:"table,json" default:"table" help:"Output format"`
}

func (c *ToolsListCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	tools := app.Toolbox.Tools()

	switch c.Format {
	case "json":
		out := make([]map[string]string, 0, len(tools))
		for _, t := range tools {
			out = append(out, map[string]string{
				"name":        t.GetName(),
				"description": t.GetDescription(),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, t := range tools {
			fmt.Fprintf(w, "%s\t%s\n", t.GetName(), t.GetDescription())
		}
		w.Flush()
	}
	return nil
}

// ToolsShowCmd prints one tool's JSON schema.
type ToolsShowCmd struct {
	Name string `arg:"" help:"Tool name"`
}

func (c *ToolsShowCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	tool, ok := app.Toolbox.Get(c.Name)
	if !ok {
		return fmt.Errorf("unknown tool %q", c.Name)
	}

	data, err := json.MarshalIndent(tool.GetParameters(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n%s\n", tool.GetName(), tool.GetDescription(), string(data))
	return nil
}
