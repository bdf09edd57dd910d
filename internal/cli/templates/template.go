package templates

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
)

type TemplateShowCmd struct{}

func (c *TemplateShowCmd) Run(ctx *cli.Context) error {
	tmpl, err := ctx.Store.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	ctx.Printf("Template: %d sections, %d items (day complete at 80%% of %d points)\n",
		len(tmpl.Sections), tmpl.ItemCount(), tmpl.ItemCount()+2)
	for _, s := range tmpl.Sections {
		ctx.Printf("\n%s (complete at %d/%d)\n", s.Name, s.Threshold(), len(s.Items))
		for _, it := range s.Items {
			req := " "
			if it.Required {
				req = "*"
			}
			ctx.Printf("  %s %-4s %s\n", req, it.ID, it.Label)
		}
	}
	return nil
}

type TemplateExportCmd struct {
	File string `arg:"" optional:"" help:"Output file. Prints to stdout when omitted."`
}

func (c *TemplateExportCmd) Run(ctx *cli.Context) error {
	tmpl, err := ctx.Store.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}
	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}

	if c.File == "" {
		ctx.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.File, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	ctx.Printf("✓ Template exported to %s\n", c.File)
	return nil
}

type TemplateImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON template to import."`
}

func (c *TemplateImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	var tmpl models.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if len(tmpl.Sections) == 0 {
		return fmt.Errorf("template has no sections")
	}

	ctx.PerformAutomaticBackup()
	u, err := ctx.Tracker.ImportTemplate(tmpl)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Template imported: %d sections, %d items\n", len(tmpl.Sections), tmpl.ItemCount())
	ctx.Printf("  History rescored. Streak: %d current, %d longest\n", u.Streak.Current, u.Streak.Longest)
	return nil
}
