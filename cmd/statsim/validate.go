package main

import (
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load content and report what it defines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			c, err := loadContent(cmd, cfg)
			if err != nil {
				return err
			}

			cmd.Printf("content OK: %d stats, %d sheets, %d effects\n",
				len(c.StatNames()), len(c.SheetNames()), len(c.EffectNames()))
			for _, name := range c.SheetNames() {
				cmd.Printf("  sheet  %s (%d entries)\n", name, len(c.Sheet(name).Entries))
			}
			for _, name := range c.EffectNames() {
				e := c.Effect(name)
				cmd.Printf("  effect %s mode=%s modifiers=%d\n", name, e.Mode.Name(), len(e.Modifiers))
			}
			return nil
		},
	}
}
