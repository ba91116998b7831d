package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage enrolled voiceprints",
}

var membersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List enrolled members",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		members := a.registry.List()
		if len(members) == 0 {
			fmt.Println("No members enrolled")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tRELATION\tSAMPLES\tENROLLED")
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				m.ID, m.Name, m.Relation, m.SampleCount, m.RegisteredAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
		return nil
	},
}

var membersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an enrolled member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		record, err := a.registry.Delete(args[0])
		if err != nil {
			return err
		}
		if err := a.registry.Snapshot(cmd.Context(), a.store); err != nil {
			return fmt.Errorf("persist voiceprints: %w", err)
		}
		fmt.Printf("Deleted %s (id %s)\n", record.Name, record.ID)
		return nil
	},
}

func init() {
	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersDeleteCmd)
	rootCmd.AddCommand(membersCmd)
}
