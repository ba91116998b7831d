package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Manage family code challenge questions",
	Long: `Family codes are shared challenge questions for verifying a caller
when voice analysis alone is not conclusive. Only a digest of the
answer is stored.

Examples:
  deeptruth challenge register --name "Mom" \
    --question "What did we name the goldfish?" --answer "Bubbles"
  deeptruth challenge verify a1b2c3d4 --answer "bubbles"`,
}

var challengeRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new challenge question",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		question, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		c, err := a.challenges.Register(cmd.Context(), name, question, answer)
		if err != nil {
			return err
		}
		fmt.Printf("Registered challenge %s for %s\n", c.ID, c.Name)
		return nil
	},
}

var challengeVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Check an answer against a registered challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, _ := cmd.Flags().GetString("answer")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		ok, err := a.challenges.Verify(cmd.Context(), args[0], answer)
		if err != nil {
			return err
		}
		if ok {
			fmt.Println("Answer verified")
			return nil
		}
		return fmt.Errorf("answer does not match")
	},
}

var challengeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		challenges, err := a.challenges.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(challenges) == 0 {
			fmt.Println("No challenges registered")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tQUESTION\tCREATED")
		for _, c := range challenges {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				c.ID, c.Name, c.Question, c.CreatedAt.Format("2006-01-02"))
		}
		w.Flush()
		return nil
	},
}

var challengeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.challenges.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted challenge %s\n", args[0])
		return nil
	},
}

func init() {
	challengeRegisterCmd.Flags().String("name", "", "family member the challenge belongs to")
	challengeRegisterCmd.Flags().String("question", "", "challenge question (required)")
	challengeRegisterCmd.Flags().String("answer", "", "expected answer (required, never stored in the clear)")
	challengeVerifyCmd.Flags().String("answer", "", "answer to check")

	challengeCmd.AddCommand(challengeRegisterCmd)
	challengeCmd.AddCommand(challengeVerifyCmd)
	challengeCmd.AddCommand(challengeListCmd)
	challengeCmd.AddCommand(challengeDeleteCmd)
	rootCmd.AddCommand(challengeCmd)
}
